package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/qoid/internal/api"
	"github.com/samcharles93/qoid/pkg/qoi"
)

func inspectCmd() *cli.Command {
	var (
		inPath  string
		asJSON  bool
		showOps bool
	)

	return &cli.Command{
		Name:  "inspect",
		Usage: "Print the header and opcode statistics of a .qoi file",
		Flags: append(decodeFlags(),
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "path to .qoi or .qoi.zst file (- for stdin)",
				Destination: &inPath,
				Required:    true,
			},
			&cli.BoolFlag{Name: "json", Usage: "print JSON instead of text", Destination: &asJSON},
			&cli.BoolFlag{Name: "ops", Usage: "show the opcode histogram", Value: true, Destination: &showOps},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			img, st, err := decodeFile(ctx, inPath, decodeOptions(cmd))
			if err != nil {
				return err
			}
			report := api.NewInspectResponse(inPath, img, st)
			if asJSON {
				return printJSON(os.Stdout, report)
			}
			return printReport(os.Stdout, report, showOps)
		},
	}
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func printReport(w io.Writer, r api.InspectResponse, showOps bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "file:\t%s\n", r.ID)
	fmt.Fprintf(tw, "magic:\t%q\n", r.Header.Magic)
	fmt.Fprintf(tw, "size:\t%dx%d\n", r.Header.Width, r.Header.Height)
	fmt.Fprintf(tw, "channels:\t%s\n", r.Header.Channels)
	fmt.Fprintf(tw, "colorspace:\t%s\n", r.Header.ColorSpace)
	fmt.Fprintf(tw, "pixels:\t%d (complete: %v)\n", r.Pixels, r.Complete)
	fmt.Fprintf(tw, "bytes:\t%d\n", r.Bytes)
	if showOps {
		for _, t := range qoi.Tags {
			fmt.Fprintf(tw, "op %s:\t%d\n", t, r.Ops[t.String()])
		}
	}
	return tw.Flush()
}
