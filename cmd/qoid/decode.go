package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/qoid/internal/export"
	"github.com/samcharles93/qoid/internal/logger"
	"github.com/samcharles93/qoid/internal/source"
	"github.com/samcharles93/qoid/pkg/qoi"
)

func decodeCmd() *cli.Command {
	var (
		inPath  string
		outPath string
		format  string
	)

	return &cli.Command{
		Name:  "decode",
		Usage: "Decode a .qoi file to png, bmp, tiff or raw pixels",
		Flags: append(decodeFlags(),
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "path to .qoi or .qoi.zst file (- for stdin)",
				Destination: &inPath,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "output path (- for stdout)",
				Destination: &outPath,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       fmt.Sprintf("output format (%s); defaults to the output extension", export.Names()),
				Destination: &format,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyOutputConfig(cmd, loadedConfig, &format)

			f, err := resolveFormat(format, outPath)
			if err != nil {
				return err
			}

			start := time.Now()
			img, st, err := decodeFile(ctx, inPath, decodeOptions(cmd))
			if err != nil {
				return err
			}
			if err := writeOutput(outPath, img, f); err != nil {
				return err
			}
			log.Info("decoded",
				"input", inPath,
				"output", outPath,
				"width", img.Header.Width,
				"height", img.Header.Height,
				"pixels", st.Pixels,
				"format", f,
				"elapsed", time.Since(start),
			)
			if !img.Complete() {
				log.Warn("pixel count does not match header", "pixels", len(img.Pixels), "expected", img.Header.Pixels())
			}
			return nil
		},
	}
}

// resolveFormat prefers an explicit format, then the output extension, then png.
func resolveFormat(format, outPath string) (export.Format, error) {
	if format != "" {
		return export.ParseFormat(format)
	}
	if outPath == "" || outPath == "-" {
		return export.PNG, nil
	}
	f, err := export.FormatFromPath(outPath)
	if err != nil {
		return export.PNG, nil
	}
	return f, nil
}

// decodeFile opens path and decodes it with opts.
func decodeFile(ctx context.Context, path string, opts qoi.Options) (*qoi.Image, qoi.Stats, error) {
	src, err := source.Open(path)
	if err != nil {
		return nil, qoi.Stats{}, err
	}
	defer func() { _ = src.Close() }()

	logger.FromContext(ctx).Debug("opened input", "path", src.Name, "size", src.Size, "zstd", src.Compressed())

	d := qoi.NewDecoder(source.WithContext(ctx, src.Reader()), opts)
	img, err := d.Decode()
	if err != nil {
		return nil, d.Stats(), fmt.Errorf("decode %s: %w", path, err)
	}
	return img, d.Stats(), nil
}

func writeOutput(path string, img *qoi.Image, f export.Format) error {
	if path == "-" {
		return writeTo(os.Stdout, img, f)
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeTo(out, img, f); err != nil {
		_ = out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}

func writeTo(w io.Writer, img *qoi.Image, f export.Format) error {
	bw := bufio.NewWriter(w)
	if err := export.Write(bw, img, f); err != nil {
		return err
	}
	return bw.Flush()
}
