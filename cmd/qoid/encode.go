package main

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/urfave/cli/v3"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/samcharles93/qoid/internal/logger"
	"github.com/samcharles93/qoid/pkg/qoi"
)

func encodeCmd() *cli.Command {
	var (
		inPath     string
		outPath    string
		channels   uint
		colorspace uint
	)

	return &cli.Command{
		Name:  "encode",
		Usage: "Encode a png, jpeg, gif, bmp or tiff image as .qoi",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "source image", Destination: &inPath, Required: true},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output .qoi path", Destination: &outPath, Required: true},
			&cli.UintFlag{Name: "channels", Usage: "header channel count (3 or 4)", Value: 4, Destination: &channels},
			&cli.UintFlag{Name: "colorspace", Usage: "header colorspace (0 = sRGB, 1 = linear)", Value: 0, Destination: &colorspace},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			opts, err := encoderOptions(channels, colorspace)
			if err != nil {
				return err
			}
			format, size, err := encodeFile(inPath, outPath, opts)
			if err != nil {
				return err
			}
			log.Info("encoded", "input", inPath, "format", format, "output", outPath, "bytes", size)
			return nil
		},
	}
}

func encoderOptions(channels, colorspace uint) (*qoi.EncoderOptions, error) {
	if channels > 255 || colorspace > 255 {
		return nil, fmt.Errorf("channels %d / colorspace %d out of range", channels, colorspace)
	}
	ch, err := qoi.ParseChannels(byte(channels))
	if err != nil {
		return nil, err
	}
	cs, err := qoi.ParseColorSpace(byte(colorspace))
	if err != nil {
		return nil, err
	}
	return &qoi.EncoderOptions{Channels: ch, ColorSpace: cs}, nil
}

// encodeFile returns the detected input format and the output size.
func encodeFile(inPath, outPath string, opts *qoi.EncoderOptions) (string, int64, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = in.Close() }()

	m, format, err := image.Decode(in)
	if err != nil {
		return "", 0, fmt.Errorf("read %s: %w", inPath, err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return "", 0, err
	}
	if err := qoi.Encode(out, m, opts); err != nil {
		_ = out.Close()
		return "", 0, fmt.Errorf("encode %s: %w", outPath, err)
	}
	st, err := out.Stat()
	if err != nil {
		_ = out.Close()
		return "", 0, err
	}
	return format, st.Size(), out.Close()
}
