// Package export writes decoded QOI images in other formats.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/samcharles93/qoid/pkg/qoi"
)

type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
	// Raw is packed RGB or RGBA bytes, following the header channel count.
	Raw Format = "raw"
	QOI Format = "qoi"
)

var ErrUnknownFormat = errors.New("export: unknown format")

// Formats lists every supported output format.
var Formats = []Format{PNG, BMP, TIFF, Raw, QOI}

// Names returns Formats as a comma-separated list for usage and error text.
func Names() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case PNG, BMP, TIFF, Raw, QOI:
		return f, nil
	case "tif":
		return TIFF, nil
	case "rgba", "rgb":
		return Raw, nil
	default:
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, s, Names())
	}
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case PNG:
		return "image/png"
	case BMP:
		return "image/bmp"
	case TIFF:
		return "image/tiff"
	case QOI:
		return "image/qoi"
	default:
		return "application/octet-stream"
	}
}

// Write encodes img to w in format f.
func Write(w io.Writer, img *qoi.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img.NRGBA())
	case BMP:
		return bmp.Encode(w, img.NRGBA())
	case TIFF:
		return tiff.Encode(w, img.NRGBA(), &tiff.Options{Compression: tiff.Deflate})
	case Raw:
		return writeRaw(w, img)
	case QOI:
		return qoi.EncodePixels(w, img.Header, img.Pixels)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

func writeRaw(w io.Writer, img *qoi.Image) error {
	bw := bufio.NewWriter(w)
	for _, p := range img.Pixels {
		var err error
		if img.Header.Channels == qoi.RGB {
			rgb := p.RGB()
			_, err = bw.Write(rgb[:])
		} else {
			rgba := p.RGBA()
			_, err = bw.Write(rgba[:])
		}
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}
