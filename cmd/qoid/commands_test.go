package main

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/qoid/internal/api"
	"github.com/samcharles93/qoid/internal/export"
	"github.com/samcharles93/qoid/pkg/qoi"
)

func writeQOI(t *testing.T, w, h uint32, px []qoi.Pixel) string {
	t.Helper()
	var buf bytes.Buffer
	if err := qoi.EncodePixels(&buf, qoi.NewHeader(w, h, qoi.RGBA, qoi.SRGB), px); err != nil {
		t.Fatalf("encode: %v", err)
	}
	path := filepath.Join(t.TempDir(), "in.qoi")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func testPixels() []qoi.Pixel {
	return []qoi.Pixel{
		{R: 255, G: 0, B: 0, A: 255},
		{R: 0, G: 255, B: 0, A: 255},
		{R: 0, G: 0, B: 255, A: 128},
		{R: 255, G: 0, B: 0, A: 255},
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name   string
		format string
		out    string
		want   export.Format
	}{
		{"explicit", "bmp", "out.png", export.BMP},
		{"extension", "", "out.tif", export.TIFF},
		{"stdout", "", "-", export.PNG},
		{"unknown extension", "", "out.xyz", export.PNG},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveFormat(tt.format, tt.out)
			if err != nil {
				t.Fatalf("resolveFormat returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}

	if _, err := resolveFormat("gif", "out.png"); !errors.Is(err, export.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestDecodeFileToPNG(t *testing.T) {
	in := writeQOI(t, 2, 2, testPixels())

	img, st, err := decodeFile(context.Background(), in, qoi.Options{VerifyMagic: true, Strict: true})
	if err != nil {
		t.Fatalf("decodeFile returned error: %v", err)
	}
	if st.Pixels != 4 || !img.Complete() {
		t.Fatalf("unexpected stats %+v", st)
	}

	out := filepath.Join(t.TempDir(), "out.png")
	if err := writeOutput(out, img, export.PNG); err != nil {
		t.Fatalf("writeOutput returned error: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	m, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png decode: %v", err)
	}
	if m.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("unexpected bounds %v", m.Bounds())
	}
	got := color.NRGBAModel.Convert(m.At(0, 1)).(color.NRGBA)
	if got != (color.NRGBA{R: 0, G: 0, B: 255, A: 128}) {
		t.Fatalf("unexpected pixel %+v", got)
	}
}

func TestDecodeFileErrors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, _, err := decodeFile(context.Background(), filepath.Join(t.TempDir(), "missing.qoi"), qoi.Options{})
		if !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("expected not-exist error, got %v", err)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		in := writeQOI(t, 2, 2, testPixels())
		data, err := os.ReadFile(in)
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(in, data[:len(data)-3], 0o600); err != nil {
			t.Fatal(err)
		}
		_, _, err = decodeFile(context.Background(), in, qoi.Options{})
		if !errors.Is(err, qoi.ErrTruncatedStream) {
			t.Fatalf("expected ErrTruncatedStream, got %v", err)
		}
	})
}

func TestPrintReport(t *testing.T) {
	in := writeQOI(t, 2, 2, testPixels())
	img, st, err := decodeFile(context.Background(), in, qoi.Options{})
	if err != nil {
		t.Fatalf("decodeFile returned error: %v", err)
	}
	report := api.NewInspectResponse("in.qoi", img, st)

	var text bytes.Buffer
	if err := printReport(&text, report, true); err != nil {
		t.Fatalf("printReport returned error: %v", err)
	}
	for _, want := range []string{"size:", "2x2", "rgba", "srgb", "op index:"} {
		if !strings.Contains(text.String(), want) {
			t.Fatalf("report missing %q:\n%s", want, text.String())
		}
	}

	var js bytes.Buffer
	if err := printJSON(&js, report); err != nil {
		t.Fatalf("printJSON returned error: %v", err)
	}
	var decoded api.InspectResponse
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Header.Width != 2 || decoded.Pixels != 4 || decoded.Ops["index"] != 1 {
		t.Fatalf("unexpected report %+v", decoded)
	}
}

func TestEncodeFile(t *testing.T) {
	dir := t.TempDir()
	src := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	src.SetNRGBA(2, 0, color.NRGBA{R: 200, G: 0, B: 0, A: 255})

	in := filepath.Join(dir, "in.png")
	f, err := os.Create(in)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	opts, err := encoderOptions(3, 1)
	if err != nil {
		t.Fatalf("encoderOptions returned error: %v", err)
	}
	out := filepath.Join(dir, "out.qoi")
	format, size, err := encodeFile(in, out, opts)
	if err != nil {
		t.Fatalf("encodeFile returned error: %v", err)
	}
	if format != "png" || size <= qoi.HeaderSize {
		t.Fatalf("unexpected format %q size %d", format, size)
	}

	img, _, err := decodeFile(context.Background(), out, qoi.Options{Strict: true})
	if err != nil {
		t.Fatalf("decodeFile returned error: %v", err)
	}
	if img.Header.Channels != qoi.RGB || img.Header.ColorSpace != qoi.Linear {
		t.Fatalf("unexpected header %+v", img.Header)
	}
	if img.Pixels[2] != (qoi.Pixel{R: 200, G: 0, B: 0, A: 255}) {
		t.Fatalf("unexpected pixel %+v", img.Pixels[2])
	}
}

func TestEncoderOptionsRejectsBadValues(t *testing.T) {
	if _, err := encoderOptions(5, 0); !errors.Is(err, qoi.ErrMalformedHeader) {
		t.Fatalf("expected ErrMalformedHeader for channels, got %v", err)
	}
	if _, err := encoderOptions(4, 2); !errors.Is(err, qoi.ErrMalformedHeader) {
		t.Fatalf("expected ErrMalformedHeader for colorspace, got %v", err)
	}
	if _, err := encoderOptions(300, 0); err == nil {
		t.Fatalf("expected error for out-of-range channels")
	}
}

func TestDecodeFormatUsageListsFormats(t *testing.T) {
	for _, fl := range decodeCmd().Flags {
		sf, ok := fl.(*cli.StringFlag)
		if !ok || sf.Name != "format" {
			continue
		}
		for _, f := range export.Formats {
			if !strings.Contains(sf.Usage, string(f)) {
				t.Fatalf("usage %q does not mention %s", sf.Usage, f)
			}
		}
		return
	}
	t.Fatal("decode has no --format flag")
}
