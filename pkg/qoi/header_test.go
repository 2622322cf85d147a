package qoi

import (
	"bytes"
	"errors"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	t.Parallel()

	h := NewHeader(640, 480, RGB, SRGB)
	data, err := h.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if len(data) != HeaderSize {
		t.Fatalf("header size: got %d want %d", len(data), HeaderSize)
	}
	if want := []byte{'q', 'o', 'i', 'f', 0, 0, 2, 128, 0, 0, 1, 224, 3, 0}; !bytes.Equal(data, want) {
		t.Fatalf("wire form: got %v want %v", data, want)
	}

	got, err := ReadHeader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if got != h {
		t.Fatalf("round trip: got %+v want %+v", got, h)
	}
	if !got.HasMagic() {
		t.Fatalf("expected magic to be recognised")
	}
}

func TestReadHeaderAdvancesExactly(t *testing.T) {
	t.Parallel()

	h := NewHeader(1, 1, RGBA, Linear)
	data, _ := h.MarshalBinary()
	r := bytes.NewReader(append(data, 0xAB))
	if _, err := ReadHeader(r); err != nil {
		t.Fatalf("read header: %v", err)
	}
	b, err := r.ReadByte()
	if err != nil || b != 0xAB {
		t.Fatalf("next byte: got %x, %v", b, err)
	}
}

func TestReadHeaderRejectsEnums(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		channels   byte
		colorspace byte
	}{
		{name: "channels zero", channels: 0, colorspace: 0},
		{name: "channels two", channels: 2, colorspace: 0},
		{name: "channels five", channels: 5, colorspace: 1},
		{name: "colorspace two", channels: 4, colorspace: 2},
		{name: "colorspace max", channels: 3, colorspace: 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			data := []byte{'q', 'o', 'i', 'f', 0, 0, 0, 1, 0, 0, 0, 1, tt.channels, tt.colorspace}
			_, err := ReadHeader(bytes.NewReader(data))
			if !errors.Is(err, ErrMalformedHeader) {
				t.Fatalf("expected ErrMalformedHeader, got %v", err)
			}
		})
	}
}

func TestReadHeaderTruncated(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 4, 13} {
		data := make([]byte, n)
		_, err := ReadHeader(bytes.NewReader(data))
		if !errors.Is(err, ErrTruncatedStream) {
			t.Fatalf("%d bytes: expected ErrTruncatedStream, got %v", n, err)
		}
	}
}

func TestReadHeaderKeepsForeignMagic(t *testing.T) {
	t.Parallel()

	data := []byte{'a', 'b', 'c', 'd', 0, 0, 0, 2, 0, 0, 0, 3, 4, 1}
	h, err := ReadHeader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if h.HasMagic() {
		t.Fatalf("foreign magic reported as qoif")
	}
	if string(h.Magic[:]) != "abcd" || h.Width != 2 || h.Height != 3 || h.Channels != RGBA || h.ColorSpace != Linear {
		t.Fatalf("unexpected header %+v", h)
	}
	if h.Pixels() != 6 {
		t.Fatalf("pixels: got %d", h.Pixels())
	}
}

func TestMarshalRejectsInvalidEnums(t *testing.T) {
	t.Parallel()

	h := NewHeader(1, 1, Channels(7), SRGB)
	if _, err := h.MarshalBinary(); !errors.Is(err, ErrMalformedHeader) {
		t.Fatalf("expected ErrMalformedHeader, got %v", err)
	}
}
