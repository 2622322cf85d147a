package qoi

import (
	"bufio"
	"fmt"
	"image"
	"io"
)

// EncoderOptions select the header fields written by Encode.
type EncoderOptions struct {
	Channels   Channels
	ColorSpace ColorSpace
}

// Encode writes m to w as a QOI stream. A nil opts writes RGBA/sRGB.
func Encode(w io.Writer, m image.Image, opts *EncoderOptions) error {
	o := EncoderOptions{Channels: RGBA, ColorSpace: SRGB}
	if opts != nil {
		o = *opts
	}
	b := m.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return fmt.Errorf("qoi: invalid image size %dx%d", b.Dx(), b.Dy())
	}
	if uint64(b.Dx()) > 1<<32-1 || uint64(b.Dy()) > 1<<32-1 {
		return fmt.Errorf("%w: %dx%d", ErrImageTooLarge, b.Dx(), b.Dy())
	}

	px := make([]Pixel, 0, b.Dx()*b.Dy())
	if nrgba, ok := m.(*image.NRGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := nrgba.Pix[nrgba.PixOffset(b.Min.X, y):nrgba.PixOffset(b.Max.X, y)]
			for i := 0; i < len(row); i += 4 {
				px = append(px, Pixel{R: row[i], G: row[i+1], B: row[i+2], A: row[i+3]})
			}
		}
	} else {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				px = append(px, PixelFromColor(m.At(x, y)))
			}
		}
	}
	return EncodePixels(w, NewHeader(uint32(b.Dx()), uint32(b.Dy()), o.Channels, o.ColorSpace), px)
}

// EncodePixels writes h followed by px encoded as opcodes and the end
// marker. len(px) must equal h.Width*h.Height.
func EncodePixels(w io.Writer, h Header, px []Pixel) error {
	if uint64(len(px)) != h.Pixels() {
		return fmt.Errorf("%w: have %d pixels for %dx%d", ErrPixelCountMismatch, len(px), h.Width, h.Height)
	}
	hdr, err := h.MarshalBinary()
	if err != nil {
		return err
	}

	ow := &opWriter{w: bufio.NewWriter(w)}
	ow.write(hdr...)

	var (
		cache Cache
		prev  = DefaultPixel()
		run   int
	)
	for i, p := range px {
		if ow.err != nil {
			return ow.err
		}
		if h.Channels == RGB {
			p.A = 255
		}
		if p == prev {
			run++
			if run == MaxRun || i == len(px)-1 {
				ow.write(opRun | byte(run-1))
				run = 0
			}
			continue
		}
		if run > 0 {
			ow.write(opRun | byte(run-1))
			run = 0
		}

		if cache.Contains(p) {
			ow.write(opIndex | p.Hash())
			prev = p
			continue
		}
		cache.Insert(p)

		if p.A != prev.A {
			ow.write(opRGBA, p.R, p.G, p.B, p.A)
			prev = p
			continue
		}

		vr := int8(p.R - prev.R)
		vg := int8(p.G - prev.G)
		vb := int8(p.B - prev.B)
		vgr := vr - vg
		vgb := vb - vg

		switch {
		case vr >= -2 && vr <= 1 && vg >= -2 && vg <= 1 && vb >= -2 && vb <= 1:
			ow.write(opDiff | byte(vr+2)<<4 | byte(vg+2)<<2 | byte(vb+2))
		case vg >= -32 && vg <= 31 && vgr >= -8 && vgr <= 7 && vgb >= -8 && vgb <= 7:
			ow.write(opLuma|byte(vg+32), byte(vgr+8)<<4|byte(vgb+8))
		default:
			ow.write(opRGB, p.R, p.G, p.B)
		}
		prev = p
	}

	ow.write(EndMarker[:]...)
	return ow.flush()
}

// opWriter buffers opcode bytes and keeps the first write error.
type opWriter struct {
	w   *bufio.Writer
	err error
}

func (o *opWriter) write(b ...byte) {
	if o.err != nil {
		return
	}
	_, o.err = o.w.Write(b)
}

func (o *opWriter) flush() error {
	if o.err != nil {
		return o.err
	}
	return o.w.Flush()
}
