package qoi

import "image/color"

// Pixel is a non-premultiplied 8-bit RGBA value.
type Pixel struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// DefaultPixel returns opaque black, the implicit pixel before the first one
// in every stream.
func DefaultPixel() Pixel {
	return Pixel{A: 255}
}

// PixelFromRGB builds an opaque pixel from a raw RGB triple.
func PixelFromRGB(b [3]byte) Pixel {
	return Pixel{R: b[0], G: b[1], B: b[2], A: 255}
}

// PixelFromRGBA builds a pixel from a raw RGBA quadruple.
func PixelFromRGBA(b [4]byte) Pixel {
	return Pixel{R: b[0], G: b[1], B: b[2], A: b[3]}
}

// PixelFromColor converts any color to a non-premultiplied pixel.
func PixelFromColor(c color.Color) Pixel {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Pixel{R: n.R, G: n.G, B: n.B, A: n.A}
}

// RGB returns the color channels, dropping alpha.
func (p Pixel) RGB() [3]byte {
	return [3]byte{p.R, p.G, p.B}
}

func (p Pixel) RGBA() [4]byte {
	return [4]byte{p.R, p.G, p.B, p.A}
}

func (p Pixel) NRGBA() color.NRGBA {
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A}
}

// Hash returns the cache slot of p. Products wrap at 8 bits, which does not
// change the result modulo 64.
func (p Pixel) Hash() uint8 {
	return (p.R*3 + p.G*5 + p.B*7 + p.A*11) % CacheSize
}
