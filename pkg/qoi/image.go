package qoi

import (
	"image"
	"image/color"
	"io"
)

func init() {
	image.RegisterFormat("qoi", Magic, decodeImage, DecodeConfig)
}

// Image is a decoded QOI stream: its header and pixels in row-major order.
type Image struct {
	Header Header
	Pixels []Pixel
}

// Complete reports whether the image holds exactly Width*Height pixels.
func (m *Image) Complete() bool {
	return uint64(len(m.Pixels)) == m.Header.Pixels()
}

func (m *Image) ColorModel() color.Model {
	return color.NRGBAModel
}

func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(m.Header.Width), int(m.Header.Height))
}

// At returns the pixel at (x, y), or transparent black outside the decoded
// pixels.
func (m *Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(m.Bounds())) {
		return color.NRGBA{}
	}
	i := y*int(m.Header.Width) + x
	if i >= len(m.Pixels) {
		return color.NRGBA{}
	}
	return m.Pixels[i].NRGBA()
}

// NRGBA copies the pixels into a standard library image. Missing trailing
// pixels stay transparent black; extra pixels are dropped.
func (m *Image) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(m.Bounds())
	n := min(len(m.Pixels), len(img.Pix)/4)
	for i := range n {
		p := m.Pixels[i]
		img.Pix[i*4+0] = p.R
		img.Pix[i*4+1] = p.G
		img.Pix[i*4+2] = p.B
		img.Pix[i*4+3] = p.A
	}
	return img
}

// DecodeConfig reads only the header.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(h.Width),
		Height:     int(h.Height),
	}, nil
}

func decodeImage(r io.Reader) (image.Image, error) {
	m, err := DecodeWithOptions(r, Options{VerifyMagic: true, Strict: true})
	if err != nil {
		return nil, err
	}
	return m.NRGBA(), nil
}
