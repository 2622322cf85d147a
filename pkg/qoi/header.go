package qoi

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Channels is the channel count recorded in the header. It is informative
// only: decoding always yields RGBA pixels.
type Channels uint8

const (
	RGB  Channels = 3
	RGBA Channels = 4
)

// ParseChannels resolves a header byte to a known channel count.
func ParseChannels(b byte) (Channels, error) {
	switch c := Channels(b); c {
	case RGB, RGBA:
		return c, nil
	default:
		return 0, fmt.Errorf("%w: channels %d", ErrMalformedHeader, b)
	}
}

func (c Channels) String() string {
	switch c {
	case RGB:
		return "rgb"
	case RGBA:
		return "rgba"
	default:
		return fmt.Sprintf("channels(%d)", uint8(c))
	}
}

// ColorSpace is the color space recorded in the header.
type ColorSpace uint8

const (
	// SRGB is sRGB color channels with linear alpha.
	SRGB ColorSpace = 0
	// Linear is all channels linear.
	Linear ColorSpace = 1
)

// ParseColorSpace resolves a header byte to a known color space.
func ParseColorSpace(b byte) (ColorSpace, error) {
	switch cs := ColorSpace(b); cs {
	case SRGB, Linear:
		return cs, nil
	default:
		return 0, fmt.Errorf("%w: colorspace %d", ErrMalformedHeader, b)
	}
}

func (cs ColorSpace) String() string {
	switch cs {
	case SRGB:
		return "srgb"
	case Linear:
		return "linear"
	default:
		return fmt.Sprintf("colorspace(%d)", uint8(cs))
	}
}

type Header struct {
	Magic      [4]byte
	Width      uint32 // Big endian on the wire
	Height     uint32 // Big endian on the wire
	Channels   Channels
	ColorSpace ColorSpace
}

// NewHeader returns a header with the QOI magic set.
func NewHeader(width, height uint32, ch Channels, cs ColorSpace) Header {
	h := Header{
		Width:      width,
		Height:     height,
		Channels:   ch,
		ColorSpace: cs,
	}
	copy(h.Magic[:], Magic)
	return h
}

// HasMagic reports whether the stored magic is "qoif".
func (h *Header) HasMagic() bool {
	return string(h.Magic[:]) == Magic
}

// Pixels returns Width*Height without overflow.
func (h *Header) Pixels() uint64 {
	return uint64(h.Width) * uint64(h.Height)
}

// AppendBinary appends the 14-byte wire form of h to b.
func (h *Header) AppendBinary(b []byte) ([]byte, error) {
	if _, err := ParseChannels(byte(h.Channels)); err != nil {
		return b, err
	}
	if _, err := ParseColorSpace(byte(h.ColorSpace)); err != nil {
		return b, err
	}
	b = append(b, h.Magic[:]...)
	b = binary.BigEndian.AppendUint32(b, h.Width)
	b = binary.BigEndian.AppendUint32(b, h.Height)
	b = append(b, byte(h.Channels), byte(h.ColorSpace))
	return b, nil
}

func (h *Header) MarshalBinary() ([]byte, error) {
	return h.AppendBinary(make([]byte, 0, HeaderSize))
}

// UnmarshalBinary parses a header from exactly HeaderSize bytes.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: header needs %d bytes, have %d", ErrTruncatedStream, HeaderSize, len(data))
	}
	if len(data) > HeaderSize {
		return fmt.Errorf("%w: header is %d bytes, have %d", ErrMalformedHeader, HeaderSize, len(data))
	}
	ch, err := ParseChannels(data[12])
	if err != nil {
		return err
	}
	cs, err := ParseColorSpace(data[13])
	if err != nil {
		return err
	}
	copy(h.Magic[:], data[0:4])
	h.Width = binary.BigEndian.Uint32(data[4:8])
	h.Height = binary.BigEndian.Uint32(data[8:12])
	h.Channels = ch
	h.ColorSpace = cs
	return nil
}

// ReadHeader reads and validates the header, advancing r by exactly
// HeaderSize bytes on success.
func ReadHeader(r io.Reader) (Header, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, fmt.Errorf("%w: reading header", ErrTruncatedStream)
		}
		return Header{}, err
	}
	var h Header
	if err := h.UnmarshalBinary(buf[:]); err != nil {
		return Header{}, err
	}
	return h, nil
}
