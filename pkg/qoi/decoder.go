package qoi

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// maxPrealloc bounds the pixel slice capacity reserved from header
// dimensions alone. Larger images grow the slice as pixels arrive.
const maxPrealloc = 1 << 20

// State is the position of a Decoder in its state machine.
type State uint8

const (
	StateAwaitingHeader State = iota
	StateStreaming
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAwaitingHeader:
		return "awaiting-header"
	case StateStreaming:
		return "streaming"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Options tune validation beyond the wire format. The zero value decodes
// any structurally valid stream.
type Options struct {
	// VerifyMagic rejects headers whose magic is not "qoif".
	VerifyMagic bool
	// Strict rejects zero dimensions and requires exactly Width*Height
	// pixels before the end marker.
	Strict bool
	// MaxPixels rejects headers declaring more pixels. Zero means no limit.
	MaxPixels uint64
}

// Stats counts what a decode has consumed so far.
type Stats struct {
	Ops    [TagRun + 1]int
	Pixels int
	// Bytes read from the source, header included.
	Bytes int64
}

// Count returns how many opcodes of class t were decoded.
func (s *Stats) Count(t Tag) int {
	if int(t) >= len(s.Ops) {
		return 0
	}
	return s.Ops[t]
}

// Decoder decodes one QOI stream. It is not safe for concurrent use and
// cannot be reused for another stream.
type Decoder struct {
	src    *byteSource
	opts   Options
	state  State
	err    error
	header Header
	win    window
	cache  Cache
	prev   Pixel
	pixels []Pixel
	stats  Stats
	last   Op
	img    *Image
}

// Op describes one decoded opcode.
type Op struct {
	Tag Tag `json:"tag"`
	// Offset is the stream offset of the tag byte.
	Offset int64 `json:"offset"`
	// Pixel is the index of the first pixel the op produced.
	Pixel int   `json:"pixel"`
	Count int   `json:"count"`
	Value Pixel `json:"value"`
}

// NewDecoder returns a decoder reading from r. Reads are buffered unless r
// already implements io.ByteReader.
func NewDecoder(r io.Reader, opts Options) *Decoder {
	return &Decoder{
		src:  newByteSource(r),
		opts: opts,
		prev: DefaultPixel(),
	}
}

// Decode reads a complete QOI stream from r.
func Decode(r io.Reader) (*Image, error) {
	return NewDecoder(r, Options{}).Decode()
}

func DecodeWithOptions(r io.Reader, opts Options) (*Image, error) {
	return NewDecoder(r, opts).Decode()
}

func DecodeBytes(b []byte) (*Image, error) {
	return Decode(bytes.NewReader(b))
}

// LastOp returns the most recently decoded opcode. It is the zero Op until
// the first opcode has been decoded.
func (d *Decoder) LastOp() Op {
	return d.last
}

func (d *Decoder) State() State {
	return d.state
}

// Stats returns a snapshot of the decode counters.
func (d *Decoder) Stats() Stats {
	s := d.stats
	s.Pixels = len(d.pixels)
	s.Bytes = d.src.off
	return s
}

// Header reads the header if that has not happened yet and returns it.
func (d *Decoder) Header() (Header, error) {
	if d.state == StateAwaitingHeader {
		if _, err := d.Step(); err != nil {
			return Header{}, err
		}
	}
	if d.state == StateFailed {
		return Header{}, d.err
	}
	return d.header, nil
}

// Decode runs the state machine to completion. A failed decode returns no
// image.
func (d *Decoder) Decode() (*Image, error) {
	for {
		done, err := d.Step()
		if err != nil {
			return nil, err
		}
		if done {
			return d.img, nil
		}
	}
}

// Step advances the decoder by one transition: reading the header, or
// decoding one opcode, or detecting the end marker. It reports true once
// the stream is complete.
func (d *Decoder) Step() (bool, error) {
	switch d.state {
	case StateAwaitingHeader:
		if err := d.readHeader(); err != nil {
			return true, d.fail(&DecodeError{Offset: 0, Err: err})
		}
		d.state = StateStreaming
		return false, nil
	case StateStreaming:
		if d.win.equal(EndMarker) {
			return true, d.finish()
		}
		return false, d.decodeOp()
	case StateDone:
		return true, nil
	default:
		return true, d.err
	}
}

func (d *Decoder) fail(err error) error {
	d.state = StateFailed
	d.err = err
	d.pixels = nil
	return err
}

func (d *Decoder) readHeader() error {
	h, err := ReadHeader(d.src)
	if err != nil {
		return err
	}
	if d.opts.VerifyMagic && !h.HasMagic() {
		return fmt.Errorf("%w: magic %q", ErrMalformedHeader, h.Magic[:])
	}
	if d.opts.Strict && (h.Width == 0 || h.Height == 0) {
		return fmt.Errorf("%w: zero dimension %dx%d", ErrMalformedHeader, h.Width, h.Height)
	}
	if d.opts.MaxPixels > 0 && h.Pixels() > d.opts.MaxPixels {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrImageTooLarge, h.Width, h.Height, d.opts.MaxPixels)
	}
	d.header = h
	d.pixels = make([]Pixel, 0, min(h.Pixels(), maxPrealloc))

	for range windowSize {
		b, err := d.src.readByte()
		if err != nil {
			return err
		}
		d.win.push(b)
	}
	return nil
}

func (d *Decoder) finish() error {
	if d.opts.Strict && uint64(len(d.pixels)) != d.header.Pixels() {
		return d.fail(&DecodeError{
			Offset: d.src.off - windowSize,
			Pixel:  len(d.pixels),
			Err:    fmt.Errorf("%w: decoded %d, header declares %d", ErrPixelCountMismatch, len(d.pixels), d.header.Pixels()),
		})
	}
	d.state = StateDone
	d.img = &Image{Header: d.header, Pixels: d.pixels}
	return nil
}

// consume drops n bytes from the front of the window and refills it from
// the source.
func (d *Decoder) consume(n int) error {
	for range n {
		b, err := d.src.readByte()
		if err != nil {
			return err
		}
		d.win.push(b)
	}
	return nil
}

func (d *Decoder) decodeOp() error {
	off := d.src.off - windowSize
	start := len(d.pixels)
	b := d.win.front()
	tag := Classify(b)
	if err := d.consume(1); err != nil {
		return d.fail(&DecodeError{Offset: off, Pixel: len(d.pixels), Tag: tag, Err: err})
	}

	var err error
	switch tag {
	case TagRGB:
		err = d.opRGB()
	case TagRGBA:
		err = d.opRGBA()
	case TagIndex:
		err = d.opIndex(b)
	case TagDiff:
		d.opDiff(b)
	case TagLuma:
		err = d.opLuma(b)
	case TagRun:
		d.opRun(b)
	default:
		err = fmt.Errorf("%w: 0x%02x", ErrUnknownOpcode, b)
	}
	if err == nil && d.opts.Strict && uint64(len(d.pixels)) > d.header.Pixels() {
		err = fmt.Errorf("%w: more than %d pixels", ErrPixelCountMismatch, d.header.Pixels())
	}
	if err != nil {
		return d.fail(&DecodeError{Offset: off, Pixel: len(d.pixels), Tag: tag, Err: err})
	}
	d.stats.Ops[tag]++
	d.last = Op{Tag: tag, Offset: off, Pixel: start, Count: len(d.pixels) - start, Value: d.prev}
	return nil
}

// emit appends p to the output and records it in the cache.
func (d *Decoder) emit(p Pixel) {
	d.pixels = append(d.pixels, p)
	d.cache.Insert(p)
	d.prev = p
}

func (d *Decoder) opRGB() error {
	p := Pixel{R: d.win.at(0), G: d.win.at(1), B: d.win.at(2), A: d.prev.A}
	d.emit(p)
	return d.consume(3)
}

func (d *Decoder) opRGBA() error {
	p := Pixel{R: d.win.at(0), G: d.win.at(1), B: d.win.at(2), A: d.win.at(3)}
	d.emit(p)
	return d.consume(4)
}

func (d *Decoder) opIndex(b byte) error {
	p, err := d.cache.Lookup(b & mask6)
	if err != nil {
		return err
	}
	d.emit(p)
	return nil
}

func (d *Decoder) opDiff(b byte) {
	p := d.prev
	p.R += (b>>4)&mask2 - 2
	p.G += (b>>2)&mask2 - 2
	p.B += b&mask2 - 2
	d.emit(p)
}

func (d *Decoder) opLuma(b byte) error {
	b2 := d.win.front()
	dg := b&mask6 - 32
	p := d.prev
	p.R += dg - 8 + (b2>>4)&mask4
	p.G += dg
	p.B += dg - 8 + b2&mask4
	d.emit(p)
	return d.consume(1)
}

func (d *Decoder) opRun(b byte) {
	n := int(b&mask6) + 1
	for range n {
		d.pixels = append(d.pixels, d.prev)
	}
	d.cache.Insert(d.prev)
}

// byteSource is a forward-only reader that counts consumed bytes and treats
// a short read as a truncated stream.
type byteSource struct {
	r   io.Reader
	br  io.ByteReader
	off int64
}

func newByteSource(r io.Reader) *byteSource {
	br, ok := r.(io.ByteReader)
	if !ok {
		b := bufio.NewReader(r)
		r, br = b, b
	}
	return &byteSource{r: r, br: br}
}

func (s *byteSource) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	s.off += int64(n)
	return n, err
}

func (s *byteSource) readByte() (byte, error) {
	b, err := s.br.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, fmt.Errorf("%w: stream ended after %d bytes", ErrTruncatedStream, s.off)
		}
		return 0, err
	}
	s.off++
	return b, nil
}
