// Package source opens QOI byte streams from files, stdin or request bodies
// and hands the decoder a sequential reader. Files are memory-mapped where
// the platform allows it; zstd-compressed input is decompressed on the fly.
package source

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// StdinName selects standard input in Open.
const StdinName = "-"

// maxDecodedMemory caps the zstd window so a hostile frame header cannot
// request an arbitrary allocation.
const maxDecodedMemory = 1 << 30

var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

var ErrEmptyInput = errors.New("source: empty input")

// Source is an opened input. It must be closed to release any mapping.
type Source struct {
	Name string
	// Size is the number of raw input bytes, or -1 for streams.
	Size int64

	data    []byte
	mmapped bool
	r       *Reader
}

// Open opens path for decoding. "-" reads standard input.
func Open(path string) (*Source, error) {
	if path == StdinName {
		r, err := NewReader(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("open stdin: %w", err)
		}
		return &Source{Name: "stdin", Size: -1, r: r}, nil
	}

	data, mmapped, err := load(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	s := &Source{Name: path, Size: int64(len(data)), data: data, mmapped: mmapped}
	if len(data) == 0 {
		_ = s.Close()
		return nil, fmt.Errorf("open %s: %w", path, ErrEmptyInput)
	}

	var r *Reader
	if strings.HasSuffix(path, ".zst") || bytes.HasPrefix(data, zstdMagic) {
		r, err = newZstdReader(bytes.NewReader(data))
	} else {
		r = &Reader{r: bytes.NewReader(data)}
	}
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	s.r = r
	return s, nil
}

// Reader returns the sequential stream of QOI bytes.
func (s *Source) Reader() io.Reader {
	return s.r
}

// Compressed reports whether the input is being decompressed.
func (s *Source) Compressed() bool {
	return s.r != nil && s.r.zdec != nil
}

// Close releases the decompressor and any file mapping.
func (s *Source) Close() error {
	if s == nil {
		return nil
	}
	if s.r != nil {
		s.r.Close()
		s.r = nil
	}
	var err error
	if s.data != nil && s.mmapped {
		err = unmap(s.data)
	}
	s.data = nil
	s.mmapped = false
	return err
}

// Reader is a QOI byte stream, transparently decompressed when the input
// starts with a zstd frame.
type Reader struct {
	r    io.Reader
	zdec *zstd.Decoder
}

// NewReader sniffs r for a zstd frame and wraps it accordingly.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if len(magic) == 0 {
		return nil, ErrEmptyInput
	}
	if bytes.Equal(magic, zstdMagic) {
		return newZstdReader(br)
	}
	return &Reader{r: br}, nil
}

func newZstdReader(r io.Reader) (*Reader, error) {
	dec, err := zstd.NewReader(r,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(maxDecodedMemory),
	)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	return &Reader{r: dec, zdec: dec}, nil
}

func (r *Reader) Read(p []byte) (int, error) {
	return r.r.Read(p)
}

// Close releases decompressor resources. It does not close the underlying
// reader.
func (r *Reader) Close() {
	if r.zdec != nil {
		r.zdec.Close()
	}
}

// WithContext returns a reader that fails with ctx.Err() once ctx is done.
func WithContext(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func readAll(f *os.File, size int) ([]byte, error) {
	if size == 0 {
		return io.ReadAll(f)
	}
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := f.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}
