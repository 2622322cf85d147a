package qoi

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedHeader       = errors.New("qoi: malformed header")
	ErrTruncatedStream       = errors.New("qoi: truncated stream")
	ErrInvalidCacheReference = errors.New("qoi: invalid cache reference")
	ErrUnknownOpcode         = errors.New("qoi: unknown opcode")
	ErrPixelCountMismatch    = errors.New("qoi: pixel count mismatch")
	ErrImageTooLarge         = errors.New("qoi: image too large")
)

// DecodeError reports where in the stream a decode stopped.
type DecodeError struct {
	// Offset is the byte offset of the failing opcode, counted from the
	// start of the stream (header included).
	Offset int64
	// Pixel is the number of pixels decoded before the failure.
	Pixel int
	Tag   Tag
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Tag == TagNone {
		return fmt.Sprintf("%v (offset %d, pixel %d)", e.Err, e.Offset, e.Pixel)
	}
	return fmt.Sprintf("%v (op %s at offset %d, pixel %d)", e.Err, e.Tag, e.Offset, e.Pixel)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
