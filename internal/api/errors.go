package api

import (
	"errors"
	"net/http"

	"github.com/samcharles93/qoid/pkg/qoi"
)

var ErrInvalidRequest = errors.New("invalid_request")

type invalidRequestError struct {
	msg string
}

func (e invalidRequestError) Error() string {
	return e.msg
}

func (e invalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

func newInvalidRequest(msg string) error {
	return invalidRequestError{msg: msg}
}

// decodeErrorCodes maps decoder sentinels to stable error codes.
var decodeErrorCodes = []struct {
	err  error
	code string
}{
	{qoi.ErrMalformedHeader, "malformed_header"},
	{qoi.ErrTruncatedStream, "truncated_stream"},
	{qoi.ErrInvalidCacheReference, "invalid_cache_reference"},
	{qoi.ErrUnknownOpcode, "unknown_opcode"},
	{qoi.ErrPixelCountMismatch, "pixel_count_mismatch"},
	{qoi.ErrImageTooLarge, "image_too_large"},
}

// classifyError returns the HTTP status, error type and code for err.
func classifyError(err error) (int, string, string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, "invalid_request_error", "body_too_large"
	}
	if errors.Is(err, ErrInvalidRequest) {
		return http.StatusBadRequest, "invalid_request_error", ""
	}
	for _, m := range decodeErrorCodes {
		if errors.Is(err, m.err) {
			return http.StatusUnprocessableEntity, "decode_error", m.code
		}
	}
	return http.StatusInternalServerError, "server_error", ""
}
