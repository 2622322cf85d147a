package api

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/qoid/pkg/qoi"
)

// traceEvent is one server-sent event of a decode trace.
type traceEvent struct {
	Type           string           `json:"type"`
	SequenceNumber int              `json:"sequence_number"`
	Header         *HeaderInfo      `json:"header,omitempty"`
	Op             *qoi.Op          `json:"op,omitempty"`
	Report         *InspectResponse `json:"report,omitempty"`
	Error          *ResponseError   `json:"error,omitempty"`
}

// SSEStreamWriter writes a decode trace as server-sent events. Events with
// a sequence number at or below starting_after are skipped so clients can
// resume a trace.
type SSEStreamWriter struct {
	w             io.Writer
	flusher       func()
	startingAfter int
	seq           int
}

func NewSSEStreamWriter(c *echo.Context) (*SSEStreamWriter, error) {
	res := c.Response()

	flusher, ok := res.(interface{ Flush() })
	if !ok {
		return nil, fmt.Errorf("streaming unsupported")
	}

	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")

	return &SSEStreamWriter{
		w:             res,
		flusher:       flusher.Flush,
		startingAfter: parseStartingAfter(c.QueryParam("starting_after")),
		seq:           1,
	}, nil
}

func (s *SSEStreamWriter) Begin(h qoi.Header) error {
	info := NewHeaderInfo(h)
	return s.emit(traceEvent{Type: "trace.header", Header: &info})
}

func (s *SSEStreamWriter) EmitOp(op qoi.Op) error {
	return s.emit(traceEvent{Type: "trace.op", Op: &op})
}

func (s *SSEStreamWriter) Complete(r InspectResponse) error {
	return s.emit(traceEvent{Type: "trace.completed", Report: &r})
}

func (s *SSEStreamWriter) Failed(err error) error {
	_, errType, code := classifyError(err)
	return s.emit(traceEvent{
		Type:  "trace.failed",
		Error: &ResponseError{Message: err.Error(), Type: errType, Code: code},
	})
}

func (s *SSEStreamWriter) emit(ev traceEvent) error {
	ev.SequenceNumber = s.seq
	if err := s.send(ev); err != nil {
		return err
	}
	s.flush()
	s.seq++
	return nil
}

func (s *SSEStreamWriter) send(payload traceEvent) error {
	if s.startingAfter >= payload.SequenceNumber {
		return nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", payload.Type, b)
	return err
}

func (s *SSEStreamWriter) flush() {
	if s.flusher != nil {
		s.flusher()
	}
}

func parseStartingAfter(v string) int {
	if v == "" {
		return 0
	}
	n := 0
	for _, r := range v {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
