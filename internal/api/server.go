// Package api serves QOI decoding over HTTP.
package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/qoid/internal/export"
	"github.com/samcharles93/qoid/internal/logger"
	"github.com/samcharles93/qoid/internal/source"
	"github.com/samcharles93/qoid/internal/version"
	"github.com/samcharles93/qoid/pkg/qoi"
)

// DefaultMaxBodyBytes bounds request bodies when no limit is configured.
const DefaultMaxBodyBytes = 64 << 20

type Config struct {
	MaxBodyBytes int64
	// StoreSize bounds how many inspect reports are kept for GET.
	StoreSize int
	Decode    qoi.Options
	Logger    logger.Logger
}

type Server struct {
	maxBody int64
	opts    qoi.Options
	log     logger.Logger
	store   *ReportStore
	clock   func() time.Time
}

func NewServer(cfg Config) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	return &Server{
		maxBody: cfg.MaxBodyBytes,
		opts:    cfg.Decode,
		log:     cfg.Logger,
		store:   NewReportStore(cfg.StoreSize),
		clock:   time.Now,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)
	e.POST("/v1/decode", s.handleDecode)
	e.POST("/v1/inspect", s.handleInspect)
	e.GET("/v1/inspect/:id", s.handleGetInspect)
	e.DELETE("/v1/inspect/:id", s.handleDeleteInspect)
	e.POST("/v1/trace", s.handleTrace)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return writeJSON(c, http.StatusOK, HealthResponse{Status: "ok", Version: version.Resolve()})
}

func (s *Server) handleDecode(c *echo.Context) error {
	id := requestID(c)

	format := export.PNG
	if q := c.QueryParam("format"); q != "" {
		f, err := export.ParseFormat(q)
		if err != nil {
			return writeBadRequest(c, err.Error())
		}
		format = f
	}

	img, _, err := s.decodeBody(c)
	if err != nil {
		return s.writeFailure(c, id, err)
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, img, format); err != nil {
		return s.writeFailure(c, id, fmt.Errorf("export %s: %w", format, err))
	}

	h := c.Response().Header()
	h.Set("X-Qoi-Width", strconv.FormatUint(uint64(img.Header.Width), 10))
	h.Set("X-Qoi-Height", strconv.FormatUint(uint64(img.Header.Height), 10))
	s.log.Debug("decoded", "id", id, "width", img.Header.Width, "height", img.Header.Height, "format", format)
	return writeBlob(c, http.StatusOK, format.ContentType(), buf.Bytes())
}

func (s *Server) handleInspect(c *echo.Context) error {
	id := requestID(c)

	img, st, err := s.decodeBody(c)
	if err != nil {
		return s.writeFailure(c, id, err)
	}
	// Report ids are always minted so callers cannot overwrite each
	// other's reports by reusing a request id.
	report := NewInspectResponse(newReportID(), img, st)
	report.RequestID = id
	report = s.store.Put(report, s.clock())
	return writeJSON(c, http.StatusOK, report)
}

func (s *Server) handleGetInspect(c *echo.Context) error {
	report, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "report not found")
	}
	return writeJSON(c, http.StatusOK, report)
}

func (s *Server) handleDeleteInspect(c *echo.Context) error {
	id := c.Param("id")
	if !s.store.Delete(id) {
		return writeNotFound(c, "report not found")
	}
	return writeJSON(c, http.StatusOK, DeleteResponse{ID: id, Object: "inspect", Deleted: true})
}

// handleTrace streams one event per decoded opcode. Errors before the
// header is known are returned as a normal JSON error response.
func (s *Server) handleTrace(c *echo.Context) error {
	id := requestID(c)

	r, err := s.bodyReader(c)
	if err != nil {
		return s.writeFailure(c, id, err)
	}
	defer r.Close()

	d := qoi.NewDecoder(source.WithContext(c.Request().Context(), r), s.opts)
	h, err := d.Header()
	if err != nil {
		return s.writeFailure(c, id, err)
	}

	sw, err := NewSSEStreamWriter(c)
	if err != nil {
		return s.writeFailure(c, id, err)
	}
	c.Response().WriteHeader(http.StatusOK)
	if err := sw.Begin(h); err != nil {
		return err
	}
	for {
		done, err := d.Step()
		if err != nil {
			s.log.Warn("trace failed", "id", id, "error", err)
			return sw.Failed(err)
		}
		if done {
			break
		}
		if err := sw.EmitOp(d.LastOp()); err != nil {
			return err
		}
	}
	img, err := d.Decode()
	if err != nil {
		return sw.Failed(err)
	}
	return sw.Complete(NewInspectResponse(id, img, d.Stats()))
}

// bodyReader limits the request body and unwraps zstd compression.
func (s *Server) bodyReader(c *echo.Context) (*source.Reader, error) {
	body := http.MaxBytesReader(c.Response(), c.Request().Body, s.maxBody)
	r, err := source.NewReader(body)
	if err != nil {
		if errors.Is(err, source.ErrEmptyInput) {
			return nil, newInvalidRequest("request body is empty")
		}
		return nil, err
	}
	return r, nil
}

func (s *Server) decodeBody(c *echo.Context) (*qoi.Image, qoi.Stats, error) {
	r, err := s.bodyReader(c)
	if err != nil {
		return nil, qoi.Stats{}, err
	}
	defer r.Close()

	d := qoi.NewDecoder(source.WithContext(c.Request().Context(), r), s.opts)
	img, err := d.Decode()
	return img, d.Stats(), err
}

func (s *Server) writeFailure(c *echo.Context, id string, err error) error {
	status, errType, code := classifyError(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "id", id, "error", err)
	} else {
		s.log.Warn("request rejected", "id", id, "code", code, "error", err)
	}
	return writeError(c, status, errType, err.Error(), code)
}
