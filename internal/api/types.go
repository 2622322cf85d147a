package api

import (
	"github.com/samcharles93/qoid/internal/version"
	"github.com/samcharles93/qoid/pkg/qoi"
)

type ErrorBody struct {
	Error ResponseError `json:"error"`
}

type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

type HeaderInfo struct {
	Magic      string `json:"magic"`
	Width      uint32 `json:"width"`
	Height     uint32 `json:"height"`
	Channels   string `json:"channels"`
	ColorSpace string `json:"colorspace"`
}

// InspectResponse summarises a decoded stream.
type InspectResponse struct {
	ID        string         `json:"id"`
	RequestID string         `json:"request_id,omitempty"`
	CreatedAt int64          `json:"created_at,omitempty"`
	Header    HeaderInfo     `json:"header"`
	Pixels    int            `json:"pixels"`
	Complete  bool           `json:"complete"`
	Ops       map[string]int `json:"ops"`
	Bytes     int64          `json:"bytes"`
}

type DeleteResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

type HealthResponse struct {
	Status  string       `json:"status"`
	Version version.Info `json:"version"`
}

func NewHeaderInfo(h qoi.Header) HeaderInfo {
	return HeaderInfo{
		Magic:      string(h.Magic[:]),
		Width:      h.Width,
		Height:     h.Height,
		Channels:   h.Channels.String(),
		ColorSpace: h.ColorSpace.String(),
	}
}

func NewInspectResponse(id string, img *qoi.Image, st qoi.Stats) InspectResponse {
	return InspectResponse{
		ID:       id,
		Header:   NewHeaderInfo(img.Header),
		Pixels:   len(img.Pixels),
		Complete: img.Complete(),
		Ops:      OpCounts(st),
		Bytes:    st.Bytes,
	}
}

// OpCounts turns decoder stats into a name-keyed histogram.
func OpCounts(st qoi.Stats) map[string]int {
	out := make(map[string]int, len(qoi.Tags))
	for _, t := range qoi.Tags {
		out[t.String()] = st.Count(t)
	}
	return out
}
