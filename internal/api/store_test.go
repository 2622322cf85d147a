package api

import (
	"testing"
	"time"
)

func TestReportStoreEvictsOldest(t *testing.T) {
	t.Parallel()

	s := NewReportStore(2)
	now := time.Unix(1700000000, 0)
	if stored := s.Put(InspectResponse{ID: "a"}, now); stored.CreatedAt != now.Unix() {
		t.Fatalf("Put did not stamp created_at: %+v", stored)
	}
	s.Put(InspectResponse{ID: "b"}, now)
	s.Put(InspectResponse{ID: "a", Pixels: 9}, now)
	if s.Len() != 2 {
		t.Fatalf("len: %d", s.Len())
	}
	got, ok := s.Get("a")
	if !ok || got.Pixels != 9 {
		t.Fatalf("replaced report: %+v %v", got, ok)
	}
	if got.CreatedAt != now.Unix() {
		t.Fatalf("created_at: got %d want %d", got.CreatedAt, now.Unix())
	}

	s.Put(InspectResponse{ID: "c"}, now)
	if _, ok := s.Get("a"); ok {
		t.Fatalf("expected a evicted")
	}
	if _, ok := s.Get("b"); !ok {
		t.Fatalf("expected b kept")
	}
	if _, ok := s.Get("c"); !ok {
		t.Fatalf("expected c kept")
	}
}

func TestReportStoreDelete(t *testing.T) {
	t.Parallel()

	s := NewReportStore(0)
	s.Put(InspectResponse{ID: "x"}, time.Now())
	if !s.Delete("x") {
		t.Fatalf("expected delete to succeed")
	}
	if s.Delete("x") {
		t.Fatalf("expected second delete to fail")
	}
	for i := range DefaultStoreSize + 1 {
		s.Put(InspectResponse{ID: string(rune('A' + i%26)) + string(rune('0'+i/26))}, time.Now())
	}
	if s.Len() != DefaultStoreSize {
		t.Fatalf("len: %d", s.Len())
	}
}

func TestParseStartingAfter(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]int{"": 0, "7": 7, "12": 12, "-1": 0, "x": 0} {
		if got := parseStartingAfter(in); got != want {
			t.Fatalf("parseStartingAfter(%q) = %d, want %d", in, got, want)
		}
	}
}
