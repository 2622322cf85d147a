package qoi

import (
	"bytes"
	"testing"
)

func TestWindowRing(t *testing.T) {
	t.Parallel()

	var w window
	for i := range windowSize {
		if w.full() {
			t.Fatalf("full after %d pushes", i)
		}
		w.push(byte(i))
	}
	if !w.full() {
		t.Fatalf("expected full window")
	}
	if !bytes.Equal(w.bytes(), []byte{0, 1, 2, 3, 4, 5, 6, 7}) {
		t.Fatalf("contents: %v", w.bytes())
	}

	w.push(8)
	w.push(9)
	if w.front() != 2 {
		t.Fatalf("front: got %d want 2", w.front())
	}
	if !bytes.Equal(w.bytes(), []byte{2, 3, 4, 5, 6, 7, 8, 9}) {
		t.Fatalf("contents after wrap: %v", w.bytes())
	}
}

func TestWindowEndMarker(t *testing.T) {
	t.Parallel()

	var w window
	for _, b := range EndMarker[:7] {
		w.push(b)
	}
	if w.equal(EndMarker) {
		t.Fatalf("partial window matched the end marker")
	}
	w.push(1)
	if !w.equal(EndMarker) {
		t.Fatalf("expected end marker match")
	}
	w.push(0)
	if w.equal(EndMarker) {
		t.Fatalf("shifted window matched the end marker")
	}
}
