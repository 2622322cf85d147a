package qoi

const windowSize = 8

// window is a fixed 8-byte ring buffer holding the next unconsumed bytes of
// the opcode stream. Pushing into a full window overwrites the oldest byte.
type window struct {
	buf   [windowSize]byte
	start int
	n     int
}

// push appends b, dropping the oldest byte when full.
func (w *window) push(b byte) {
	if w.n < windowSize {
		w.buf[(w.start+w.n)%windowSize] = b
		w.n++
		return
	}
	w.buf[w.start] = b
	w.start = (w.start + 1) % windowSize
}

// at returns the i-th oldest byte.
func (w *window) at(i int) byte {
	return w.buf[(w.start+i)%windowSize]
}

func (w *window) front() byte {
	return w.at(0)
}

func (w *window) full() bool {
	return w.n == windowSize
}

// equal reports whether the window holds exactly the bytes of m, oldest first.
func (w *window) equal(m [windowSize]byte) bool {
	if !w.full() {
		return false
	}
	for i := range m {
		if w.at(i) != m[i] {
			return false
		}
	}
	return true
}

// bytes returns the contents oldest first.
func (w *window) bytes() []byte {
	out := make([]byte, w.n)
	for i := range out {
		out[i] = w.at(i)
	}
	return out
}
