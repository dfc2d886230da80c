package ppm

// History is the sliding window of the last MaxOrder accepted characters.
type History struct {
	buf  []byte
	fill byte
}

// NewHistory returns a window of length n filled with fill.
func NewHistory(n int, fill byte) *History {
	h := &History{buf: make([]byte, n), fill: fill}
	h.Reset()
	return h
}

// Reset refills the window with the fill character.
func (h *History) Reset() {
	for i := range h.buf {
		h.buf[i] = h.fill
	}
}

// Context returns the trailing order characters. Order 0 is the empty string.
func (h *History) Context(order int) string {
	return string(h.buf[len(h.buf)-order:])
}

// Push drops the oldest character and appends c.
func (h *History) Push(c byte) {
	if len(h.buf) == 0 {
		return
	}
	copy(h.buf, h.buf[1:])
	h.buf[len(h.buf)-1] = c
}

// String returns the whole window, oldest character first.
func (h *History) String() string {
	return string(h.buf)
}
