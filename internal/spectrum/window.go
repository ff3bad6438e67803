// ABOUTME: Sliding sample window for spectrum analysis
// ABOUTME: Fixed-capacity circular buffer that evicts the oldest sample
package spectrum

// Window holds the most recent samples up to a fixed capacity
type Window struct {
	buf  []float64
	next int // slot written by the next Push
	n    int
}

// NewWindow creates an empty window of the given capacity
func NewWindow(capacity int) *Window {
	return &Window{buf: make([]float64, capacity)}
}

// Push appends v, evicting the oldest sample when full
func (w *Window) Push(v float64) {
	w.buf[w.next] = v
	w.next++
	if w.next == len(w.buf) {
		w.next = 0
	}
	if w.n < len(w.buf) {
		w.n++
	}
}

// Len returns the number of samples held
func (w *Window) Len() int { return w.n }

// Cap returns the window capacity
func (w *Window) Cap() int { return len(w.buf) }

// Full reports whether the window holds Cap samples
func (w *Window) Full() bool { return w.n == len(w.buf) }

// CopyTo writes the held samples oldest first and returns the count
func (w *Window) CopyTo(dst []float64) int {
	start := w.next - w.n
	if start < 0 {
		start += len(w.buf)
	}
	if start+w.n <= len(w.buf) {
		return copy(dst, w.buf[start:start+w.n])
	}
	k := copy(dst, w.buf[start:])
	return k + copy(dst[k:], w.buf[:w.n-(len(w.buf)-start)])
}
