package capture

import "sync"

// ring is a thread-safe circular buffer of mono samples with separate
// read and write positions. When full, writes overwrite the oldest
// unread samples.
type ring struct {
	buf   []int16
	size  int
	w     int // write position
	r     int // read position
	ready int // unread samples
	mu    sync.Mutex
}

func newRing(size int) *ring {
	if size < 1 {
		size = 1
	}
	return &ring{buf: make([]int16, size), size: size}
}

func (rb *ring) Write(p []int16) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for _, s := range p {
		rb.buf[rb.w] = s
		rb.w = (rb.w + 1) % rb.size
		if rb.ready == rb.size {
			rb.r = (rb.r + 1) % rb.size
		} else {
			rb.ready++
		}
	}
}

// Ready returns the number of unread samples.
func (rb *ring) Ready() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.ready
}

// Keep drops unread samples so that at most the newest n remain.
func (rb *ring) Keep(n int) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if n < 0 {
		n = 0
	}
	if rb.ready <= n {
		return
	}
	rb.r = (rb.w - n + rb.size) % rb.size
	rb.ready = n
}

// Take consumes up to n samples into a slice of length n, zero-filling
// whatever is not available.
func (rb *ring) Take(n int) []int16 {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	out := make([]int16, n)
	avail := n
	if avail > rb.ready {
		avail = rb.ready
	}
	for i := range avail {
		out[i] = rb.buf[rb.r]
		rb.r = (rb.r + 1) % rb.size
	}
	rb.ready -= avail
	return out
}

// Clear resets the buffer.
func (rb *ring) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.w = 0
	rb.r = 0
	rb.ready = 0
}
