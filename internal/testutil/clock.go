// Package testutil provides deterministic stand-ins for the identifier and
// sequence sources used when recording checking runs, so tests and golden
// comparisons produce stable output.
package testutil

import "sync"

// SeqClock is a thread-safe monotonic logical clock. Tests use it to
// assign run sequence numbers without going through a store, and to check
// that a store's own sequence assignment agrees with a local count.
type SeqClock struct {
	mu  sync.Mutex
	seq int64
}

// NewSeqClock creates a clock starting at 0. The first call to Next
// returns 1.
func NewSeqClock() *SeqClock {
	return &SeqClock{}
}

// Next increments and returns the next sequence number.
func (c *SeqClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the current sequence number without incrementing.
func (c *SeqClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset sets the clock back to 0 so a scenario can run again with
// identical sequence numbers.
func (c *SeqClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}
