package testutil

import (
	"fmt"
	"sync"
)

// RunIDs generates run identifiers that are UUID-shaped but deterministic:
// successive calls yield lexicographically increasing IDs. Store listings
// break sequence ties on the run ID, so tests that need a predictable
// order use these instead of random UUIDs.
type RunIDs struct {
	mu sync.Mutex
	n  int64
}

// NewRunIDs creates a generator. The first ID ends in 000000000001.
func NewRunIDs() *RunIDs {
	return &RunIDs{}
}

// Next returns the next run ID.
func (g *RunIDs) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", g.n)
}
