package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeqClockStartsAtZero(t *testing.T) {
	clock := NewSeqClock()
	assert.Equal(t, int64(0), clock.Current())
}

func TestSeqClockIncrementsMonotonically(t *testing.T) {
	clock := NewSeqClock()

	assert.Equal(t, int64(1), clock.Next())
	assert.Equal(t, int64(2), clock.Next())
	assert.Equal(t, int64(3), clock.Next())
	assert.Equal(t, int64(3), clock.Current())
}

func TestSeqClockReset(t *testing.T) {
	clock := NewSeqClock()
	clock.Next()
	clock.Next()

	clock.Reset()
	assert.Equal(t, int64(0), clock.Current())
	assert.Equal(t, int64(1), clock.Next())
}

func TestSeqClockConcurrentNext(t *testing.T) {
	clock := NewSeqClock()
	const goroutines = 50
	const calls = 100

	var wg sync.WaitGroup
	seen := make([][]int64, goroutines)
	for i := range goroutines {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			for range calls {
				seen[idx] = append(seen[idx], clock.Next())
			}
		}(i)
	}
	wg.Wait()

	all := make(map[int64]bool)
	for _, vals := range seen {
		for _, v := range vals {
			assert.False(t, all[v], "duplicate sequence %d", v)
			all[v] = true
		}
	}
	assert.Len(t, all, goroutines*calls)
	assert.Equal(t, int64(goroutines*calls), clock.Current())
}
