package testutil

import "sync/atomic"

// DeterministicClock hands out snapshot seq values 1, 2, 3, ... in call
// order. It satisfies store.Clock, so listings of a store opened with it are
// identical across runs.
type DeterministicClock struct {
	seq atomic.Int64
}

// NewDeterministicClock returns a clock whose first seq is 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Next returns the seq for a new snapshot.
func (c *DeterministicClock) Next() int64 {
	return c.seq.Add(1)
}

// Current is the last seq handed out, or 0 before the first.
func (c *DeterministicClock) Current() int64 {
	return c.seq.Load()
}
