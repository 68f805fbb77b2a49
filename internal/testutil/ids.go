package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDGenerator returns UUID-shaped snapshot IDs that count up from
// 1, ending in the sequence number:
//
//	00000000-0000-7000-8000-000000000001
//
// It satisfies store.IDGenerator and, unlike store.FixedGenerator, never
// runs out.
type SequentialIDGenerator struct {
	mu sync.Mutex
	n  uint64
}

// NewSequentialIDGenerator creates a generator whose first ID ends in 1.
func NewSequentialIDGenerator() *SequentialIDGenerator {
	return &SequentialIDGenerator{}
}

// Generate returns the next ID.
func (g *SequentialIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("00000000-0000-7000-8000-%012d", g.n)
}
