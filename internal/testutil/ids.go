// Package testutil provides deterministic helpers shared by tests.
package testutil

import (
	"fmt"
	"sync"
)

// SequentialGenerator generates detection IDs of the form <prefix><n>, n
// starting at 1 and zero-padded to three digits.
//
// Unlike classify.FixedGenerator it never runs out, which suits fixtures
// whose detection count is not known in advance. The same page processed
// with a fresh generator yields byte-identical IDs.
//
// Thread-safety: Generate is safe for concurrent use.
type SequentialGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialGenerator creates a generator. An empty prefix means "d".
func NewSequentialGenerator(prefix string) *SequentialGenerator {
	if prefix == "" {
		prefix = "d"
	}
	return &SequentialGenerator{prefix: prefix}
}

// Generate returns the next ID.
//
// Implements classify.IDGenerator.
func (g *SequentialGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s%03d", g.prefix, g.n)
}

// Reset restarts the sequence at 1.
func (g *SequentialGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
