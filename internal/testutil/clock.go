// Package testutil holds fixtures and deterministic helpers shared by tests.
package testutil

import "sync"

// DeterministicClock is a resettable logical clock for tests. It satisfies
// engine.Sequencer, so the same pass run twice after Reset yields identical
// event seqs.
type DeterministicClock struct {
	mu  sync.Mutex
	seq int64
}

// NewDeterministicClock creates a clock whose first Next returns 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset rewinds the clock to 0.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}

// FixedIDGenerator returns the same id every time.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a generator for id. An empty id becomes
// "test-pass".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-pass"
	}
	return &FixedIDGenerator{id: id}
}

func (g *FixedIDGenerator) Generate() string {
	return g.id
}
