package testutil

import (
	"fmt"
	"sync"
)

// SequentialQueryIDs hands out query IDs "<prefix>-1", "<prefix>-2", ...
//
// Unlike engine.FixedGenerator it never runs out, so a scenario with any
// number of queries logs the same IDs on every run.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequentialQueryIDs struct {
	mu     sync.Mutex
	prefix string
	seq    int64
}

// NewSequentialQueryIDs creates a generator. If prefix is empty, "q" is used.
func NewSequentialQueryIDs(prefix string) *SequentialQueryIDs {
	if prefix == "" {
		prefix = "q"
	}
	return &SequentialQueryIDs{prefix: prefix}
}

// Generate returns the next query ID.
//
// Implements engine.QueryIDGenerator interface.
func (g *SequentialQueryIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%d", g.prefix, g.seq)
}

// Issued returns how many IDs have been generated.
func (g *SequentialQueryIDs) Issued() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seq
}

// Reset restarts the sequence. The next Generate returns "<prefix>-1".
func (g *SequentialQueryIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
