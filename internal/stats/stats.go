// Package stats implements the fuzz session's shared iteration/crash
// counters, mirroring FuzzerStats in
// original_source/src/libs/executor/src/lib.rs's AtomicUsize pair with
// Go's sync/atomic.Uint64.
package stats

import "sync/atomic"

// Counters is safe for concurrent use by every worker goroutine sharing it
// by pointer.
type Counters struct {
	iterations atomic.Uint64
	crashes    atomic.Uint64
}

// New returns a zeroed Counters.
func New() *Counters {
	return &Counters{}
}

func (c *Counters) Iterations() uint64 { return c.iterations.Load() }
func (c *Counters) Crashes() uint64    { return c.crashes.Load() }

func (c *Counters) IncIterations() { c.iterations.Add(1) }

// IncIterationsBy adds n in one atomic step, used after a batch of n
// mutate-deliver cycles instead of n individual increments.
func (c *Counters) IncIterationsBy(n uint64) { c.iterations.Add(n) }

func (c *Counters) IncCrashes() { c.crashes.Add(1) }
