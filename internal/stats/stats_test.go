package stats

import (
	"sync"
	"testing"
)

func TestCountersStartAtZero(t *testing.T) {
	c := New()
	if c.Iterations() != 0 || c.Crashes() != 0 {
		t.Fatalf("New() counters = %d/%d, want 0/0", c.Iterations(), c.Crashes())
	}
}

func TestIncIterationsByAddsInOneStep(t *testing.T) {
	c := New()
	c.IncIterationsBy(1000)
	if c.Iterations() != 1000 {
		t.Fatalf("Iterations() = %d, want 1000", c.Iterations())
	}
}

func TestCountersAreConcurrencySafe(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.IncIterations()
			}
		}()
	}
	wg.Wait()
	if c.Iterations() != 10000 {
		t.Fatalf("Iterations() = %d, want 10000", c.Iterations())
	}
}

func TestIncCrashes(t *testing.T) {
	c := New()
	c.IncCrashes()
	c.IncCrashes()
	if c.Crashes() != 2 {
		t.Fatalf("Crashes() = %d, want 2", c.Crashes())
	}
}
