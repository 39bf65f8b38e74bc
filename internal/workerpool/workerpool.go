// Package workerpool spawns and runs the fuzzer's per-core worker
// goroutines, mirroring spawn_workers and worker in
// original_source/src/libs/executor/src/lib.rs.
package workerpool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/0xricksanchez/hantu-go/internal/affinity"
	"github.com/0xricksanchez/hantu-go/internal/corpus"
	"github.com/0xricksanchez/hantu-go/internal/harness"
	"github.com/0xricksanchez/hantu-go/internal/mutation"
	"github.com/0xricksanchez/hantu-go/internal/prng"
	"github.com/0xricksanchez/hantu-go/internal/stats"
)

// seedFuzzCorpusSize mirrors the original's get_mutation_engine loop: 128
// synthetic random-length entries are folded into each worker's private
// corpus view in addition to the seeds loaded from disk, so mutators like
// splice/crossOver have material to draw on even against a sparse seed
// corpus.
const seedFuzzCorpusSize = 128

// Pool owns the shared corpus and counters every worker goroutine mutates
// and increments concurrently.
type Pool struct {
	cfg    harness.Config
	corpus *corpus.Corpus
	stats  *stats.Counters
}

// New builds a Pool. cfg must already have gone through
// harness.Config.WithThreads so cfg.CoreIDs is populated.
func New(cfg harness.Config, c *corpus.Corpus, s *stats.Counters) *Pool {
	return &Pool{cfg: cfg, corpus: c, stats: s}
}

// DriverFactory builds the Driver a given worker delivers test cases
// through. Workers own one Driver each so file-mode scratch files and
// persistent connections are never shared across goroutines.
type DriverFactory func(threadID int) (harness.Driver, error)

// DefaultDriverFactory returns the process-spawning driver worker threadID
// would use absent any other configuration.
func DefaultDriverFactory(cfg harness.Config) DriverFactory {
	return func(threadID int) (harness.Driver, error) {
		return harness.NewProcessDriver(cfg, threadID), nil
	}
}

// Spawn launches one goroutine per resolved core ID, each pinned via
// internal/affinity, running an independent worker loop until ctx is
// cancelled or the configured iteration cap is reached. It blocks until
// every worker has returned.
func (p *Pool) Spawn(ctx context.Context, newDriver DriverFactory) error {
	var wg sync.WaitGroup
	errs := make([]error, len(p.cfg.CoreIDs))

	for thrID, coreID := range p.cfg.CoreIDs {
		thrID, coreID := thrID, coreID
		wg.Add(1)
		go func() {
			defer wg.Done()
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			if err := affinity.Pin(coreID); err != nil {
				log.Warn().Err(err).Int("core", coreID).Msg("failed to pin worker to core")
			}
			errs[thrID] = p.worker(ctx, thrID, newDriver)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// buildEngine mirrors get_mutation_engine: a fresh Engine seeded from the
// on-disk corpus plus seedFuzzCorpusSize synthetic random entries, wired
// with the configured generator, dictionary, and custom mutators.
func (p *Pool) buildEngine(workerID int) (*mutation.Engine, error) {
	me := mutation.New().
		SetCorpus(p.corpus.Entries()).
		SetGenerator(p.cfg.Generator).
		SetGeneratorSeed(p.cfg.Seed ^ uint64(workerID)).
		SetMutationPasses(p.cfg.MutationPasses).
		SetPrintable(p.cfg.Printable)

	if p.cfg.Dict != "" {
		if _, err := me.SetTokenDict(p.cfg.Dict); err != nil {
			return nil, err
		}
	}

	var customCfgs []mutation.CustomMutatorConfig
	if p.cfg.NiMutator {
		customCfgs = append(customCfgs, mutation.CustomMutatorConfig{Kind: mutation.CustomNi})
	}
	if p.cfg.Grammar != "" {
		customCfgs = append(customCfgs, mutation.CustomMutatorConfig{
			Kind: mutation.CustomGrammarGenerator, GrammarName: p.cfg.Grammar,
		})
	}
	if len(customCfgs) > 0 {
		log.Info().Interface("mutators", customCfgs).Msg("using custom mutators")
		if err := me.EnableCustomMutators(customCfgs); err != nil {
			return nil, err
		}
	}

	seedRng := prng.NewRng(prng.New(p.cfg.Generator, p.cfg.Seed^uint64(workerID)))
	for i := 0; i < seedFuzzCorpusSize; i++ {
		sz := prng.RandRange(seedRng, 0, 98304)
		me.AddToCorpus(seedRng.RandByteVec(sz))
	}

	me.SetRandomTestCase()
	return me, nil
}

// worker runs one core-pinned fuzz loop: mutate, deliver, classify, persist
// a crash file on a hit, and repeat until ctx is cancelled or MaxIter is
// reached. Batches of p.cfg.BatchSize iterations are counted into p.stats
// at once, matching the original's per-batch inc_iterations_by.
func (p *Pool) worker(ctx context.Context, thrID int, newDriver DriverFactory) error {
	me, err := p.buildEngine(thrID)
	if err != nil {
		return fmt.Errorf("workerpool: building mutation engine for worker %d: %w", thrID, err)
	}

	d, err := newDriver(thrID)
	if err != nil {
		return fmt.Errorf("workerpool: building driver for worker %d: %w", thrID, err)
	}
	defer d.Close()

	crashesSeen := 0
	for {
		for i := 0; i < p.cfg.BatchSize; i++ {
			select {
			case <-ctx.Done():
				return nil
			default:
			}

			tc := me.Mutate()
			verdict, err := d.Deliver(ctx, tc)
			if err != nil {
				log.Warn().Err(err).Int("worker", thrID).Msg("delivery failed")
				continue
			}
			if !verdict.HasExitCode {
				log.Debug().Int("worker", thrID).Msg("target exited with signal")
				continue
			}
			if !verdict.Crashed {
				continue
			}

			p.stats.IncCrashes()
			crashesSeen++
			name := fmt.Sprintf(".crash_%d_%d_%d", thrID, verdict.ExitCode, crashesSeen)
			path := filepath.Join(p.cfg.CrashDir, name)
			if err := os.WriteFile(path, tc.Data, 0o644); err != nil {
				log.Error().Err(err).Str("path", path).Msg("failed to persist crashing test case")
			} else {
				log.Info().Int("exit_code", verdict.ExitCode).Str("path", path).Msg("crash found")
			}
		}

		p.stats.IncIterationsBy(uint64(p.cfg.BatchSize))

		if p.cfg.MaxIter > 0 && int(p.stats.Iterations()) >= p.cfg.MaxIter {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}
	}
}

