// Command hantu is the primary fuzzing CLI: it loads a seed corpus, spawns
// one worker per configured thread, and runs them until either Ctrl-C or
// the configured iteration cap, mirroring
// original_source/src/main.rs's Clargs/spawn_workers/stats-printing loop.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/0xricksanchez/hantu-go/internal/corpus"
	"github.com/0xricksanchez/hantu-go/internal/harness"
	"github.com/0xricksanchez/hantu-go/internal/prng"
	"github.com/0xricksanchez/hantu-go/internal/stats"
	"github.com/0xricksanchez/hantu-go/internal/workerpool"
)

type locale struct {
	statsLine func(elapsed float64, iterations, crashes uint64, execsPerSec float64) string
	done      func() string
}

func getLocale(lang string) locale {
	switch strings.ToLower(lang) {
	case "ja", "jp", "japanese":
		return locale{
			statsLine: func(elapsed float64, iterations, crashes uint64, execsPerSec float64) string {
				return fmt.Sprintf("[%10.6f] 実行回数: %10d - 実行/秒: %8.1f - クラッシュ: %5d",
					elapsed, iterations, execsPerSec, crashes)
			},
			done: func() string { return "ファズ終了" },
		}
	default:
		return locale{
			statsLine: func(elapsed float64, iterations, crashes uint64, execsPerSec float64) string {
				return fmt.Sprintf("[%10.6f] Iterations: %10d - exec/sec: %8.1f - crashes: %5d",
					elapsed, iterations, execsPerSec, crashes)
			},
			done: func() string { return "Fuzzing finished" },
		}
	}
}

func fatal(a ...any) {
	fmt.Fprintln(os.Stderr, a...)
	os.Exit(1)
}

func main() {
	var (
		corpusDir      string
		crashDir       string
		userDict       string
		maxIter        int
		threads        int
		prngName       string
		seed           int64
		grammarMutator string
		niMutator      bool
		printable      bool
		mutationPasses int
		batchSz        int
		versionCheck   bool
		watchCorpus    bool
		netAddr        string
		lang           string
	)

	flag.StringVar(&corpusDir, "corpus-dir", "./.corpus", "a directory containing a seed corpus")
	flag.StringVar(&corpusDir, "i", "./.corpus", "shorthand for -corpus-dir")
	flag.StringVar(&crashDir, "crash-dir", "./.crashes", "a directory to store reproducible crashes")
	flag.StringVar(&crashDir, "o", "./.crashes", "shorthand for -crash-dir")
	flag.StringVar(&userDict, "user-dict", "", "optional newline-delimited dictionary file")
	flag.StringVar(&userDict, "u", "", "shorthand for -user-dict")
	flag.IntVar(&maxIter, "max-iter", 0, "maximum number of iterations to run for (0=unlimited)")
	flag.IntVar(&maxIter, "m", 0, "shorthand for -max-iter")
	flag.IntVar(&threads, "threads", 1, "number of worker threads")
	flag.IntVar(&threads, "n", 1, "shorthand for -threads")
	flag.StringVar(&prngName, "prng", string(prng.KindRomuDuoJr), "PRNG generator to use")
	flag.StringVar(&prngName, "p", string(prng.KindRomuDuoJr), "shorthand for -prng")
	flag.Int64Var(&seed, "seed", 0, "seed for the PRNG (0=time-derived)")
	flag.Int64Var(&seed, "s", 0, "shorthand for -seed")
	flag.StringVar(&grammarMutator, "grammar-mutator", "", "enable the named grammar generator")
	flag.BoolVar(&niMutator, "ni-mutator", false, "enable the optional ni mutator")
	flag.BoolVar(&printable, "printable", false, "restrict generated test cases to printable characters")
	flag.IntVar(&mutationPasses, "mutation-passes", 1, "number of mutations to apply per test case")
	flag.IntVar(&batchSz, "batch-sz", 1000, "iterations between stats updates")
	flag.IntVar(&batchSz, "b", 1000, "shorthand for -batch-sz")
	flag.BoolVar(&versionCheck, "grammar-version-check", true, "enforce the corpus directory's VERSION sidecar gate")
	flag.BoolVar(&watchCorpus, "watch-corpus", false, "pick up newly written corpus files while running")
	flag.StringVar(&netAddr, "net", "", "dial a QUIC-attached target at this address instead of spawning a process per iteration")
	flag.StringVar(&lang, "lang", "en", "message language (en|ja)")
	flag.Parse()

	L := getLocale(lang)

	target := flag.Args()
	if len(target) == 0 {
		fatal("target binary (and its args) required, e.g.: hantu [flags] -- ./target -a -b @@")
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cfg := harness.NewConfig().
		WithTarget(target).
		WithCorpusDir(corpusDir).
		WithCrashDir(crashDir).
		WithThreads(threads).
		WithBatchSize(batchSz).
		WithSeed(uint64(seed)).
		WithGenerator(prng.Kind(prngName)).
		WithNiMutator(niMutator).
		WithDict(userDict).
		WithMaxIter(maxIter).
		WithGrammar(grammarMutator).
		WithPrintable(printable).
		WithMutationPasses(mutationPasses)

	log.Info().Interface("config", cfg).Msg("using fuzzing config")

	seedCorpus, err := corpus.LoadWithVersionCheck(cfg.CorpusDir, versionCheck)
	if err != nil {
		fatal("loading corpus:", err)
	}

	if watchCorpus {
		w, err := corpus.Watch(cfg.CorpusDir, seedCorpus)
		if err != nil {
			fatal("watching corpus directory:", err)
		}
		defer w.Close()
	}

	fuzzStats := stats.New()
	pool := workerpool.New(cfg, seedCorpus, fuzzStats)

	newDriver := workerpool.DefaultDriverFactory(cfg)
	if netAddr != "" {
		newDriver = func(threadID int) (harness.Driver, error) {
			return harness.DialQUIC(context.Background(), netAddr, nil)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigC
		cancel()
	}()

	done := make(chan error, 1)
	go func() { done <- pool.Spawn(ctx, newDriver) }()

	start := time.Now()
	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			if err != nil {
				fatal("fuzzing failed:", err)
			}
			fmt.Println(L.done())
			return
		case <-ticker.C:
			elapsed := time.Since(start).Seconds()
			iterations := fuzzStats.Iterations()
			execsPerSec := float64(iterations) / elapsed
			fmt.Println(L.statsLine(elapsed, iterations, fuzzStats.Crashes(), execsPerSec))
		}
	}
}
