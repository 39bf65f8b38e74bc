package harness

import (
	"os"

	"github.com/0xricksanchez/hantu-go/internal/affinity"
	"github.com/0xricksanchez/hantu-go/internal/ferrors"
	"github.com/0xricksanchez/hantu-go/internal/prng"
)

// Config mirrors the original's FuzzerConfig builder: a chain of With*
// methods, each validated eagerly and panicking on misconfiguration rather
// than deferring the error to fuzz start, since a bad directory or missing
// target is always a programmer/operator mistake caught before any worker
// spawns. Every With* returns Config by value so the chain reads the same
// way the original's consuming builder does.
type Config struct {
	Target         string
	TargetArgs     []string
	CorpusDir      string
	CrashDir       string
	Dict           string
	MaxIter        int
	BatchSize      int
	Threads        int
	CoreIDs        []int
	Generator      prng.Kind
	Grammar        string
	NiMutator      bool
	Seed           uint64
	Printable      bool
	MutationPasses int
}

// NewConfig returns a Config carrying the original's defaults: batches of
// 1000 iterations, a single mutation pass, romuduojr as the default
// generator (clap's default_value on main.rs's --prng flag).
func NewConfig() Config {
	return Config{
		BatchSize:      1000,
		MutationPasses: 1,
		Generator:      prng.KindRomuDuoJr,
		Threads:        1,
	}
}

// WithTarget sets the program under test and its fixed argv, panicking if
// target is empty or the executable does not exist.
func (c Config) WithTarget(target []string) Config {
	if len(target) == 0 {
		panic("harness: target command must not be empty")
	}
	if _, err := os.Stat(target[0]); err != nil {
		panic("harness: target does not exist: " + target[0])
	}
	c.Target = target[0]
	c.TargetArgs = append([]string(nil), target[1:]...)
	return c
}

// ensureDir mirrors the original's ensure_dir: it creates dir if missing,
// and rejects a path that exists but isn't a directory or isn't empty — the
// crash directory starts pristine so a previous run's leftovers are never
// silently mixed with a new one's.
func ensureDir(dir string) (string, error) {
	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return "", &ferrors.Error{Kind: ferrors.KindNotADir, Message: dir}
		}
	case os.IsNotExist(err):
		if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
			return "", ferrors.Wrap(ferrors.KindCreatingDir, mkErr)
		}
	default:
		return "", ferrors.Wrap(ferrors.KindIO, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", ferrors.Wrap(ferrors.KindIO, err)
	}
	if len(entries) > 0 {
		return "", &ferrors.Error{Kind: ferrors.KindNotEmpty, Message: dir}
	}
	return dir, nil
}

// WithCorpusDir sets the seed corpus directory, panicking if it does not
// already exist — unlike the crash directory, a corpus directory is never
// created on the fly, since there would be nothing to seed it with.
func (c Config) WithCorpusDir(dir string) Config {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		panic("harness: corpus directory does not exist: " + dir)
	}
	c.CorpusDir = dir
	return c
}

// WithCrashDir sets (and if necessary creates) the directory crashing test
// cases are persisted to, panicking if it exists but is non-empty or isn't a
// directory.
func (c Config) WithCrashDir(dir string) Config {
	d, err := ensureDir(dir)
	if err != nil {
		panic("harness: error setting crash directory: " + err.Error())
	}
	c.CrashDir = d
	return c
}

// WithMaxIter sets an iteration cap counted across all workers together;
// n <= 0 means unlimited, matching the original's Option<usize> left unset.
func (c Config) WithMaxIter(n int) Config {
	if n > 0 {
		c.MaxIter = n
	}
	return c
}

// WithThreads resolves n logical cores via internal/affinity and panics if
// the host doesn't have that many, exactly like the original's
// set_threads/get_core_affinity pairing.
func (c Config) WithThreads(n int) Config {
	if n <= 0 {
		return c
	}
	ids, err := affinity.Assign(n)
	if err != nil {
		panic("harness: not enough cores available")
	}
	c.Threads = n
	c.CoreIDs = ids
	return c
}

func (c Config) WithBatchSize(n int) Config {
	if n > 0 {
		c.BatchSize = n
	}
	return c
}

// WithDict sets the path to a user-supplied newline-delimited token
// dictionary, panicking if the path is non-empty but unreadable.
func (c Config) WithDict(path string) Config {
	if path == "" {
		return c
	}
	if _, err := os.Stat(path); err != nil {
		panic("harness: dictionary file does not exist: " + path)
	}
	c.Dict = path
	return c
}

func (c Config) WithSeed(seed uint64) Config {
	c.Seed = seed
	return c
}

func (c Config) WithGenerator(kind prng.Kind) Config {
	if kind != "" {
		c.Generator = kind
	}
	return c
}

func (c Config) WithPrintable(printable bool) Config {
	c.Printable = printable
	return c
}

func (c Config) WithMutationPasses(n int) Config {
	if n > 0 {
		c.MutationPasses = n
	}
	return c
}

func (c Config) WithGrammar(name string) Config {
	if name != "" {
		c.Grammar = name
	}
	return c
}

func (c Config) WithNiMutator(enabled bool) Config {
	c.NiMutator = enabled
	return c
}
