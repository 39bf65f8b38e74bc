// Package corpus loads and maintains the in-memory set of seed test cases
// fed to the mutation engine, mirroring load_corpus_from_disk and
// add_to_corpus from original_source/src/libs/executor/src/lib.rs.
package corpus

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"

	"github.com/0xricksanchez/hantu-go/internal/ferrors"
	"github.com/0xricksanchez/hantu-go/internal/prng"
)

// SupportedMajor is the highest corpus-format major version this engine
// understands; Load refuses a directory whose VERSION sidecar declares a
// newer major version.
const SupportedMajor uint64 = 1

// Corpus is a deduplicated, thread-safe set of byte-string test cases.
// Mutators read through Entries/Pick; AddToCorpus performs copy-on-write so
// concurrent workers sharing a *Corpus by pointer never observe a half
// mutated slice.
type Corpus struct {
	mu      sync.RWMutex
	entries [][]byte
	seen    map[string]struct{}
}

// New returns an empty Corpus.
func New() *Corpus {
	return &Corpus{seen: make(map[string]struct{})}
}

// FromEntries builds a Corpus from already-loaded byte slices, deduplicating
// and dropping empty entries exactly as Load does.
func FromEntries(entries [][]byte) *Corpus {
	c := New()
	for _, e := range entries {
		c.Add(e)
	}
	return c
}

// Add inserts data into the corpus if non-empty and not already present,
// reporting whether it was actually added. The stored copy is independent of
// the caller's slice.
func (c *Corpus) Add(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	key := string(data)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.seen[key]; ok {
		return false
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	c.seen[key] = struct{}{}
	c.entries = append(c.entries, cp)
	return true
}

// Len reports the current number of distinct entries.
func (c *Corpus) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Entries returns a snapshot of the corpus. Both the outer slice and each
// entry's bytes are copies, so mutating them never affects the corpus.
func (c *Corpus) Entries() [][]byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([][]byte, len(c.entries))
	for i, e := range c.entries {
		out[i] = append([]byte(nil), e...)
	}
	return out
}

// Pick returns a uniformly random entry, or nil if the corpus is empty.
func (c *Corpus) Pick(r *prng.Rng) []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.entries) == 0 {
		return nil
	}
	return prng.Pick(r, c.entries)
}

// Load reads a corpus from disk: a single file becomes a one-entry corpus, a
// directory has every regular file within it (non-recursive, matching
// std::fs::read_dir's own non-recursive iteration) read and inserted,
// deduplicated and with empty files dropped exactly as the original's
// BTreeSet-backed load_corpus_from_disk does. Directory entries are visited
// in sorted-filename order for deterministic corpus ordering across runs on
// the same input set, an explicit determinism improvement over the
// original's OS-readdir-order iteration (BTreeSet dedup made the original
// insensitive to order for *membership*, but not for the resulting slice
// order once collected — sorting here pins that down too).
func Load(path string) (*Corpus, error) {
	return LoadWithVersionCheck(path, true)
}

// LoadWithVersionCheck behaves like Load, but lets a caller opt out of the
// VERSION sidecar gate entirely (enforce=false) — an escape hatch for
// operators who know their corpus predates the sidecar convention, wired to
// cmd/hantu's --grammar-version-check flag.
func LoadWithVersionCheck(path string, enforce bool) (*Corpus, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.KindPathDoesNotExist, err)
	}

	c := New()
	if info.IsDir() {
		if enforce {
			if err := checkVersion(path); err != nil {
				return nil, err
			}
		}
		dirEntries, err := os.ReadDir(path)
		if err != nil {
			return nil, ferrors.Wrap(ferrors.KindReadingTestcase, err)
		}
		names := make([]string, 0, len(dirEntries))
		for _, de := range dirEntries {
			if de.Type().IsRegular() {
				names = append(names, de.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			data, err := os.ReadFile(filepath.Join(path, name))
			if err != nil {
				return nil, ferrors.Wrap(ferrors.KindReadingTestcase, err)
			}
			c.Add(data)
		}
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.KindReadingTestcase, err)
	}
	c.Add(data)
	return c, nil
}

// checkVersion enforces §5.5's semver gate: a VERSION sidecar file in dir
// naming a major version newer than SupportedMajor is rejected; a missing
// sidecar is treated as version 1.0.0.
func checkVersion(dir string) error {
	raw, err := os.ReadFile(filepath.Join(dir, "VERSION"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return ferrors.Wrap(ferrors.KindReadingTestcase, err)
	}
	v, err := semver.NewVersion(strings.TrimSpace(string(raw)))
	if err != nil {
		return ferrors.Wrap(ferrors.KindConversion, err)
	}
	if v.Major() > SupportedMajor {
		return &ferrors.Error{
			Kind:    ferrors.KindConversion,
			Message: "corpus directory declares an unsupported major version",
		}
	}
	return nil
}
