package harness

import (
	"os"
	"path/filepath"
	"testing"
)

func expectPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic")
		}
	}()
	fn()
}

func TestWithTargetPanicsOnEmpty(t *testing.T) {
	expectPanic(t, func() { NewConfig().WithTarget(nil) })
}

func TestWithTargetPanicsOnMissingExecutable(t *testing.T) {
	expectPanic(t, func() { NewConfig().WithTarget([]string{"/no/such/binary"}) })
}

func TestWithTargetAcceptsExistingExecutable(t *testing.T) {
	cfg := NewConfig().WithTarget([]string{"/bin/sh", "-c", "true"})
	if cfg.Target != "/bin/sh" {
		t.Fatalf("Target = %q, want /bin/sh", cfg.Target)
	}
	if len(cfg.TargetArgs) != 2 || cfg.TargetArgs[0] != "-c" {
		t.Fatalf("TargetArgs = %v", cfg.TargetArgs)
	}
}

func TestWithCorpusDirPanicsOnMissingDir(t *testing.T) {
	expectPanic(t, func() { NewConfig().WithCorpusDir("/no/such/dir") })
}

func TestWithCorpusDirAcceptsExistingDir(t *testing.T) {
	dir := t.TempDir()
	cfg := NewConfig().WithCorpusDir(dir)
	if cfg.CorpusDir != dir {
		t.Fatalf("CorpusDir = %q, want %q", cfg.CorpusDir, dir)
	}
}

func TestWithCrashDirCreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "crashes")
	cfg := NewConfig().WithCrashDir(dir)
	if cfg.CrashDir != dir {
		t.Fatalf("CrashDir = %q, want %q", cfg.CrashDir, dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("expected crash dir to have been created")
	}
}

func TestWithCrashDirPanicsOnNonEmptyDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "stale.crash"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	expectPanic(t, func() { NewConfig().WithCrashDir(dir) })
}

func TestWithCrashDirPanicsWhenPathIsAFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notadir")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	expectPanic(t, func() { NewConfig().WithCrashDir(path) })
}

func TestWithDictPanicsOnMissingFile(t *testing.T) {
	expectPanic(t, func() { NewConfig().WithDict("/no/such/dict.txt") })
}

func TestWithDictIgnoresEmptyPath(t *testing.T) {
	cfg := NewConfig().WithDict("")
	if cfg.Dict != "" {
		t.Fatalf("Dict = %q, want empty", cfg.Dict)
	}
}

func TestWithThreadsResolvesCoreIDs(t *testing.T) {
	cfg := NewConfig().WithThreads(1)
	if cfg.Threads != 1 || len(cfg.CoreIDs) != 1 {
		t.Fatalf("WithThreads(1) = %+v, want Threads=1 and one resolved core ID", cfg)
	}
}

func TestWithThreadsPanicsWhenRequestingTooManyCores(t *testing.T) {
	expectPanic(t, func() { NewConfig().WithThreads(1 << 20) })
}

func TestDefaultsSurviveUnsetWiths(t *testing.T) {
	cfg := NewConfig().WithMaxIter(0).WithThreads(0).WithBatchSize(0).WithMutationPasses(0)
	if cfg.BatchSize != 1000 || cfg.MutationPasses != 1 || cfg.Threads != 1 {
		t.Fatalf("zero-valued With* calls should not clobber defaults, got %+v", cfg)
	}
}
