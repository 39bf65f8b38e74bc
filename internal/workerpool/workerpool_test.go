package workerpool

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/0xricksanchez/hantu-go/internal/corpus"
	"github.com/0xricksanchez/hantu-go/internal/harness"
	"github.com/0xricksanchez/hantu-go/internal/prng"
	"github.com/0xricksanchez/hantu-go/internal/stats"
)

func testConfig(t *testing.T) harness.Config {
	t.Helper()
	crashDir := filepath.Join(t.TempDir(), "crashes")
	return harness.NewConfig().
		WithCrashDir(crashDir).
		WithThreads(1).
		WithBatchSize(4).
		WithMaxIter(8).
		WithGenerator(prng.KindXorshift64).
		WithSeed(1)
}

func TestPoolSpawnPersistsCrashingTestCase(t *testing.T) {
	cfg := testConfig(t)
	c := corpus.FromEntries([][]byte{[]byte("seed one"), []byte("seed two")})
	s := stats.New()
	p := New(cfg, c, s)

	ctrl := gomock.NewController(t)
	calls := 0
	newDriver := func(threadID int) (harness.Driver, error) {
		m := harness.NewMockDriver(ctrl)
		m.EXPECT().Deliver(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ any) (harness.Verdict, error) {
				calls++
				if calls == 2 {
					return harness.Verdict{ExitCode: 11, HasExitCode: true, Crashed: true}, nil
				}
				return harness.Verdict{ExitCode: 0, HasExitCode: true}, nil
			}).AnyTimes()
		m.EXPECT().Close().Return(nil)
		return m, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.Spawn(ctx, newDriver); err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	if s.Iterations() != 8 {
		t.Fatalf("Iterations() = %d, want 8", s.Iterations())
	}
	if s.Crashes() == 0 {
		t.Fatalf("expected at least one crash to be recorded")
	}

	entries, err := os.ReadDir(cfg.CrashDir)
	if err != nil {
		t.Fatalf("ReadDir(%s): %v", cfg.CrashDir, err)
	}
	if len(entries) == 0 {
		t.Fatalf("expected at least one crash file in %s", cfg.CrashDir)
	}
}

func TestPoolSpawnStopsAtMaxIter(t *testing.T) {
	cfg := testConfig(t)
	c := corpus.FromEntries([][]byte{[]byte("seed")})
	s := stats.New()
	p := New(cfg, c, s)

	ctrl := gomock.NewController(t)
	newDriver := func(threadID int) (harness.Driver, error) {
		m := harness.NewMockDriver(ctrl)
		m.EXPECT().Deliver(gomock.Any(), gomock.Any()).
			Return(harness.Verdict{ExitCode: 0, HasExitCode: true}, nil).AnyTimes()
		m.EXPECT().Close().Return(nil)
		return m, nil
	}

	if err := p.Spawn(context.Background(), newDriver); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if s.Iterations() != uint64(cfg.MaxIter) {
		t.Fatalf("Iterations() = %d, want %d", s.Iterations(), cfg.MaxIter)
	}
}
