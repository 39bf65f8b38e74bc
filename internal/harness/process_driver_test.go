package harness

import (
	"context"
	"os"
	"os/exec"
	"testing"

	"github.com/0xricksanchez/hantu-go/internal/testcase"
)

func requireSh(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available on this system")
	}
	return path
}

func TestProcessDriverStdinModeDeliversBytes(t *testing.T) {
	sh := requireSh(t)
	outPath := t.TempDir() + "/out.bin"
	cfg := Config{Target: sh, TargetArgs: []string{"-c", "cat > " + outPath}}
	d := NewProcessDriver(cfg, 0)
	defer d.Close()

	v, err := d.Deliver(context.Background(), testcase.New([]byte("hello stdin")))
	if err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if !v.HasExitCode || v.ExitCode != 0 || v.Crashed {
		t.Fatalf("Deliver verdict = %+v, want clean pass", v)
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "hello stdin" {
		t.Fatalf("child received %q, want %q", got, "hello stdin")
	}
}

func TestProcessDriverFileModeRewritesScratchFile(t *testing.T) {
	sh := requireSh(t)
	outPath := t.TempDir() + "/out.bin"
	cfg := Config{Target: sh, TargetArgs: []string{"-c", "cp \"$1\" " + outPath, "_"}}
	cfg.TargetArgs = append(cfg.TargetArgs, "@@")
	d := NewProcessDriver(cfg, 3)
	defer d.Close()

	if _, err := d.Deliver(context.Background(), testcase.New([]byte("file payload"))); err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "file payload" {
		t.Fatalf("child received %q, want %q", got, "file payload")
	}
}

func TestProcessDriverClassifiesCrashSignalExitCode(t *testing.T) {
	sh := requireSh(t)
	cfg := Config{Target: sh, TargetArgs: []string{"-c", "exit 11"}}
	d := NewProcessDriver(cfg, 0)
	defer d.Close()

	v, err := d.Deliver(context.Background(), testcase.New([]byte("x")))
	if err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if !v.HasExitCode || v.ExitCode != 11 || !v.Crashed {
		t.Fatalf("Deliver verdict = %+v, want crash at exit code 11", v)
	}
}

func TestProcessDriverIgnoresNonCrashExitCode(t *testing.T) {
	sh := requireSh(t)
	cfg := Config{Target: sh, TargetArgs: []string{"-c", "exit 2"}}
	d := NewProcessDriver(cfg, 0)
	defer d.Close()

	v, err := d.Deliver(context.Background(), testcase.New([]byte("x")))
	if err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if !v.HasExitCode || v.ExitCode != 2 || v.Crashed {
		t.Fatalf("Deliver verdict = %+v, want non-crash exit code 2", v)
	}
}

func TestProcessDriverClassifiesSignalKillAsNoExitCode(t *testing.T) {
	sh := requireSh(t)
	cfg := Config{Target: sh, TargetArgs: []string{"-c", "kill -SEGV $$"}}
	d := NewProcessDriver(cfg, 0)
	defer d.Close()

	v, err := d.Deliver(context.Background(), testcase.New([]byte("x")))
	if err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if v.HasExitCode {
		t.Fatalf("Deliver verdict = %+v, want HasExitCode=false for a signal-killed child", v)
	}
	if v.Crashed {
		t.Fatalf("Deliver verdict = %+v, want Crashed=false, matching the original's None-exit-code handling", v)
	}
}
