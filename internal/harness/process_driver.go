package harness

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/0xricksanchez/hantu-go/internal/ferrors"
	"github.com/0xricksanchez/hantu-go/internal/testcase"
)

// ProcessDriver spawns a fresh child process per delivered test case, the
// default delivery mode ported from fuzz_from_file/fuzz_from_stdin. The
// presence of the literal "@@" token in the target's argv switches it into
// file mode: "@@" is replaced with a path to a private per-worker scratch
// file that is rewritten with the test case bytes before every run. Without
// "@@" the driver runs in stdin mode, piping the test case bytes directly to
// the child's standard input instead.
//
// The original's fuzz_from_stdin opens a piped stdin handle it never writes
// to or closes, leaving it permanently dangling; that is a defect in the
// source this was ported from; rather than preserve it the stdin-mode
// delivery here actually writes the test case to the child, which the
// child-process contract ("stdin/stdout/stderr are all silenced" after
// delivery) already implies for both modes.
type ProcessDriver struct {
	target    string
	args      []string
	fileMode  bool
	inputPath string
}

// NewProcessDriver builds a ProcessDriver for one worker. threadID
// disambiguates the scratch file across concurrently running workers.
func NewProcessDriver(cfg Config, threadID int) *ProcessDriver {
	d := &ProcessDriver{target: cfg.Target}
	for _, a := range cfg.TargetArgs {
		if a == "@@" {
			d.fileMode = true
			d.inputPath = filepath.Join(os.TempDir(), fmt.Sprintf(".tmp_inp_%d", threadID))
			d.args = append(d.args, d.inputPath)
			continue
		}
		d.args = append(d.args, a)
	}
	return d
}

// Deliver runs the target once against tc, reporting whether it crashed.
func (d *ProcessDriver) Deliver(ctx context.Context, tc *testcase.TestCase) (Verdict, error) {
	cmd := exec.CommandContext(ctx, d.target, d.args...)

	if d.fileMode {
		if err := os.WriteFile(d.inputPath, tc.Data, 0o644); err != nil {
			return Verdict{}, ferrors.Wrap(ferrors.KindWritingTestcase, err)
		}
	} else {
		cmd.Stdin = bytes.NewReader(tc.Data)
	}

	err := cmd.Run()
	if cmd.ProcessState == nil {
		return Verdict{}, ferrors.Wrap(ferrors.KindSpawningTarget, err)
	}
	return classify(cmd.ProcessState), nil
}

// classify mirrors the original worker's exit-status match: a zero exit is a
// pass, an exit code in CrashSignals is a crash, any other code is logged
// and ignored, and a status with no recoverable exit code at all (the
// process was killed directly by a signal) is reported as such without ever
// being treated as a crash — Go's ExitCode() returns -1 in exactly that case,
// mirroring the original's status.code() returning None.
func classify(state *os.ProcessState) Verdict {
	code := state.ExitCode()
	if code < 0 {
		return Verdict{HasExitCode: false}
	}
	_, crashed := CrashSignals[code]
	return Verdict{ExitCode: code, HasExitCode: true, Crashed: crashed}
}

// Close removes the per-worker scratch input file, if one was created.
func (d *ProcessDriver) Close() error {
	if !d.fileMode {
		return nil
	}
	if err := os.Remove(d.inputPath); err != nil && !os.IsNotExist(err) {
		return ferrors.Wrap(ferrors.KindIO, err)
	}
	return nil
}
