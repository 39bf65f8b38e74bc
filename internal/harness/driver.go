// Package harness delivers mutated test cases to a program under test and
// reports what happened, mirroring fuzz_from_file/fuzz_from_stdin/worker from
// original_source/src/libs/executor/src/lib.rs.
package harness

import (
	"context"

	"github.com/0xricksanchez/hantu-go/internal/testcase"
)

// CrashSignals is the set of child exit codes treated as a crash, matching
// the original's literal `[4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15]` list —
// the common POSIX fatal-signal range a sanitizer-instrumented target
// typically re-exits with rather than dying to the raw signal itself.
var CrashSignals = map[int]struct{}{
	4: {}, 5: {}, 6: {}, 7: {}, 8: {}, 9: {},
	10: {}, 11: {}, 12: {}, 13: {}, 14: {}, 15: {},
}

// Verdict reports the outcome of delivering one test case to a Driver.
type Verdict struct {
	// ExitCode is the process's exit code. Only meaningful when HasExitCode
	// is true.
	ExitCode int
	// HasExitCode is false when the target terminated without a recoverable
	// numeric exit code (killed directly by a signal on Unix), mirroring the
	// original's status.code() returning None — logged by the caller as
	// "exited with signal" and never treated as a crash, matching upstream.
	HasExitCode bool
	// Crashed is true when ExitCode is a member of CrashSignals.
	Crashed bool
}

// Driver delivers a single test case to a program under test. Implementations
// must silence the target's stdin/stdout/stderr, matching the child-process
// contract: the target never receives anything meaningful on any of the
// three standard streams beyond the test case bytes themselves.
type Driver interface {
	Deliver(ctx context.Context, tc *testcase.TestCase) (Verdict, error)
	Close() error
}
