package main

import "testing"

func TestCrashExitCodeParsesWellFormedName(t *testing.T) {
	code, ok := crashExitCode(".crash_2_11_7")
	if !ok || code != 11 {
		t.Fatalf("crashExitCode = (%d, %v), want (11, true)", code, ok)
	}
}

func TestCrashExitCodeRejectsUnrelatedName(t *testing.T) {
	if _, ok := crashExitCode("seed.bin"); ok {
		t.Fatalf("expected crashExitCode to reject a non-crash-file name")
	}
}

func TestCrashExitCodeRejectsMalformedName(t *testing.T) {
	if _, ok := crashExitCode(".crash_weird"); ok {
		t.Fatalf("expected crashExitCode to reject a malformed crash-file name")
	}
}
