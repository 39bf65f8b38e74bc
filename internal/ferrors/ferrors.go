// Package ferrors provides the tagged error taxonomy used across the fuzzing
// engine, mirroring the single flat error enum of the original implementation
// while staying idiomatic for Go (explicit error values, errors.Is/As support).
package ferrors

import (
	"errors"
	"fmt"
)

// Kind tags the taxonomy of errors the engine and its collaborators can
// produce. Mutator-facing failures use Kind values that the engine treats as
// silent no-ops; harness/startup failures are louder (see package docs in
// SPEC_FULL.md §9 for the policy split).
type Kind string

const (
	KindConsume             Kind = "CONSUME_ERROR"
	KindIO                  Kind = "IO_ERROR"
	KindCoreIDsUnavailable  Kind = "CORE_IDS_UNAVAILABLE"
	KindWritingCrashingTC   Kind = "WRITING_CRASHING_INPUT"
	KindWritingTestcase     Kind = "WRITING_TESTCASE"
	KindCreatingDir         Kind = "CREATING_DIR"
	KindTargetNotExecutable Kind = "TARGET_NOT_EXECUTABLE"
	KindPathDoesNotExist    Kind = "PATH_DOES_NOT_EXIST"
	KindReadingTestcase     Kind = "READING_TESTCASE"
	KindSpawningTarget      Kind = "SPAWNING_TARGET"
	KindWaitingForTarget    Kind = "WAITING_FOR_TARGET"
	KindNotADir             Kind = "NOT_A_DIR"
	KindNotEmpty            Kind = "NOT_EMPTY"
	KindJoiningThread       Kind = "JOINING_THREAD"
	KindFatal               Kind = "FATAL"
	KindConversion          Kind = "CONVERSION_ERROR"
)

// Error is the concrete error type carried through the engine. It wraps an
// optional underlying cause, mirroring the original's `From<io::Error>` etc.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Cause }

// New mirrors the original Error::new helper used for generic consume
// failures.
func New(msg string) *Error {
	return &Error{Kind: KindConsume, Message: msg}
}

// Wrap tags an underlying error (typically from package io/os) with a Kind.
func Wrap(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

// Is allows errors.Is(err, ferrors.KindX) style checks against a Kind value
// wrapped in a sentinel comparison error.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// Sentinel constructs a bare Error of the given Kind for use with errors.Is.
func Sentinel(kind Kind) *Error { return &Error{Kind: kind} }
