// Package bgerrors defines the error kinds shared across the pipeline
// stages, per the error-handling design: every component surfaces one of
// these, the run aborts on the first one, and the CLI names the failing
// stage plus the underlying cause.
package bgerrors

import "fmt"

// Stage identifies which pipeline stage produced an error, so the CLI can
// report "product tree / remainders / gcd" as required.
type Stage string

const (
	StageIngest     Stage = "ingest"
	StageProductTree Stage = "product tree"
	StageRemainders Stage = "remainders"
	StageGCD        Stage = "gcd"
)

// InputFormatError wraps a malformed CSV row: wrong column count, a
// non-numeric id, or a non-numeric modulus.
type InputFormatError struct {
	Row    int
	Reason string
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("input format error at row %d: %s", e.Row, e.Reason)
}

// StorageError wraps a level-store failure: a missing directory, an
// unopenable or truncated level file, or a digest mismatch.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s (%s): %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// InvariantError wraps a violation of a structural invariant: the top
// level does not contain exactly one element, a manifest/count mismatch on
// read, or an input modulus of zero.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant error: %s", e.Reason)
}

// ArithmeticError wraps a failure surfaced by the big-integer primitives,
// e.g. an attempted division by zero that indicates upstream corruption.
type ArithmeticError struct {
	Op  string
	Err error
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("arithmetic error in %s: %v", e.Op, e.Err)
}

func (e *ArithmeticError) Unwrap() error { return e.Err }

// StageError names which pipeline stage a wrapped error occurred in, for
// the single human-readable message the CLI prints on exit.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Wrap attaches a stage to err, or returns nil if err is nil.
func Wrap(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
