// Package errtax classifies errors raised anywhere in the orchestration
// engine into the handful of categories the rest of the system reacts to:
// retry, surface-and-revert, fail-startup, or exit. Callers wrap the
// underlying error with the matching constructor; everything downstream
// (worker queue, reducer, recovery reconciler) switches on Category rather
// than inspecting error strings.
package errtax

import (
	"errors"
	"fmt"
)

// Category is the top-level error classification from the error handling
// design: Transient, Operation, Data, Environmental, Fatal.
type Category int

const (
	// Transient errors are retried by the caller with backoff (PR polling,
	// git lock contention). Never surfaced to the session's output buffer
	// directly.
	Transient Category = iota
	// Operation errors are surfaced on the session's output buffer and the
	// status reverts to the prior stable state; the session is not
	// destroyed.
	Operation
	// Data errors are DB constraint violations or migration failures.
	// Fatal at startup; reported through the health-check surface.
	Data
	// Environmental errors mean a required external tool is missing (git,
	// gh, an agent binary). The attempted action is refused with a
	// user-visible message.
	Environmental
	// Fatal errors (lock contention, corrupted DB) end the process with a
	// distinct exit code.
	Fatal
)

func (c Category) String() string {
	switch c {
	case Transient:
		return "transient"
	case Operation:
		return "operation"
	case Data:
		return "data"
	case Environmental:
		return "environmental"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error wraps an underlying error with its taxonomy category and an
// optional component tag, so the reducer and logs can report where a
// failure originated without string-matching.
type Error struct {
	Category  Category
	Component string
	Err       error
}

func (e *Error) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("[%s:%s] %v", e.Category, e.Component, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Category, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(cat Category, component string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Category: cat, Component: component, Err: err}
}

// NewTransient wraps err as a Transient failure (retried by the caller).
func NewTransient(component string, err error) *Error { return wrap(Transient, component, err) }

// NewOperation wraps err as an Operation failure (reverts session status,
// surfaced on the output buffer).
func NewOperation(component string, err error) *Error { return wrap(Operation, component, err) }

// NewData wraps err as a Data failure (fatal at startup).
func NewData(component string, err error) *Error { return wrap(Data, component, err) }

// NewEnvironmental wraps err as an Environmental failure (missing
// prerequisite; action refused).
func NewEnvironmental(component string, err error) *Error { return wrap(Environmental, component, err) }

// NewFatal wraps err as a Fatal failure (process exits with a distinct
// code).
func NewFatal(component string, err error) *Error { return wrap(Fatal, component, err) }

// CategoryOf extracts the taxonomy category from err, walking the Unwrap
// chain. Returns Operation as the default for errors that were never
// classified, since that is the safest fallback: surface it, don't crash,
// don't silently retry forever.
func CategoryOf(err error) Category {
	var te *Error
	if errors.As(err, &te) {
		return te.Category
	}
	return Operation
}

// Is reports whether err carries the given taxonomy category anywhere in
// its Unwrap chain.
func Is(err error, cat Category) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Category == cat
	}
	return false
}

// ExitCode maps a Fatal error to the process exit code main() should use.
// Distinct from Data's exit code so operators can tell a corrupted store
// apart from a lock conflict in a crash report.
func ExitCode(err error) int {
	switch CategoryOf(err) {
	case Fatal:
		return 2
	case Data:
		return 3
	default:
		return 1
	}
}
