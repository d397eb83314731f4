// Package xerrors defines the typed error taxonomy used across the driver:
// every failure that reaches a user or a log line carries a stable Kind tag
// alongside the usual wrapped cause.
package xerrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure into one of the categories the driver's error
// handling design distinguishes between fatal (abort the whole run) and
// per-node (recorded, treated as "no metric") failures.
type Kind string

const (
	// KindConfig covers a malformed config file, a missing required key, or
	// an unrecognized value. Fatal before any run begins.
	KindConfig Kind = "CONFIG_ERROR"
	// KindFormulaParse covers a malformed CNF/WCNF instance. Fatal.
	KindFormulaParse Kind = "FORMULA_PARSE_ERROR"
	// KindSpawn covers process-spawn and filesystem I/O failures around a
	// single solver invocation. Non-fatal: the node treats the cube as
	// having no metric.
	KindSpawn Kind = "SPAWN_ERROR"
	// KindTimeout marks a solver run that was killed after its deadline.
	// Non-fatal and expected.
	KindTimeout Kind = "TIMEOUT"
	// KindLogParse covers a solver log that cannot be parsed as the
	// contracted metrics block (missing SPLITS DATA marker, malformed
	// JSON) or that parses but omits a required key. Fatal: it indicates
	// the solver violated its contract.
	KindLogParse Kind = "LOG_PARSE_ERROR"
)

// Error is a typed, wrapped error carrying a Kind and a human-readable
// message.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error wrapping cause with the given message.
func Wrap(kind Kind, message string, cause error) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Wrapf creates an Error wrapping cause with a formatted message.
func Wrapf(kind Kind, cause error, format string, args ...any) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
