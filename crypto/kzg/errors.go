package kzg

import (
	"errors"
	"fmt"
)

// Code classifies every error the core can return into the flat, three-way
// taxonomy the EIP-4844/7594 reference implementations expose across their
// language bindings. A cryptographically false verification is not an error
// at all: it is a valid (false) boolean result, kept on a disjoint channel
// from these.
type Code int

const (
	// CodeBadArgs covers malformed input: wrong lengths, non-canonical field
	// elements, off-curve or off-subgroup points, out-of-range indices,
	// duplicate cell indices, too few cells to recover, zero inputs to a
	// batch inversion, precompute out of [0,15], and similar.
	CodeBadArgs Code = iota + 1
	// CodeError marks an internal invariant violation that should never be
	// reachable from any valid input.
	CodeError
	// CodeMalloc marks an allocation failure.
	CodeMalloc
)

func (c Code) String() string {
	switch c {
	case CodeBadArgs:
		return "BADARGS"
	case CodeError:
		return "ERROR"
	case CodeMalloc:
		return "MALLOC"
	default:
		return "UNKNOWN"
	}
}

// Error wraps an underlying cause with the Code a binding layer should
// surface verbatim.
type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Code.String()
	}
	return e.Code.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func badArgs(msg string) error { return &Error{Code: CodeBadArgs, Err: errors.New(msg)} }

func badArgsf(format string, args ...any) error {
	return &Error{Code: CodeBadArgs, Err: fmt.Errorf(format, args...)}
}

func internalErr(msg string) error { return &Error{Code: CodeError, Err: errors.New(msg)} }

// CodeOf extracts the Code carried by err, defaulting to CodeError for any
// error the core did not itself originate (it should never encounter one,
// but the zero Code, returned only for a nil error, would hide the failure).
func CodeOf(err error) Code {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeError
}
