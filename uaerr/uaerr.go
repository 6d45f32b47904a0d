// Package uaerr defines the error kinds shared by every package in this
// module (spec §7). Errors are values, never exceptions: a partial
// operation evaluated outside its domain, a malformed term string, or a
// step budget exceeded all surface as an *Error with a Kind that the
// CLI boundary (cmd/uacalc) maps to an exit code and a JSON shape.
package uaerr

import "fmt"

// Kind classifies an error for dispatch at the CLI boundary.
type Kind int

const (
	// ParseError indicates malformed input: a file or a term string.
	ParseError Kind = iota
	// Undefined indicates a partial operation applied outside its domain.
	Undefined
	// OutOfRange indicates an index at or beyond a carrier size, or an
	// arity mismatch in an evaluation.
	OutOfRange
	// SignatureMismatch indicates an equation, product, or reduct was
	// built across incompatible similarity types.
	SignatureMismatch
	// InvariantViolation indicates a constructor was supplied data that
	// violates a documented invariant (mismatched carrier size, a raw
	// array that is not a valid partition, a generator outside the
	// carrier).
	InvariantViolation
	// Truncated indicates an algorithm exceeded its step budget or was
	// cancelled before completion.
	Truncated
	// IOError indicates a failure from the external Reader/Writer
	// collaborators.
	IOError
)

func (k Kind) String() string {
	switch k {
	case ParseError:
		return "ParseError"
	case Undefined:
		return "Undefined"
	case OutOfRange:
		return "OutOfRange"
	case SignatureMismatch:
		return "SignatureMismatch"
	case InvariantViolation:
		return "InvariantViolation"
	case Truncated:
		return "Truncated"
	case IOError:
		return "IOError"
	default:
		return "Unknown"
	}
}

// maxInputLen bounds how much of the offending input is echoed back in
// a message, per spec §7 ("truncated to 200 characters").
const maxInputLen = 200

// Error is the single error type used across the module. Every error
// names the operation that failed, the offending input, and the
// algebra's name when one is available, so that no failure is silent.
type Error struct {
	Kind      Kind
	Op        string // operation that failed, e.g. "Cg", "stringToTerm"
	Input     string // offending input, truncated to 200 characters
	AlgName   string // algebra name, if available
	Underlying error
}

func (e *Error) Error() string {
	in := e.Input
	if len(in) > maxInputLen {
		in = in[:maxInputLen] + "..."
	}
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Op)
	if e.AlgName != "" {
		msg += fmt.Sprintf(" (algebra %q)", e.AlgName)
	}
	if in != "" {
		msg += fmt.Sprintf(": %s", in)
	}
	if e.Underlying != nil {
		msg += fmt.Sprintf(": %v", e.Underlying)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Underlying }

// New builds an *Error for op failing on input with the given kind.
func New(kind Kind, op, input string) *Error {
	return &Error{Kind: kind, Op: op, Input: input}
}

// Wrap builds an *Error that carries an underlying cause, e.g. an
// os.PathError surfaced through the Reader boundary as IOError.
func Wrap(kind Kind, op, input string, err error) *Error {
	return &Error{Kind: kind, Op: op, Input: input, Underlying: err}
}

// WithAlgebra returns a copy of e annotated with the algebra's name.
func (e *Error) WithAlgebra(name string) *Error {
	cp := *e
	cp.AlgName = name
	return &cp
}

// Is reports whether err is an *Error of the given kind, so callers can
// write errors.Is(err, uaerr.Undefined) style checks via a small helper
// since Kind values aren't themselves error values.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if ae, ok := err.(*Error); ok {
			e = ae
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return e != nil && e.Kind == kind
}
