// Package icerr holds the error taxonomy shared by every llk subsystem:
// the grammar validator, the FIRST/FOLLOW/CHOICE engine, the LUT builder,
// the predictive parser, and the external-encoding decoder.
//
// Every Error carries a human-readable message and, optionally, one or
// more causes. Error is compatible with errors.Is: calling errors.Is on
// an Error with one of its own causes (typically one of the sentinels
// below) returns true.
package icerr

import "fmt"

var (
	// ErrInvalidGrammar is the sentinel for any validator rule failure
	// (§4.3 of the grammar design).
	ErrInvalidGrammar = fmt.Errorf("grammar is not well-formed or not LL(k)")

	// ErrUnknownSymbol is the sentinel for a character outside the
	// grammar's terminal/non-terminal alphabet being supplied to an
	// operation that only accepts grammar symbols.
	ErrUnknownSymbol = fmt.Errorf("symbol is not part of the grammar's alphabet")

	// ErrIllegalOperation is the sentinel for semantic misuse, such as
	// calling FOLLOW on a terminal.
	ErrIllegalOperation = fmt.Errorf("operation is not legal for the given argument")

	// ErrDerivationFailed is the sentinel for a predictive parse that
	// could not continue, or that finished with residual stack or input.
	ErrDerivationFailed = fmt.Errorf("input string is not derivable from the grammar")

	// ErrGrammarFromDescriptionFailed is the sentinel for a malformed
	// external grammar encoding.
	ErrGrammarFromDescriptionFailed = fmt.Errorf("grammar description is malformed")
)

// Error is a typed error that carries a message and zero or more causes.
// It should not be constructed directly; use New or Wrap.
type Error struct {
	msg   string
	cause []error
}

// New creates an Error with the given message and causes. The first cause,
// if any, is treated as the sentinel category of the error for purposes of
// errors.Is.
func New(msg string, cause ...error) Error {
	return Error{msg: msg, cause: cause}
}

// Wrap is shorthand for New(msg, sentinel) and is the typical way to
// produce an error that belongs to one of the taxonomy's sentinel
// categories with an additional, specific message.
func Wrap(sentinel error, msg string) Error {
	return Error{msg: msg, cause: []error{sentinel}}
}

// Error returns the message defined for the Error, concatenated with the
// result of calling Error() on its first cause, if one is defined.
func (e Error) Error() string {
	if e.msg == "" && len(e.cause) > 0 {
		return e.cause[0].Error()
	}
	if len(e.cause) > 0 {
		return e.msg + ": " + e.cause[0].Error()
	}
	return e.msg
}

// Unwrap returns the causes of the Error, for use with the errors API.
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// Is returns whether the Error either is itself the target error, or has
// it as one of its causes.
func (e Error) Is(target error) bool {
	if errTarget, ok := target.(Error); ok {
		if e.msg != errTarget.msg || len(e.cause) != len(errTarget.cause) {
			return false
		}
		for i := range e.cause {
			if e.cause[i] != errTarget.cause[i] {
				return false
			}
		}
		return true
	}

	for _, c := range e.cause {
		if c == target {
			return true
		}
	}
	return false
}

// UnknownSymbol builds an ErrUnknownSymbol error naming the offending
// character.
func UnknownSymbol(ch rune) Error {
	return Wrap(ErrUnknownSymbol, fmt.Sprintf("%q is not a terminal or non-terminal of the grammar", ch))
}
