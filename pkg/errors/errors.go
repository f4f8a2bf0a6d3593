// Package errors defines the coded errors treematch reports.
//
// Every failure surfaced by the matching engine carries a machine-readable
// [Code], so the CLI, the HTTP service and library users can branch on the
// kind of failure without parsing messages:
//
//	if errors.Is(err, errors.ErrCodePointlessComparison) {
//	    // one of the trees was empty
//	}
//
// [Is] matches a code, not a sentinel value. Wrapped causes stay reachable
// through the standard library's errors.Is and errors.As.
package errors

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure.
type Code string

// Engine codes.
const (
	// ErrCodePointlessComparison: a tree (or sequence) to compare is empty.
	ErrCodePointlessComparison Code = "POINTLESS_COMPARISON"
	// ErrCodeUnbalancedSequence: a token sequence is not balanced.
	ErrCodeUnbalancedSequence Code = "UNBALANCED_SEQUENCE"
	// ErrCodeUnknownImplementation: the requested strategy does not exist
	// or cannot run here.
	ErrCodeUnknownImplementation Code = "UNKNOWN_IMPLEMENTATION"
	// ErrCodeUnsupportedGraphType: an input is not an ordered forest.
	ErrCodeUnsupportedGraphType Code = "UNSUPPORTED_GRAPH_TYPE"
	// ErrCodeInvalidEncoding: no tokens are left to encode a node.
	ErrCodeInvalidEncoding Code = "INVALID_ENCODING"
)

// Input, resource and internal codes raised outside the engine.
const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
	ErrCodeInternal      Code = "INTERNAL_ERROR"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is like [New] but records cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := as(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without its code prefix or cause, falling
// back to err.Error() for uncoded errors.
func UserMessage(err error) string {
	if e, ok := as(err); ok {
		return e.Message
	}
	return err.Error()
}

func as(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
