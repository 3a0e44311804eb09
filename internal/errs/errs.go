// Package errs defines the error taxonomy shared by every saleslens
// component. Strategies validate their inputs up front and return errors
// carrying one of the kinds below instead of leaking dataframe lookup
// failures to the caller.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind string

const (
	// KindNotFound marks a missing resource: a column absent from a table,
	// a directory with no ingestible file, a dataset not in the catalog.
	KindNotFound Kind = "NOT_FOUND"
	// KindInvalidArgument marks input outside a strategy's numeric or
	// structural domain, e.g. a log transform over non-positive values.
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
	// KindPreconditionFailed marks a call made before required setup, e.g.
	// executing an analyzer with no strategy set.
	KindPreconditionFailed Kind = "PRECONDITION_FAILED"
	// KindUnsupported marks an unrecognized source or format tag.
	KindUnsupported Kind = "UNSUPPORTED"
)

// Error is an error with a Kind. It wraps an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New constructs an Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an Error with the given kind, message and cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// NotFoundf formats a NotFound error.
func NotFoundf(format string, args ...any) *Error {
	return New(KindNotFound, fmt.Sprintf(format, args...))
}

// InvalidArgumentf formats an InvalidArgument error.
func InvalidArgumentf(format string, args ...any) *Error {
	return New(KindInvalidArgument, fmt.Sprintf(format, args...))
}

// PreconditionFailedf formats a PreconditionFailed error.
func PreconditionFailedf(format string, args ...any) *Error {
	return New(KindPreconditionFailed, fmt.Sprintf(format, args...))
}

// Unsupportedf formats an Unsupported error.
func Unsupportedf(format string, args ...any) *Error {
	return New(KindUnsupported, fmt.Sprintf(format, args...))
}

// KindOf reports the Kind carried by err, unwrapping as needed. Errors
// without a kind report the empty Kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsNotFound reports whether err carries KindNotFound.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// ColumnNotFound builds the uniform error returned whenever a strategy
// references a column absent from the table.
func ColumnNotFound(column string) *Error {
	return NotFoundf("column %q not found in table", column)
}
