package lifecycle

import (
	"errors"
	"fmt"
)

// Kind classifies a lifecycle failure
type Kind string

const (
	KindUnavailable         Kind = "UNAVAILABLE"
	KindNotRentable         Kind = "NOT_RENTABLE"
	KindNoActiveTransaction Kind = "NO_ACTIVE_TRANSACTION"
	KindNotFound            Kind = "NOT_FOUND"
	KindValidation          Kind = "VALIDATION_ERROR"
	KindConflict            Kind = "CONFLICT"
)

// Error is a recoverable domain failure. Nothing is mutated when one is returned.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound)
// holds for every not-found error regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrUnavailable         = &Error{Kind: KindUnavailable, Message: "book is not available"}
	ErrNotRentable         = &Error{Kind: KindNotRentable, Message: "book has no rental price"}
	ErrNoActiveTransaction = &Error{Kind: KindNoActiveTransaction, Message: "no active transaction found for this book"}
	ErrNotFound            = &Error{Kind: KindNotFound, Message: "not found"}
	ErrValidation          = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrConflict            = &Error{Kind: KindConflict, Message: "book was modified concurrently"}
)

// NotFound builds a not-found error with a specific message
func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation builds a validation error with a specific message
func Validation(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind of a lifecycle error, or "" for anything else
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}
