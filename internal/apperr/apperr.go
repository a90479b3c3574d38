package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for HTTP mapping and logging.
type Kind int

const (
	// KindValidation covers malformed input, disallowed field/condition
	// combinations, cycles in the parent graph, and bad references.
	KindValidation Kind = iota + 1
	// KindAuthorization covers missing or insufficient credentials.
	KindAuthorization
	// KindNotFound covers lookups of entities that do not exist.
	KindNotFound
	// KindStorage covers datastore failures. Detail is logged server-side
	// and never surfaced to clients.
	KindStorage
)

// Error is the typed error carried across service and repository layers.
// Field is optional and names the offending input field when known.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation builds a KindValidation error for the given field.
func Validation(field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Authorization builds a KindAuthorization error.
func Authorization(format string, args ...any) *Error {
	return &Error{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a KindNotFound error for the named entity.
func NotFound(entity string, id any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %v not found", entity, id)}
}

// Storage wraps a datastore error. The wrapped error is kept for logging;
// the message shown to clients stays generic.
func Storage(err error) *Error {
	return &Error{Kind: KindStorage, Message: "storage failure", Err: err}
}

// KindOf extracts the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// FieldOf extracts the offending field name, when recorded.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}
