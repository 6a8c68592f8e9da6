// ABOUTME: Error kinds shared by the store, the service, and every caller surface
// ABOUTME: Wraps causes with a kind sentinel and maps kinds to HTTP status codes
package crmerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel kinds. Compare with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrReference  = errors.New("related entity not found")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrStorage    = errors.New("storage failure")
)

// Error carries a kind sentinel plus the offending field, if any.
type Error struct {
	Kind    error
	Field   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Cause != nil {
		msg = msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Validation(field, format string, args ...any) error {
	return &Error{Kind: ErrValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Reference reports a foreign key that names no existing record.
func Reference(field, kind, id string) error {
	return &Error{
		Kind:    ErrReference,
		Field:   field,
		Message: fmt.Sprintf("related entity not found (%s %q)", kind, id),
	}
}

func NotFound(kind, id string) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("%s %q not found", kind, id)}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// Storage wraps a driver or context failure. Already-classified errors pass through.
func Storage(op string, cause error) error {
	if cause == nil {
		return nil
	}
	var e *Error
	if errors.As(cause, &e) {
		return cause
	}
	return &Error{Kind: ErrStorage, Message: "failed to " + op, Cause: cause}
}

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
func IsReference(err error) bool  { return errors.Is(err, ErrReference) }
func IsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool   { return errors.Is(err, ErrConflict) }
func IsStorage(err error) bool    { return errors.Is(err, ErrStorage) }

// FieldOf returns the field named by err, or "".
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

// HTTPStatus maps an error kind to the status a boundary layer should answer with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsNotFound(err), IsReference(err):
		return http.StatusNotFound
	case IsValidation(err), IsConflict(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
