// Package apperr defines the application-wide error taxonomy.
//
// Every failure that crosses a service or adapter boundary is represented as
// exactly one *Error with a Kind from the fixed set below. Adapters translate
// the native failures of their wrapped dependency (driver errors, remote API
// errors, timeouts) into the matching Kind at the boundary; services and
// handlers never invent ad hoc errors and never suppress typed ones; they
// let them propagate to the HTTP error mapper, which renders the single
// kind→status/code table. Identical Kind therefore always yields the same
// HTTP status and machine code, on every endpoint.
//
// Example response produced from an Error:
//
//	HTTP/1.1 422 Unprocessable Entity
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "validation_failure",
//	  "message": "content must not be empty"
//	}
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// Kind enumerates the failure categories the API can surface.
type Kind int

const (
	// KindValidation marks malformed or semantically invalid input.
	KindValidation Kind = iota
	// KindNotFound marks a missing entity or route.
	KindNotFound
	// KindConflict marks uniqueness or referential-integrity violations.
	KindConflict
	// KindExternal marks a failure of a wrapped remote dependency
	// (the Error carries the service name, e.g. "ai" or "publishing").
	KindExternal
	// KindDatabase marks an unexpected store failure.
	KindDatabase
	// KindUnauthorized marks missing or invalid credentials.
	KindUnauthorized
	// KindInternal is the last-resort category for everything else.
	KindInternal
)

// Service names used with KindExternal.
const (
	ServiceAI         = "ai"
	ServicePublishing = "publishing"
)

// Error is the one concrete error type of the taxonomy. It carries the
// classification plus a human message and optional structured details.
// Errors are created at the point of failure, flow up the call stack
// unchanged, and are consumed exactly once by the HTTP mapper.
type Error struct {
	Kind    Kind
	Service string // set only for KindExternal
	Message string
	Details map[string]any
	Err     error // wrapped cause, log-only; never serialized to clients
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Code())
	if e.Service != "" {
		b.WriteString("(" + e.Service + ")")
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes the cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error { return e.Err }

// Status returns the fixed HTTP status for the error's Kind.
func (e *Error) Status() int { return StatusOf(e.Kind) }

// Code returns the fixed machine code for the error's Kind.
func (e *Error) Code() string { return CodeOf(e.Kind) }

// StatusOf maps a Kind to its HTTP status. The table is fixed repo-wide;
// there are no per-endpoint overrides.
func StatusOf(k Kind) int {
	switch k {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindExternal:
		return http.StatusBadGateway
	case KindDatabase:
		return http.StatusInternalServerError
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf maps a Kind to its stable machine code.
func CodeOf(k Kind) string {
	switch k {
	case KindValidation:
		return "validation_failure"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindExternal:
		return "external_service_failure"
	case KindDatabase:
		return "database_failure"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal_failure"
	}
}

// Validation builds a KindValidation error with optional structured details.
func Validation(msg string, details map[string]any) *Error {
	return &Error{Kind: KindValidation, Message: msg, Details: details}
}

// Validationf builds a KindValidation error from a format string.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a KindNotFound error for a named entity.
func NotFound(entity, id string) *Error {
	e := &Error{Kind: KindNotFound, Message: entity + " not found"}
	if id != "" {
		e.Details = map[string]any{"id": id}
	}
	return e
}

// Conflict builds a KindConflict error.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// External builds a KindExternal error for the named remote service.
// The cause is retained for logs only; msg is what clients may see.
func External(service, msg string, err error) *Error {
	return &Error{Kind: KindExternal, Service: service, Message: msg, Err: err}
}

// Database wraps an unexpected store error. The driver message stays
// server-side; clients get a generic message.
func Database(err error) *Error {
	return &Error{Kind: KindDatabase, Message: "database operation failed", Err: err}
}

// Unauthorized builds a KindUnauthorized error.
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// Internal wraps an unclassified failure.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// As extracts a taxonomy error from an error chain, if present.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// IsKind reports whether err is a taxonomy error of the given Kind.
func IsKind(err error, k Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == k
}

// FromDB translates a GORM/driver error into the taxonomy: record-not-found
// becomes KindNotFound for the named entity, unique violations become
// KindConflict, anything else KindDatabase. A nil error passes through.
func FromDB(err error, entity string) error {
	if err == nil {
		return nil
	}
	if e, ok := As(err); ok {
		return e
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(entity, "")
	}
	if isDuplicate(err) {
		return Conflict(entity + " already exists")
	}
	return Database(err)
}

// isDuplicate detects unique-constraint violations across drivers that may
// not map to gorm.ErrDuplicatedKey. glebarez/sqlite returns plain-text
// errors; postgres reports SQLSTATE 23505.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "constraint failed: unique") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "sqlstate 23505")
}
