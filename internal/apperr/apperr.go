// Package apperr defines the error taxonomy surfaced by the API.
package apperr

import "errors"

// Kind classifies an error for API consumers.
type Kind string

const (
	KindUnauthenticated           Kind = "UNAUTHENTICATED"
	KindNotFound                  Kind = "NOT_FOUND"
	KindDomainConstraintViolation Kind = "DOMAIN_CONSTRAINT_VIOLATION"
	KindAssetUnavailable          Kind = "ASSET_UNAVAILABLE"
	KindConflict                  Kind = "CONFLICT"
	KindInvalidCredentials        Kind = "INVALID_CREDENTIALS"
	KindInternal                  Kind = "INTERNAL"
)

// Error is an API-facing error with a human readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Extensions is picked up by the GraphQL executor and rendered under "extensions".
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": string(e.Kind)}
}

var (
	ErrUnauthenticated    = New(KindUnauthenticated, "not authenticated")
	ErrInvalidCredentials = New(KindInvalidCredentials, "invalid email or password")
)

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// NotFound builds a NOT_FOUND error for the named record type, e.g. NotFound("asset").
func NotFound(what string) *Error {
	return New(KindNotFound, what+" not found")
}

func Violation(message string) *Error {
	return New(KindDomainConstraintViolation, message)
}

func Conflict(message string, err error) *Error {
	return Wrap(KindConflict, message, err)
}

// Internal hides the cause from the caller; the cause stays reachable via Unwrap for logging.
func Internal(err error) *Error {
	return Wrap(KindInternal, "internal server error", err)
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
