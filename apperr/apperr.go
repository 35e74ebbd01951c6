// Package apperr defines the error kinds handlers surface to clients.
package apperr

import (
	"errors"
	"net/http"
)

type Kind string

const (
	Unauthenticated    Kind = "unauthenticated"
	NoSession          Kind = "no_session"
	Forbidden          Kind = "forbidden"
	NotFound           Kind = "not_found"
	DuplicateEmail     Kind = "duplicate_email"
	InvalidCredentials Kind = "invalid_credentials"
	IngestionFailure   Kind = "ingestion_failure"
	ValidationFailure  Kind = "validation_failure"
	Internal           Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the client-facing text for err. Internal errors are not described.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Message
	}
	return "Internal server error"
}

func Status(kind Kind) int {
	switch kind {
	case Unauthenticated, NoSession, InvalidCredentials:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case DuplicateEmail:
		return http.StatusConflict
	case ValidationFailure:
		return http.StatusBadRequest
	case IngestionFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
