package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOfWrapped(t *testing.T) {
	base := New(Forbidden, "not your place")
	err := fmt.Errorf("update place: %w", base)

	if got := KindOf(err); got != Forbidden {
		t.Fatalf("KindOf = %q, want %q", got, Forbidden)
	}
	if !Is(err, Forbidden) {
		t.Fatal("Is(Forbidden) = false")
	}
	if Is(nil, Forbidden) {
		t.Fatal("Is(nil) should be false")
	}
}

func TestPlainErrorsAreInternal(t *testing.T) {
	err := errors.New("socket closed")
	if KindOf(err) != Internal {
		t.Fatalf("KindOf = %q", KindOf(err))
	}
	if Message(err) != "Internal server error" {
		t.Fatalf("internal details leaked: %q", Message(err))
	}
}

func TestStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		Unauthenticated:    http.StatusUnauthorized,
		NoSession:          http.StatusUnauthorized,
		InvalidCredentials: http.StatusUnauthorized,
		Forbidden:          http.StatusForbidden,
		NotFound:           http.StatusNotFound,
		DuplicateEmail:     http.StatusConflict,
		ValidationFailure:  http.StatusBadRequest,
		IngestionFailure:   http.StatusBadGateway,
		Internal:           http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := Status(kind); got != want {
			t.Errorf("Status(%s) = %d, want %d", kind, got, want)
		}
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := Wrap(IngestionFailure, "download failed", cause)
	if !errors.Is(err, cause) {
		t.Fatal("cause not reachable through Unwrap")
	}
	if err.Error() != "download failed: dial tcp: timeout" {
		t.Fatalf("Error() = %q", err.Error())
	}
}
