package utils

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/sayanchanda7290/roomradar/apperr"
)

const maxJSONBody = 1 << 20

type errorBody struct {
	Error   apperr.Kind `json:"error"`
	Message string      `json:"message"`
}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("encode response: %v", err)
	}
}

// RespondWithError maps err to its status code and writes {"error","message"}.
func RespondWithError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		log.Printf("internal error: %v", err)
	}
	RespondWithJSON(w, apperr.Status(kind), errorBody{Error: kind, Message: apperr.Message(err)})
}

// DecodeJSON reads a single JSON object from the request body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperr.New(apperr.ValidationFailure, "Request body is empty")
		case errors.As(err, &maxErr):
			return apperr.New(apperr.ValidationFailure, "Request body too large")
		default:
			return apperr.Wrap(apperr.ValidationFailure, "Invalid input", err)
		}
	}
	return nil
}
