// Package shared centralizes JSON response encoding so every handler emits
// the same envelope shapes.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "antygravity/pkg/domain-errors"
)

// WriteJSON encodes v with the given status. Encoding failures after the
// header is written can only be logged by callers; the status is already
// committed.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// ErrorResponse is the JSON envelope for all error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteError translates a domain error into an HTTP response. Uncoded errors
// collapse to a generic 500 so internal details never leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	WriteJSON(w, dErrors.ToHTTPStatus(code), ErrorResponse{
		Error:   string(code),
		Message: dErrors.MessageOf(err),
	})
}
