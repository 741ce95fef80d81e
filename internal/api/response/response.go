// Package response provides utilities for sending consistent HTTP responses.
// Every body is an Envelope so clients can branch on Success alone.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Envelope is the JSON shape of every API response.
// Data is set on success; Errors optionally carries per-field messages on failure.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// Sets the Content-Type header to application/json and writes the status code.
// If data is nil, only the status code is sent.
// Logs encoding errors but does not fail the response.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Error().Err(err).Msg("failed to encode JSON response")
		}
	}
}

// RespondSuccess sends a successful envelope carrying data.
//
// Example:
//
//	response.RespondSuccess(w, http.StatusCreated, "shares purchased", result)
func RespondSuccess(w http.ResponseWriter, status int, message string, data any) {
	RespondJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// RespondError sends a failed envelope. errors may be nil, a map of field
// messages, or any other JSON-encodable detail.
//
// Example:
//
//	response.RespondError(w, http.StatusBadRequest, "validation failed", fields)
//	response.RespondError(w, http.StatusNotFound, "portfolio not found", nil)
func RespondError(w http.ResponseWriter, status int, message string, errors any) {
	RespondJSON(w, status, Envelope{Success: false, Message: message, Errors: errors})
}
