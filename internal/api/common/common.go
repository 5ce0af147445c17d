// Package common provides shared HTTP utility functions for API handlers.
package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/arenarium/mapmarkers/internal/marker"
)

// maxBodyBytes bounds request bodies; the largest accepted body is a viewport
const maxBodyBytes = 1 << 16

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSONResponse writes a JSON response with the given data
func WriteJSONResponse(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// WriteErrorResponse writes a standardized error response
func WriteErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	WriteJSONResponse(w, ErrorResponse{Error: message}, statusCode)
}

// StatusForError maps pipeline errors to HTTP status codes
func StatusForError(err error) int {
	switch {
	case errors.Is(err, marker.ErrUnknownMarkerID):
		return http.StatusNotFound
	case errors.Is(err, marker.ErrElementNotReady), errors.Is(err, marker.ErrStaleGeneration):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSONBody decodes a JSON request body into v, rejecting unknown fields
func DecodeJSONBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
