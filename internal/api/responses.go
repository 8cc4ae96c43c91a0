package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	app_errors "coach-ai/backend/internal/errors"
	"coach-ai/backend/internal/model"
)

// This file contains shared DTOs (Data Transfer Objects) for API requests and
// responses, and helper functions for sending consistent HTTP responses.

// ErrorResponse defines the standard JSON structure for error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse defines a generic success response for operations that don't
// return a resource.
type StatusResponse struct {
	Status string `json:"status"`
}

// UpdateKeyRequest is the DTO for storing a provider API key. A masked key
// (as returned by GET) is rejected so it can never overwrite the real one.
type UpdateKeyRequest struct {
	APIKey string `json:"api_key" validate:"required,max=512,notmasked" example:"sk-..."`
}

// SendMessageRequest is the DTO for posting a user message to the conversation.
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=4000" example:"How do I improve my backhand drive?"`
}

// MessageResponse is the reply to a successfully answered message.
type MessageResponse struct {
	RequestID string      `json:"request_id"`
	Reply     string      `json:"reply"`
	Usage     model.Usage `json:"usage"`
}

// HistoryResponse lists the stored conversation, oldest first.
type HistoryResponse struct {
	Messages []model.ConversationMessage `json:"messages"`
}

// respondWithError is the centralized error handling function for the API layer.
// It maps business-layer errors to HTTP status codes and formats a standard JSON
// error response. Chat errors carry the same text the error channel publishes.
func respondWithError(w http.ResponseWriter, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, app_errors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "The requested resource was not found."
	case errors.Is(err, app_errors.ErrValidation):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, app_errors.ErrNotConfigured):
		statusCode = http.StatusPreconditionFailed
		message = app_errors.UserMessage(err)
	case errors.Is(err, app_errors.ErrBusy):
		statusCode = http.StatusConflict
		message = app_errors.UserMessage(err)
	case errors.Is(err, app_errors.ErrRateLimited):
		statusCode = http.StatusTooManyRequests
		message = app_errors.UserMessage(err)
	case errors.Is(err, app_errors.ErrUnavailable):
		statusCode = http.StatusServiceUnavailable
		message = app_errors.UserMessage(err)
	case errors.Is(err, app_errors.ErrInvalidKey),
		errors.Is(err, app_errors.ErrEmptyReply),
		errors.Is(err, app_errors.ErrHTTPStatus),
		errors.Is(err, app_errors.ErrTransport):
		// The upstream provider failed, not this server.
		statusCode = http.StatusBadGateway
		message = app_errors.UserMessage(err)
	default:
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal server error occurred."
	}

	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)

	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondWithJSON is a low-level helper for marshaling a payload to JSON
// and writing it to the http.ResponseWriter with a given status code.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

// sendStreamError sends a structured error message over a Server-Sent Events (SSE) stream.
func sendStreamError(w http.ResponseWriter, message string) {
	slog.Warn("Sending stream error to client", "message", message)

	jsonData, err := json.Marshal(ErrorResponse{Error: message})
	if err != nil {
		slog.Error("Failed to marshal stream error payload", "error", err)
		return
	}

	// `event: error` lets clients register a dedicated listener.
	if _, err := fmt.Fprintf(w, "event: error\ndata: %s\n\n", string(jsonData)); err != nil {
		slog.Warn("Failed to write stream error, client might have disconnected", "error", err)
		return
	}

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

// writeStreamEvent marshals data and writes it to an SSE stream. A write
// failure means the client has disconnected.
func writeStreamEvent(w http.ResponseWriter, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		slog.Error("Failed to marshal stream data to JSON", "error", err)
		// The connection is fine; only this event is dropped.
		return nil
	}

	if _, err := fmt.Fprintf(w, "data: %s\n\n", string(jsonData)); err != nil {
		return fmt.Errorf("failed to write data to stream: %w", err)
	}

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}
