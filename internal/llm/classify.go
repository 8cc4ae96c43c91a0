package llm

import (
	"errors"
	"net/http"

	"github.com/sashabaranov/go-openai"

	app_errors "coach-ai/backend/internal/errors"
)

// Classify maps an error from the OpenAI client onto the chat error taxonomy.
// Non-2xx responses become *StatusError; anything that produced no response,
// or a body that could not be decoded, becomes *TransportError.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, app_errors.ErrValidation) {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &app_errors.StatusError{Code: apiErr.HTTPStatusCode, Message: reason(apiErr.HTTPStatusCode, apiErr.Message)}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &app_errors.StatusError{Code: reqErr.HTTPStatusCode, Message: reason(reqErr.HTTPStatusCode, "")}
	}

	return &app_errors.TransportError{Err: err}
}

// reason prefers the standard status text, like an HTTP status line does.
func reason(code int, fallback string) string {
	if text := http.StatusText(code); text != "" {
		return text
	}
	return fallback
}
