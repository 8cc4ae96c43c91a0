package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// This package defines a centralized set of sentinel errors for the application.
// Services return these (usually wrapped with context) and callers use `errors.Is()`
// to recognize them. The chat service converts them to user-facing strings with
// UserMessage, and the API layer maps them to HTTP status codes.

var (
	// ErrNotFound signifies that a requested resource could not be located.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that input data provided by a client failed
	// business rule validation.
	ErrValidation = errors.New("validation failed")

	// ErrInternal signifies an unexpected error on the server. This is a generic
	// error used to prevent leaking sensitive implementation details to the client.
	ErrInternal = errors.New("internal server error")
)

// Chat taxonomy. Every outcome of a failed chat exchange is one of these.
var (
	// ErrNotConfigured means no provider API key is stored.
	ErrNotConfigured = errors.New("api key not configured")

	// ErrEmptyReply means the provider answered 2xx but without usable content.
	ErrEmptyReply = errors.New("empty reply")

	// ErrInvalidKey is a 401 from the provider.
	ErrInvalidKey = errors.New("invalid api key")

	// ErrRateLimited is a 429 from the provider.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnavailable is a 500 or 503 from the provider.
	ErrUnavailable = errors.New("service temporarily unavailable")

	// ErrHTTPStatus is any other non-2xx status from the provider.
	ErrHTTPStatus = errors.New("unexpected http status")

	// ErrTransport means no response was received at all (timeout, DNS, refused connection).
	ErrTransport = errors.New("network error")

	// ErrBusy means a message is already in flight for the conversation.
	ErrBusy = errors.New("request already in flight")
)

// StatusError carries a non-2xx provider response. It matches ErrInvalidKey,
// ErrRateLimited, ErrUnavailable or ErrHTTPStatus depending on Code.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned %d %s", e.Code, e.Message)
}

// Is lets errors.Is match a StatusError against the sentinel for its status class.
func (e *StatusError) Is(target error) bool {
	return target == e.kind()
}

func (e *StatusError) kind() error {
	switch e.Code {
	case http.StatusUnauthorized:
		return ErrInvalidKey
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusInternalServerError, http.StatusServiceUnavailable:
		return ErrUnavailable
	default:
		return ErrHTTPStatus
	}
}

// UserMessage converts an error from the chat taxonomy into the text shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var statusErr *StatusError
	switch {
	case errors.Is(err, ErrNotConfigured):
		return "API key not configured. Please set up your OpenAI API key in settings."
	case errors.Is(err, ErrEmptyReply):
		return "Empty response from AI"
	case errors.Is(err, ErrBusy):
		return "A message is already being processed. Please wait for the reply."
	case errors.Is(err, ErrInvalidKey):
		return "Invalid API key. Please check your OpenAI API key."
	case errors.Is(err, ErrRateLimited):
		return "Rate limit exceeded. Please try again later."
	case errors.Is(err, ErrUnavailable):
		return "OpenAI service is temporarily unavailable."
	case errors.As(err, &statusErr):
		return fmt.Sprintf("Error: %d %s", statusErr.Code, statusErr.Message)
	case errors.Is(err, ErrTransport):
		return "Network error: " + transportCause(err)
	default:
		return err.Error()
	}
}

// transportCause strips the sentinel prefix so the message reads "Network error: <cause>".
func transportCause(err error) string {
	var te *TransportError
	if errors.As(err, &te) && te.Err != nil {
		return te.Err.Error()
	}
	return err.Error()
}

// TransportError wraps the underlying I/O failure of a call that produced no response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", ErrTransport, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}
