package tmdb

import (
	"errors"
	"fmt"
	"net/http"
)

// ConfigReason is the reason for a ConfigError.
type ConfigReason int

const (
	MissingCredential ConfigReason = iota + 1
	MissingKeywords
)

// ConfigError signals a configuration problem that makes a request impossible.
// No network call is made when it's returned.
type ConfigError struct {
	Reason ConfigReason
}

var (
	ErrMissingCredential = &ConfigError{Reason: MissingCredential}
	ErrMissingKeywords   = &ConfigError{Reason: MissingKeywords}
)

func (e *ConfigError) Error() string {
	switch e.Reason {
	case MissingCredential:
		return "TMDb API key is not configured."
	case MissingKeywords:
		return "Keyword IDs are not configured."
	}
	return "Invalid TMDb configuration."
}

// Is makes errors.Is match any ConfigError with the same reason.
func (e *ConfigError) Is(target error) bool {
	t, ok := target.(*ConfigError)
	return ok && t.Reason == e.Reason
}

// TransportError signals that TMDb couldn't be reached, including timeouts.
// The wrapped error never contains the request URL, so the API key doesn't leak.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("Couldn't reach TMDb: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request timed out.
func (e *TransportError) Timeout() bool {
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// UpstreamError signals a non-2xx response from TMDb.
type UpstreamError struct {
	StatusCode int
	// TMDb's "status_message", if the body contained one
	StatusMessage string
	Body          []byte
}

func (e *UpstreamError) Error() string {
	msg := e.StatusMessage
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("TMDb API error (Status: %d): %s", e.StatusCode, msg)
}

// ParseError signals a successful response with a body that isn't valid JSON.
// The body isn't part of the error message.
type ParseError struct{}

func (e *ParseError) Error() string {
	return "Failed to parse TMDb API response."
}

// NotFoundError signals a response without a "results" collection.
type NotFoundError struct {
	// For example "popular movies"
	What string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("No %s found.", e.What)
}
