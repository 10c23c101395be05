package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error is a failure talking to the pricing service, with a message suitable
// for direct display. StatusCode is 0 for transport-level failures (no
// response at all), which callers may treat differently from HTTP errors.
type Error struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes the underlying transport error, if any
func (e *Error) Unwrap() error { return e.Err }

// IsTransport reports whether no response was received at all
func (e *Error) IsTransport() bool { return e.StatusCode == 0 }

// transportError wraps a no-response failure (DNS, refused, timeout)
func transportError(err error) *Error {
	return &Error{
		Message: "No response from server. Ensure the API is running.",
		Err:     err,
	}
}

// httpError turns a non-2xx response into an Error. The server's structured
// {"error": ...} body wins; otherwise fall back to the status line.
func httpError(statusCode int, body []byte) *Error {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error != "" {
		return &Error{StatusCode: statusCode, Message: er.Error}
	}
	return &Error{
		StatusCode: statusCode,
		Message:    fmt.Sprintf("HTTP %d: %s", statusCode, http.StatusText(statusCode)),
	}
}
