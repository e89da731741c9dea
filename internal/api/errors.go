// Package api talks to the task service over HTTP. Every authenticated
// request goes through the Gateway; the auth endpoints, which carry no
// credential, use the AuthClient.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoCredential reports that a request needed a session but none is stored.
var ErrNoCredential = errors.New("not logged in")

// ErrUnauthorized reports that the server rejected the session credential.
var ErrUnauthorized = errors.New("session expired or rejected")

// ServerError is a non-auth error response from the service. The collection
// on the client is left as it was; the message is shown to the user verbatim.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}

// TransportError is a failure to reach the service or to read its response.
// Requests that fail this way are never retried.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "cannot reach server: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// errorMessage extracts a displayable message from an error response body.
// The service answers sometimes with JSON ({"message": ...} or {"error": ...})
// and sometimes with plain text; the status text is the last resort.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(status)
}
