package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnauthenticated indicates that no valid credential is available and
	// the user has to log in again. The gateway has already torn the session
	// down by the time a caller observes it.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden indicates a valid credential with insufficient privilege
	ErrForbidden = errors.New("forbidden")

	errNoRefreshToken = errors.New("no refresh token available")
)

// TransientError wraps a failure that happened before the backend produced a
// response (DNS, connect, timeout, cancelled context). It is not an auth
// failure and is never retried automatically.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "transient network error: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a transient network failure rather than
// a response the server deliberately sent
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// APIError is a well-formed non-auth error response (validation failure,
// not-found, conflict, server fault). It is propagated verbatim to the caller
// and never retried.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: backend returned %d", e.Method, e.Path, e.StatusCode)
}

// Detail extracts the backend's human-readable message, falling back to the raw body
func (e *APIError) Detail() string {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(e.Body, &payload); err == nil {
		if payload.Detail != "" {
			return payload.Detail
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return string(e.Body)
}
