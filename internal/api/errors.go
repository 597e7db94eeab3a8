package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized marks responses rejected for missing or expired credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNoToken indicates an authenticated endpoint was called without a bearer
// token set. It is a local condition; no request is issued.
var ErrNoToken = errors.New("not authenticated")

// APIError is a backend rejection: a non-2xx status or an envelope with
// success=false. Code and Message come from the envelope when present.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		if e.Code != "" {
			return fmt.Sprintf("api: %s (%s)", e.Message, e.Code)
		}
		return fmt.Sprintf("api: %s", e.Message)
	}
	return fmt.Sprintf("api: request failed with status %d", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}
