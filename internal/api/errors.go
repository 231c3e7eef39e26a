package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the Stripe API.
type APIError struct {
	StatusCode int
	Type       string
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error %d", e.StatusCode)
	}
	if e.Type == "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d (%s): %s", e.StatusCode, e.Type, e.Message)
}

// errorEnvelope is the {"error": {...}} body Stripe returns on failure.
type errorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status}
	var env errorEnvelope
	if json.Unmarshal(body, &env) == nil && env.Error.Message != "" {
		e.Type = env.Error.Type
		e.Code = env.Error.Code
		e.Message = env.Error.Message
	} else {
		e.Message = string(body)
	}
	return e
}

// IsAuthError reports whether err is an API rejection of the key.
func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}
