// Package solarapi provides the HTTP client for the remote solar backend API.
package solarapi

import (
	"errors"
	"fmt"
)

// APIError represents a structured `{message}` error from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	return fmt.Sprintf("solarapi: %s (status %d)", e.Message, e.StatusCode)
}

// Sentinel errors for the status codes the guard and verifier branch on.
var (
	ErrUnauthorized = errors.New("solarapi: unauthorized (invalid or expired token)")
	ErrForbidden    = errors.New("solarapi: forbidden (insufficient privileges)")
	ErrNotFound     = errors.New("solarapi: resource not found")
)
