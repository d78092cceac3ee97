package backend

import (
	"errors"
	"fmt"
)

var (
	ErrMissingToken      = errors.New("no credential available for backend request")
	ErrUnknownTransition = errors.New("unknown refund-return transition")
)

// APIError carries a non-2xx backend response. Message is the server-provided
// error text when present, else a generic fallback.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend api: %s (status %d)", e.Message, e.StatusCode)
}
