// Package api implements the Cloudinary upload API client.
package api

import (
	"errors"
	"fmt"
)

// StatusError is returned when the remote API answers with an error
// status. It preserves the HTTP status code so callers can apply
// status-based policy (e.g. treating 404 as file-scoped).
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upload API returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("upload API returned HTTP %d: %s", e.StatusCode, e.Message)
}

// AsStatusError unwraps err to a *StatusError if one is in the chain.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
