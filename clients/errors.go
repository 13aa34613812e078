package clients

import (
	"errors"
	"fmt"
)

// ErrNotFound means the record does not exist. It is an expected outcome, not
// a failure.
var ErrNotFound = errors.New("record not found")

// ErrNoRegistry is returned by clients bound to a chain that hosts no name
// registry.
var ErrNoRegistry = fmt.Errorf("%w: chain has no name registry", ErrNotFound)

// ErrNoResolver means the name exists without a resolver contract, or does
// not exist at all.
var ErrNoResolver = fmt.Errorf("%w: no resolver set for name", ErrNotFound)

// ErrAPIStatus is returned when the Payment-ID API answers with a non-zero
// code.
var ErrAPIStatus = errors.New("payment id api returned non-zero code")

// APIError represents a Payment-ID API error response.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("payment id api error [%d]: %s", e.StatusCode, e.Message)
}

func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == 429
}
