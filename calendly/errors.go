package calendly

import (
	"fmt"

	"acmedental/models"
)

// APIError is the only error type this package returns. Transport-level
// failures never leak past the client; they are mapped onto the closed
// models.ErrorKind taxonomy so callers can dispatch by kind.
type APIError struct {
	Kind    models.ErrorKind
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newAPIError(kind models.ErrorKind, msg string) *APIError {
	return &APIError{Kind: kind, Message: msg}
}

// AsAPIError unwraps err into an *APIError. Any other error (there should
// be none) is treated as a generic API failure so the orchestrator always
// has a kind to dispatch on.
func AsAPIError(err error) *APIError {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}
	return &APIError{Kind: models.ErrKindAPI, Message: err.Error()}
}
