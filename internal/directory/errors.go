package directory

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound keeps store-specific 404s consistent across the in-memory
	// and DynamoDB implementations.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized is returned before any state is read or mutated when
	// the administrator token is missing or wrong.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrReadOnlySource is returned for write operations while the service
	// is configured against the spreadsheet source.
	ErrReadOnlySource = errors.New("active source is read-only")
)

// FormError carries the ordered, user-visible messages produced by submission
// validation and the photo pipeline. It is returned as data so the caller can
// re-render the form with the original input preserved.
type FormError struct {
	Messages []string
}

// NewFormError builds a FormError from one or more messages.
func NewFormError(messages ...string) *FormError {
	return &FormError{Messages: messages}
}

func (e *FormError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// AsFormError unwraps err into a *FormError when possible.
func AsFormError(err error) (*FormError, bool) {
	var formErr *FormError
	if errors.As(err, &formErr) {
		return formErr, true
	}
	return nil, false
}
