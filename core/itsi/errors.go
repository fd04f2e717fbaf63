package itsi

import (
	"errors"
	"fmt"
)

// ValidationError reports a missing or invalid input parameter. It is always
// raised before any network call is made.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validationf builds a *ValidationError with a formatted message.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// APIError reports a non-success response from the ITSI API or a transport
// failure talking to it. A single attempt is made per logical call; there is
// no automatic retry.
type APIError struct {
	// StatusCode is the HTTP status, or 0 for transport-level failures.
	StatusCode int
	// Method and Path identify the failed request.
	Method string
	Path   string
	// Body holds the (truncated) response body for diagnostics.
	Body string
	// Err is the underlying transport error, if any.
	Err error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("itsi: %s %s: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("itsi: %s %s: unexpected status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	return e.Err
}
