// ABOUTME: Gateway error kinds and their mapping to response status codes
// ABOUTME: Store error messages are forwarded verbatim when the store supplies one
package handlers

import (
	"errors"
	"net/http"

	"github.com/harperreed/reicrm/airtable"
)

type ErrorKind int

const (
	// KindUpstreamUnavailable covers transport failures and failed list calls.
	KindUpstreamUnavailable ErrorKind = iota
	// KindUpstreamRejected is a non-success response to a write.
	KindUpstreamRejected
	// KindValidation is a request the gateway refuses before calling the store.
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	case KindUpstreamRejected:
		return "upstream_rejected"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is what every gateway operation returns on failure. Message is safe
// to show to the caller; Err keeps the underlying cause for logs.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// StatusCode maps the error to the HTTP status the gateway responds with.
func (e *Error) StatusCode() int {
	if e.Kind == KindValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// AsError extracts a gateway error from err.
func AsError(err error) (*Error, bool) {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr, true
	}
	return nil, false
}

func validationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func unavailable(message string, err error) *Error {
	return &Error{Kind: KindUpstreamUnavailable, Message: message, Err: err}
}

// rejected forwards the store's own message when there is one, else fallback.
func rejected(fallback string, err error) *Error {
	if gwErr, ok := AsError(err); ok {
		return gwErr
	}
	apiErr, ok := airtable.IsAPIError(err)
	if !ok {
		return unavailable(fallback, err)
	}
	message := apiErr.Message
	if message == "" {
		message = fallback
	}
	return &Error{Kind: KindUpstreamRejected, Message: message, Err: err}
}
