// ABOUTME: Record store error replies
// ABOUTME: Parses {error} bodies into APIError values
package airtable

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is a non-success response from the record store. Message is the
// store's own error text and may be empty when the body was not parseable.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("record store error %d: %s", e.StatusCode, e.Message)
	case e.Type != "":
		return fmt.Sprintf("record store error %d: %s", e.StatusCode, e.Type)
	default:
		return fmt.Sprintf("record store error %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
}

// parseAPIError understands both store error shapes:
// {"error": {"type": "...", "message": "..."}} and {"error": "TYPE"}.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var wrapper struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil || len(wrapper.Error) == 0 {
		return apiErr
	}

	var detail struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(wrapper.Error, &detail); err == nil {
		apiErr.Type = detail.Type
		apiErr.Message = detail.Message
		return apiErr
	}

	var code string
	if err := json.Unmarshal(wrapper.Error, &code); err == nil {
		apiErr.Type = code
	}
	return apiErr
}
