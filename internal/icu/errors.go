package icu

import "fmt"

// Error codes surfaced by the external API adapter. Callers branch on the
// code, never on message text.
const (
	CodeNetworkError       = "NETWORK_ERROR"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeRateLimited        = "RATE_LIMITED"
	CodeAPIError           = "API_ERROR"
)

// APIError is the single typed error returned for every external API
// failure. StatusCode is 0 for transport-level failures.
type APIError struct {
	Message    string
	StatusCode int
	Code       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("intervals.icu: %s (status=%d code=%s)", e.Message, e.StatusCode, e.Code)
}

func networkError(err error) *APIError {
	return &APIError{
		Message:    fmt.Sprintf("request failed: %v", err),
		StatusCode: 0,
		Code:       CodeNetworkError,
	}
}
