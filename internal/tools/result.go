package tools

import (
	"errors"
	"fmt"

	"github.com/stridelabs/coach-gateway/internal/icu"
)

// Failure codes produced locally, before any I/O. External API codes
// (INVALID_CREDENTIALS, RATE_LIMITED, API_ERROR, NETWORK_ERROR) come from
// the icu adapter and pass through unchanged.
const (
	CodeInvalidInput     = "INVALID_INPUT"
	CodeInvalidEventType = "INVALID_EVENT_TYPE"
	CodeInvalidDate      = "INVALID_DATE"
	CodeInvalidPriority  = "INVALID_PRIORITY"
	CodeNoCredentials    = "NO_CREDENTIALS"
	CodeToolNotFound     = "TOOL_NOT_FOUND"
)

// Result is the single response shape every tool handler returns: either
// Success with data, or a failure with a code from the closed taxonomy.
// There are no partial or streamed results.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// OK wraps data in a success result.
func OK(data any) Result {
	return Result{Success: true, Data: data}
}

// Fail builds a failure result with a taxonomy code.
func Fail(code, message string) Result {
	return Result{Success: false, Error: message, Code: code}
}

// Failf is Fail with formatting.
func Failf(code, format string, args ...any) Result {
	return Fail(code, fmt.Sprintf(format, args...))
}

// failureFrom converts an error from a collaborator into a typed failure.
// Typed external API errors keep their own code; anything else is wrapped
// with the tool's catch-all code and the error's message, never a stack.
func failureFrom(err error, fallbackCode string) Result {
	var apiErr *icu.APIError
	if errors.As(err, &apiErr) {
		return Fail(apiErr.Code, apiErr.Message)
	}
	return Fail(fallbackCode, err.Error())
}
