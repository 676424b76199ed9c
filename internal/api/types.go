package api

import (
	"encoding/json"

	"github.com/stridelabs/coach-gateway/internal/tools"
)

// InvokeRequest is the JSON envelope for POST /v1/tools.
type InvokeRequest struct {
	Action    string          `json:"action"`
	ToolName  string          `json:"tool_name,omitempty"`
	ToolInput json.RawMessage `json:"tool_input,omitempty"`
}

// ListToolsResponse is the body returned for action "list_tools".
type ListToolsResponse struct {
	Tools []tools.Definition `json:"tools"`
}

// ErrorResp is the body for transport-level failures (bad envelope, auth).
// Tool-level failures travel inside tools.Result with HTTP 200 instead.
type ErrorResp struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
