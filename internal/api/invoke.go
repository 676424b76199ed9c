package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/stridelabs/coach-gateway/internal/storage"
	"github.com/stridelabs/coach-gateway/internal/tools"
	"go.uber.org/zap"
)

// handleInvoke implements POST /v1/tools.
// Auth middleware has already validated the credential and injected the
// athlete. Envelope problems are HTTP errors; everything past the envelope
// comes back as a tools.Result with HTTP 200, including unknown tool names,
// so the calling agent always has a structured failure to work with.
func (d *Dependencies) handleInvoke(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := uuid.New().String()

	athlete := athleteFromContext(r.Context())
	if athlete == nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Error: "internal server error"})
		return
	}

	var req InvokeRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Error: "Invalid JSON body"})
		return
	}

	switch req.Action {
	case "list_tools":
		d.writeToolEvent(req, athlete.ID, requestID, tools.Result{Success: true}, start)
		writeJSON(w, http.StatusOK, ListToolsResponse{Tools: d.Registry.Definitions()})

	case "execute_tool":
		if req.ToolName == "" {
			writeJSON(w, http.StatusBadRequest, ErrorResp{Error: "tool_name is required"})
			return
		}

		input, ok := decodeToolInput(req.ToolInput)
		if !ok {
			writeJSON(w, http.StatusBadRequest, ErrorResp{Error: "tool_input must be a JSON object"})
			return
		}

		tool, found := d.Registry.Get(req.ToolName)
		if !found {
			result := tools.Failf(tools.CodeToolNotFound, "Unknown tool: %s", req.ToolName)
			d.writeToolEvent(req, athlete.ID, requestID, result, start)
			writeJSON(w, http.StatusOK, result)
			return
		}

		result := d.execute(r.Context(), tool, athlete.ID, input)
		d.writeToolEvent(req, athlete.ID, requestID, result, start)
		writeJSON(w, http.StatusOK, result)

	default:
		writeJSON(w, http.StatusBadRequest, ErrorResp{Error: "action must be list_tools or execute_tool"})
	}
}

// decodeToolInput unmarshals the raw tool_input. Absent input means an
// empty object; anything that is not a JSON object (array, string, number)
// is rejected.
func decodeToolInput(raw json.RawMessage) (map[string]any, bool) {
	if len(raw) == 0 {
		return map[string]any{}, true
	}
	var input map[string]any
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, false
	}
	if input == nil {
		input = map[string]any{}
	}
	return input, true
}

// execute runs the tool handler with panic recovery. A panicking handler
// must not take the gateway down, and the caller gets a generic failure
// with no internal detail.
func (d *Dependencies) execute(ctx context.Context, tool tools.Tool, athleteID string, input map[string]any) (result tools.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			d.Logger.Error("tool handler panicked",
				zap.String("tool", tool.Definition().Name),
				zap.Any("panic", rec),
			)
			result = tools.Fail("API_ERROR", "internal server error")
		}
	}()
	return tool.Handle(ctx, athleteID, input)
}

// writeToolEvent builds a ToolEvent and fires it to the async writer.
// The preview holds tool input only; credentials never enter the envelope.
func (d *Dependencies) writeToolEvent(req InvokeRequest, athleteID, requestID string, result tools.Result, start time.Time) {
	event := &storage.ToolEvent{
		RequestID:    requestID,
		AthleteID:    athleteID,
		Timestamp:    time.Now(),
		Action:       req.Action,
		ToolName:     req.ToolName,
		Success:      result.Success,
		ErrorCode:    result.Code,
		Source:       resultSource(result),
		InputPreview: storage.TruncateInput(string(req.ToolInput), storage.InputPreviewLength),
		InputSize:    uint32(len(req.ToolInput)),
		LatencyMs:    float32(time.Since(start)) / float32(time.Millisecond),
	}
	d.Writer.Write(event)
}

// resultSource pulls the data source label out of a read-tool result, when
// the tool reported one.
func resultSource(result tools.Result) string {
	data, ok := result.Data.(map[string]any)
	if !ok {
		return ""
	}
	source, _ := data["source"].(string)
	return source
}
