package storage

import "time"

// EventWriter is the interface for writing tool-invocation events.
// Write() must NEVER block the caller.
type EventWriter interface {
	Write(event *ToolEvent)
	Close()
}

// ToolEvent represents a single gateway invocation to be persisted for
// analytics. It carries tool input only as a truncated preview and never
// carries credentials.
type ToolEvent struct {
	RequestID    string
	AthleteID    string
	Timestamp    time.Time
	Action       string // "list_tools" or "execute_tool"
	ToolName     string
	Success      bool
	ErrorCode    string // empty on success
	Source       string // "intervals.icu", "mock", or empty
	InputPreview string // first 500 chars of the tool input JSON
	InputSize    uint32
	LatencyMs    float32
}

// InputPreviewLength is the max chars stored in input_preview.
const InputPreviewLength = 500

// TruncateInput returns the first N characters (runes) of the input JSON
// for preview storage. It never splits a multi-byte UTF-8 character.
func TruncateInput(input string, maxLen int) string {
	runes := []rune(input)
	if len(runes) <= maxLen {
		return input
	}
	return string(runes[:maxLen])
}
