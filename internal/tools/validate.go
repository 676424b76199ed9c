package tools

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/stridelabs/coach-gateway/internal/icu"
)

// Shared field validators. Each is a pure predicate returning nil on
// success or a typed failure. Validation always happens before any I/O, so
// malformed values never reach the external API.

var eventIDPattern = regexp.MustCompile(`^\d+$`)

// dateLayouts are the accepted date and date-time representations.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.000Z07:00",
}

// validateEventType matches value case-insensitively against the fixed
// event type enum and returns the canonical lowercase form. The uppercase
// form the external API expects is applied at the API boundary, not here.
func validateEventType(value string) (string, *Result) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, t := range icu.EventTypes {
		if normalized == t {
			return normalized, nil
		}
	}
	res := Failf(CodeInvalidEventType, "type must be one of %s", strings.Join(icu.EventTypes, ", "))
	return "", &res
}

// validateDateField accepts date-only or date-time strings and rejects
// values that do not correspond to a real calendar instant: the parsed
// value is formatted back with the matching layout and must reproduce the
// input exactly.
func validateDateField(value, field string, required bool) *Result {
	if value == "" {
		if required {
			res := Failf(CodeInvalidDate, "%s is required", field)
			return &res
		}
		return nil
	}
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		if parsed.Format(layout) == value {
			return nil
		}
	}
	res := Failf(CodeInvalidDate, "%s must be a valid YYYY-MM-DD date or ISO date-time, got %q", field, value)
	return &res
}

// validatePriority checks the race priority enum. Absent values are valid.
func validatePriority(value string) *Result {
	if value == "" {
		return nil
	}
	for _, p := range icu.Priorities {
		if value == p {
			return nil
		}
	}
	res := Failf(CodeInvalidPriority, "priority must be one of %s", strings.Join(icu.Priorities, ", "))
	return &res
}

// validateNonNegative rejects NaN, infinities and negative values. The unit
// only decorates the error message.
func validateNonNegative(value float64, field, unit string) *Result {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		msg := field + " must be a non-negative number"
		if unit != "" {
			msg += " of " + unit
		}
		res := Fail(CodeInvalidInput, msg)
		return &res
	}
	return nil
}

// validateEventID requires a purely numeric identifier, keeping
// path-traversal-shaped values out of URL path segments.
func validateEventID(value string) *Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || !eventIDPattern.MatchString(trimmed) {
		res := Fail(CodeInvalidInput, "event_id must be a numeric value")
		return &res
	}
	return nil
}

// --- input extraction helpers ---

// JSON-decoded tool input carries strings, float64 numbers, bools, and
// nested maps/slices. These helpers pull typed values out of it.

func stringArg(input map[string]any, key string) (string, bool) {
	v, ok := input[key].(string)
	return v, ok
}

func numberArg(input map[string]any, key string) (float64, bool) {
	v, ok := input[key].(float64)
	return v, ok
}

func boolArg(input map[string]any, key string) (bool, bool) {
	v, ok := input[key].(bool)
	return v, ok
}

// stringListArg accepts either a JSON array of strings or a single string.
func stringListArg(input map[string]any, key string) ([]string, bool) {
	switch v := input[key].(type) {
	case string:
		return []string{v}, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
