package tools

import (
	"strings"
	"time"

	"github.com/stridelabs/coach-gateway/internal/icu"
)

// maxRangeDays caps the span of any date-range query against the external
// API.
const maxRangeDays = 90

const dayLayout = "2006-01-02"

// timeNow is overridable in tests.
var timeNow = time.Now

type dateRange struct {
	Oldest string
	Newest string
}

// resolveDateRange applies the shared defaulting and clamping rules:
// missing bounds default to today-defaultBack .. today+defaultForward, an
// inverted range is swapped, and a span over maxRangeDays is clamped by
// pulling oldest forward. newest is authoritative and never truncated.
func resolveDateRange(input map[string]any, defaultBack, defaultForward int) (dateRange, *Result) {
	today := timeNow().UTC().Truncate(24 * time.Hour)

	oldest, _ := stringArg(input, "oldest")
	newest, _ := stringArg(input, "newest")
	if res := validateDateField(oldest, "oldest", false); res != nil {
		return dateRange{}, res
	}
	if res := validateDateField(newest, "newest", false); res != nil {
		return dateRange{}, res
	}

	oldestDay := today.AddDate(0, 0, -defaultBack)
	if oldest != "" {
		oldestDay = mustParseDay(oldest)
	}
	newestDay := today.AddDate(0, 0, defaultForward)
	if newest != "" {
		newestDay = mustParseDay(newest)
	}

	if oldestDay.After(newestDay) {
		oldestDay, newestDay = newestDay, oldestDay
	}
	if newestDay.Sub(oldestDay) > maxRangeDays*24*time.Hour {
		oldestDay = newestDay.AddDate(0, 0, -maxRangeDays)
	}

	return dateRange{
		Oldest: oldestDay.Format(dayLayout),
		Newest: newestDay.Format(dayLayout),
	}, nil
}

// mustParseDay extracts the calendar day from an already-validated date or
// date-time string.
func mustParseDay(value string) time.Time {
	day, err := time.Parse(dayLayout, value[:len(dayLayout)])
	if err != nil {
		panic("filters: unvalidated date reached mustParseDay: " + value)
	}
	return day
}

// filterActivities applies the type filter and limit. It runs against
// whichever source produced the list, so mock and live behave identically.
func filterActivities(activities []icu.Activity, activityType string, limit int) []icu.Activity {
	out := activities
	if activityType != "" {
		out = make([]icu.Activity, 0, len(activities))
		for _, a := range activities {
			if strings.EqualFold(a.Type, activityType) {
				out = append(out, a)
			}
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// filterEvents applies the canonical type and category filters shared by
// the mock and live paths.
func filterEvents(events []icu.CalendarEvent, types []string, category string) []icu.CalendarEvent {
	if len(types) == 0 && category == "" {
		return events
	}
	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[strings.ToLower(t)] = true
	}
	out := make([]icu.CalendarEvent, 0, len(events))
	for _, e := range events {
		if len(typeSet) > 0 && !typeSet[e.Type] {
			continue
		}
		if category != "" {
			if e.Category == nil || !strings.EqualFold(*e.Category, category) {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}
