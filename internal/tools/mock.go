package tools

import (
	"context"
	"fmt"

	"github.com/stridelabs/coach-gateway/internal/icu"
)

// mockSource returns deterministic synthetic data so read tools stay usable
// and demoable before an athlete connects an Intervals.icu account. Data is
// derived only from the requested date range, so the same request always
// yields the same response.
type mockSource struct{}

func (s *mockSource) Source() string { return sourceMock }

var mockActivityPatterns = []struct {
	name     string
	typ      string
	duration int
	distance float64
	tss      float64
	hr       int
}{
	{"Morning Run", "Run", 3000, 8200, 55, 148},
	{"Endurance Ride", "Ride", 7200, 58000, 95, 135},
	{"Tempo Run", "Run", 2700, 7500, 68, 158},
	{"Interval Ride", "Ride", 3900, 32000, 82, 152},
	{"Long Run", "Run", 5400, 16500, 88, 150},
	{"Recovery Ride", "Ride", 2400, 15000, 35, 118},
}

func (s *mockSource) Activities(_ context.Context, oldest, newest string) ([]icu.Activity, error) {
	newestDay := mustParseDay(newest)
	oldestDay := mustParseDay(oldest)

	var activities []icu.Activity
	day := newestDay.AddDate(0, 0, -1)
	for i := 0; i < len(mockActivityPatterns) && !day.Before(oldestDay); i++ {
		p := mockActivityPatterns[i]
		activities = append(activities, icu.Activity{
			ID:        fmt.Sprintf("mock-activity-%d", i+1),
			Name:      p.name,
			Type:      p.typ,
			StartDate: day.Format(dayLayout) + "T07:00:00",
			Duration:  p.duration,
			Distance:  p.distance,
			TSS:       p.tss,
			AverageHR: p.hr,
		})
		day = day.AddDate(0, 0, -2)
	}
	return activities, nil
}

func (s *mockSource) Wellness(_ context.Context, oldest, newest string) ([]icu.Wellness, error) {
	oldestDay := mustParseDay(oldest)
	newestDay := mustParseDay(newest)

	var records []icu.Wellness
	for i, day := 0, oldestDay; !day.After(newestDay); i, day = i+1, day.AddDate(0, 0, 1) {
		ctl := 45.0 + float64(i%10)
		atl := 48.0 + float64((i*3)%15)
		restingHR := 48 + i%4
		hrv := 62.0 - float64(i%6)
		sleepSecs := 7*3600 + (i%3)*900
		weight := 70.5
		records = append(records, icu.Wellness{
			Date:      day.Format(dayLayout),
			CTL:       &ctl,
			ATL:       &atl,
			RestingHR: &restingHR,
			HRV:       &hrv,
			SleepSecs: &sleepSecs,
			Weight:    &weight,
		})
	}
	return records, nil
}

var mockEventPatterns = []struct {
	name     string
	typ      string
	category string
	duration int
	tss      float64
	priority string
}{
	{"Threshold Intervals", "workout", "WORKOUT", 3600, 75, ""},
	{"Endurance Ride", "workout", "WORKOUT", 5400, 70, ""},
	{"Rest Day", "rest_day", "NOTE", 0, 0, ""},
	{"Tune-up Race", "race", "RACE", 2700, 90, "B"},
}

func (s *mockSource) Events(_ context.Context, oldest, newest string) ([]icu.CalendarEvent, error) {
	oldestDay := mustParseDay(oldest)
	newestDay := mustParseDay(newest)

	var events []icu.CalendarEvent
	day := oldestDay.AddDate(0, 0, 1)
	for i := 0; i < len(mockEventPatterns) && !day.After(newestDay); i++ {
		p := mockEventPatterns[i]
		event := icu.CalendarEvent{
			ID:        int64(9001 + i),
			Name:      p.name,
			Type:      p.typ,
			StartDate: day.Format(dayLayout),
		}
		category := p.category
		event.Category = &category
		if p.duration > 0 {
			duration := p.duration
			event.PlannedDuration = &duration
		}
		if p.tss > 0 {
			tss := p.tss
			event.PlannedTSS = &tss
		}
		if p.priority != "" {
			priority := p.priority
			event.Priority = &priority
		}
		events = append(events, event)
		day = day.AddDate(0, 0, 3)
	}
	return events, nil
}
