package icu

// Credentials is the decrypted Intervals.icu connection for one athlete.
// It exists only transiently in memory during a single request and must
// never be logged or echoed back to the caller.
type Credentials struct {
	ExternalAthleteID string
	APIKey            string
}

// Activity is the canonical activity shape exposed to callers.
type Activity struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	StartDate string  `json:"start_date"`
	Duration  int     `json:"duration,omitempty"`
	Distance  float64 `json:"distance,omitempty"`
	TSS       float64 `json:"tss,omitempty"`
	AverageHR int     `json:"average_hr,omitempty"`
}

// Wellness is the canonical daily wellness shape exposed to callers.
// CTL/ATL/TSB are passed through from the platform, never computed here.
type Wellness struct {
	Date      string   `json:"date"`
	CTL       *float64 `json:"ctl,omitempty"`
	ATL       *float64 `json:"atl,omitempty"`
	RestingHR *int     `json:"resting_hr,omitempty"`
	HRV       *float64 `json:"hrv,omitempty"`
	SleepSecs *int     `json:"sleep_secs,omitempty"`
	Weight    *float64 `json:"weight,omitempty"`
}

// CalendarEvent is the canonical calendar event shape exposed to callers.
// Type is one of the lowercase forms of EventTypes.
type CalendarEvent struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	StartDate       string   `json:"start_date"`
	EndDate         *string  `json:"end_date,omitempty"`
	Description     *string  `json:"description,omitempty"`
	Category        *string  `json:"category,omitempty"`
	PlannedDuration *int     `json:"planned_duration,omitempty"`
	PlannedTSS      *float64 `json:"planned_tss,omitempty"`
	PlannedDistance *float64 `json:"planned_distance,omitempty"`
	Indoor          *bool    `json:"indoor,omitempty"`
	Priority        *string  `json:"priority,omitempty"`
}

// EventTypes is the closed set of calendar event types, canonical
// (lowercase) form.
var EventTypes = []string{"workout", "race", "note", "rest_day", "travel"}

// Priorities is the closed set of race priorities.
var Priorities = []string{"A", "B", "C"}
