package icu

import "strings"

// eventFieldToAPI maps every canonical CalendarEvent field name to its
// Intervals.icu name. The inverse is derived at init so the mapping is
// guaranteed lossless in both directions.
var eventFieldToAPI = map[string]string{
	"id":               "id",
	"name":             "name",
	"type":             "type",
	"start_date":       "start_date_local",
	"end_date":         "end_date_local",
	"description":      "description",
	"category":         "category",
	"planned_duration": "moving_time",
	"planned_tss":      "icu_training_load",
	"planned_distance": "distance",
	"indoor":           "indoor",
	"priority":         "event_priority",
}

var eventFieldFromAPI = func() map[string]string {
	inverse := make(map[string]string, len(eventFieldToAPI))
	for canonical, api := range eventFieldToAPI {
		if _, dup := inverse[api]; dup {
			panic("icu: event field mapping is not invertible: " + api)
		}
		inverse[api] = canonical
	}
	return inverse
}()

// APIFieldName returns the Intervals.icu name for a canonical event field.
func APIFieldName(canonical string) (string, bool) {
	api, ok := eventFieldToAPI[canonical]
	return api, ok
}

// CanonicalFieldName returns the canonical name for an Intervals.icu event
// field.
func CanonicalFieldName(api string) (string, bool) {
	canonical, ok := eventFieldFromAPI[api]
	return canonical, ok
}

// EventBodyToAPI renames canonical event fields to their API names for a
// POST/PUT body. The type value is uppercased to the API's convention.
// Unknown fields are dropped so the request body stays within the known
// field set.
func EventBodyToAPI(fields map[string]any) map[string]any {
	body := make(map[string]any, len(fields))
	for name, value := range fields {
		apiName, ok := eventFieldToAPI[name]
		if !ok {
			continue
		}
		if name == "type" {
			if s, isString := value.(string); isString {
				value = strings.ToUpper(s)
			}
		}
		body[apiName] = value
	}
	return body
}

// apiEvent is the wire shape of an Intervals.icu calendar event.
type apiEvent struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	StartDate     string   `json:"start_date_local"`
	EndDate       *string  `json:"end_date_local"`
	Description   *string  `json:"description"`
	Category      *string  `json:"category"`
	MovingTime    *int     `json:"moving_time"`
	TrainingLoad  *float64 `json:"icu_training_load"`
	Distance      *float64 `json:"distance"`
	Indoor        *bool    `json:"indoor"`
	EventPriority *string  `json:"event_priority"`
}

func (e *apiEvent) canonical() CalendarEvent {
	return CalendarEvent{
		ID:              e.ID,
		Name:            e.Name,
		Type:            strings.ToLower(e.Type),
		StartDate:       e.StartDate,
		EndDate:         e.EndDate,
		Description:     e.Description,
		Category:        e.Category,
		PlannedDuration: e.MovingTime,
		PlannedTSS:      e.TrainingLoad,
		PlannedDistance: e.Distance,
		Indoor:          e.Indoor,
		Priority:        e.EventPriority,
	}
}

// apiActivity is the wire shape of an Intervals.icu activity.
type apiActivity struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	StartDate    string  `json:"start_date_local"`
	MovingTime   int     `json:"moving_time"`
	Distance     float64 `json:"distance"`
	TrainingLoad float64 `json:"icu_training_load"`
	AverageHR    int     `json:"average_heartrate"`
}

func (a *apiActivity) canonical() Activity {
	return Activity{
		ID:        a.ID,
		Name:      a.Name,
		Type:      a.Type,
		StartDate: a.StartDate,
		Duration:  a.MovingTime,
		Distance:  a.Distance,
		TSS:       a.TrainingLoad,
		AverageHR: a.AverageHR,
	}
}

// apiWellness is the wire shape of an Intervals.icu wellness record. The id
// is the ISO date.
type apiWellness struct {
	ID        string   `json:"id"`
	CTL       *float64 `json:"ctl"`
	ATL       *float64 `json:"atl"`
	RestingHR *int     `json:"restingHR"`
	HRV       *float64 `json:"hrv"`
	SleepSecs *int     `json:"sleepSecs"`
	Weight    *float64 `json:"weight"`
}

func (w *apiWellness) canonical() Wellness {
	return Wellness{
		Date:      w.ID,
		CTL:       w.CTL,
		ATL:       w.ATL,
		RestingHR: w.RestingHR,
		HRV:       w.HRV,
		SleepSecs: w.SleepSecs,
		Weight:    w.Weight,
	}
}
