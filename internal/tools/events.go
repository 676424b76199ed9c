package tools

import (
	"context"

	"github.com/stridelabs/coach-gateway/internal/icu"
)

const (
	eventsDefaultBack    = 7
	eventsDefaultForward = 30
)

// GetEventsTool implements get_events: calendar events (planned workouts,
// races, notes) in a date range.
type GetEventsTool struct {
	base
	creds  CredentialResolver
	client *icu.Client
}

func NewGetEventsTool(creds CredentialResolver, client *icu.Client) *GetEventsTool {
	return &GetEventsTool{
		base: newBase(Definition{
			Name:        "get_events",
			Description: "Get the athlete's calendar events (planned workouts, races, rest days, notes) in a date range.",
			Properties: map[string]Property{
				"oldest":   {Type: "string", Description: "Start of the date range, YYYY-MM-DD. Defaults to 7 days ago."},
				"newest":   {Type: "string", Description: "End of the date range, YYYY-MM-DD. Defaults to 30 days ahead."},
				"types":    {Type: "array", Description: "Filter to these event types.", Items: &Property{Type: "string"}},
				"category": {Type: "string", Description: "Filter to one event category."},
			},
		}),
		creds:  creds,
		client: client,
	}
}

func (t *GetEventsTool) Handle(ctx context.Context, athleteID string, input map[string]any) Result {
	if res := t.validateInput(input); res != nil {
		return *res
	}
	rng, res := resolveDateRange(input, eventsDefaultBack, eventsDefaultForward)
	if res != nil {
		return *res
	}

	var types []string
	if _, present := input["types"]; present {
		rawTypes, ok := stringListArg(input, "types")
		if !ok {
			return Fail(CodeInvalidInput, "types must be a list of event types")
		}
		for _, raw := range rawTypes {
			normalized, failure := validateEventType(raw)
			if failure != nil {
				return *failure
			}
			types = append(types, normalized)
		}
	}
	category, _ := stringArg(input, "category")

	source, err := selectSource(ctx, t.creds, t.client, athleteID)
	if err != nil {
		return failureFrom(err, "GET_EVENTS_ERROR")
	}

	events, err := source.Events(ctx, rng.Oldest, rng.Newest)
	if err != nil {
		return failureFrom(err, "GET_EVENTS_ERROR")
	}
	events = filterEvents(events, types, category)

	return OK(map[string]any{
		"source": source.Source(),
		"oldest": rng.Oldest,
		"newest": rng.Newest,
		"count":  len(events),
		"events": events,
	})
}

// collectEventFields validates the writable event fields present in input
// and returns them as a canonical field map ready for the API boundary.
// Validation short-circuits on the first failure; nothing here performs I/O.
func collectEventFields(input map[string]any) (map[string]any, *Result) {
	fields := make(map[string]any)

	if name, ok := stringArg(input, "name"); ok {
		fields["name"] = name
	}
	if rawType, ok := stringArg(input, "type"); ok {
		normalized, failure := validateEventType(rawType)
		if failure != nil {
			return nil, failure
		}
		fields["type"] = normalized
	}
	for _, dateField := range []string{"start_date", "end_date"} {
		if value, ok := stringArg(input, dateField); ok {
			if failure := validateDateField(value, dateField, false); failure != nil {
				return nil, failure
			}
			fields[dateField] = value
		}
	}
	for _, textField := range []string{"description", "category"} {
		if value, ok := stringArg(input, textField); ok {
			fields[textField] = value
		}
	}
	numericFields := []struct {
		name string
		unit string
	}{
		{"planned_duration", "seconds"},
		{"planned_tss", ""},
		{"planned_distance", "meters"},
	}
	for _, nf := range numericFields {
		if value, ok := numberArg(input, nf.name); ok {
			if failure := validateNonNegative(value, nf.name, nf.unit); failure != nil {
				return nil, failure
			}
			fields[nf.name] = value
		}
	}
	if indoor, ok := boolArg(input, "indoor"); ok {
		fields["indoor"] = indoor
	}
	if priority, ok := stringArg(input, "priority"); ok {
		if failure := validatePriority(priority); failure != nil {
			return nil, failure
		}
		fields["priority"] = priority
	}

	return fields, nil
}

// eventWriteProperties is the shared schema for the writable event fields.
func eventWriteProperties() map[string]Property {
	return map[string]Property{
		"name":             {Type: "string", Description: "Event name."},
		"type":             {Type: "string", Description: "Event type.", Enum: icu.EventTypes},
		"start_date":       {Type: "string", Description: "Event date, YYYY-MM-DD or ISO date-time."},
		"end_date":         {Type: "string", Description: "End date for multi-day events."},
		"description":      {Type: "string", Description: "Workout details or notes."},
		"category":         {Type: "string", Description: "Event category."},
		"planned_duration": {Type: "number", Description: "Planned duration in seconds."},
		"planned_tss":      {Type: "number", Description: "Planned training stress score."},
		"planned_distance": {Type: "number", Description: "Planned distance in meters."},
		"indoor":           {Type: "boolean", Description: "Whether the session is indoors."},
		"priority":         {Type: "string", Description: "Race priority.", Enum: icu.Priorities},
	}
}

// CreateEventTool implements create_event. Writes require credentials:
// writing to mock data would silently lose the athlete's intent.
type CreateEventTool struct {
	base
	creds  CredentialResolver
	client *icu.Client
}

func NewCreateEventTool(creds CredentialResolver, client *icu.Client) *CreateEventTool {
	return &CreateEventTool{
		base: newBase(Definition{
			Name:        "create_event",
			Description: "Create a calendar event (planned workout, race, rest day or note) on the athlete's Intervals.icu calendar.",
			Properties:  eventWriteProperties(),
			Required:    []string{"name", "type", "start_date"},
		}),
		creds:  creds,
		client: client,
	}
}

func (t *CreateEventTool) Handle(ctx context.Context, athleteID string, input map[string]any) Result {
	if res := t.validateInput(input); res != nil {
		return *res
	}
	fields, failure := collectEventFields(input)
	if failure != nil {
		return *failure
	}
	if startDate, _ := fields["start_date"].(string); startDate == "" {
		return Fail(CodeInvalidDate, "start_date is required")
	}

	creds, err := t.creds.Resolve(ctx, athleteID)
	if err != nil {
		return failureFrom(err, "CREATE_EVENT_ERROR")
	}
	if creds == nil {
		return Fail(CodeNoCredentials, "No Intervals.icu account is connected; connect one before creating events")
	}

	event, err := t.client.CreateEvent(ctx, creds, fields)
	if err != nil {
		return failureFrom(err, "CREATE_EVENT_ERROR")
	}
	return OK(map[string]any{
		"source": sourceLive,
		"event":  event,
	})
}

// UpdateEventTool implements update_event. Input is validated before
// credentials are resolved, so malformed requests never touch storage.
type UpdateEventTool struct {
	base
	creds  CredentialResolver
	client *icu.Client
}

func NewUpdateEventTool(creds CredentialResolver, client *icu.Client) *UpdateEventTool {
	properties := eventWriteProperties()
	properties["event_id"] = Property{Type: "string", Description: "Numeric id of the event to update."}
	return &UpdateEventTool{
		base: newBase(Definition{
			Name:        "update_event",
			Description: "Update fields of an existing calendar event on the athlete's Intervals.icu calendar.",
			Properties:  properties,
			Required:    []string{"event_id"},
		}),
		creds:  creds,
		client: client,
	}
}

func (t *UpdateEventTool) Handle(ctx context.Context, athleteID string, input map[string]any) Result {
	if res := t.validateInput(input); res != nil {
		return *res
	}
	eventID, _ := stringArg(input, "event_id")
	if failure := validateEventID(eventID); failure != nil {
		return *failure
	}
	fields, failure := collectEventFields(input)
	if failure != nil {
		return *failure
	}
	if len(fields) == 0 {
		return Fail(CodeInvalidInput, "at least one field to update is required")
	}

	creds, err := t.creds.Resolve(ctx, athleteID)
	if err != nil {
		return failureFrom(err, "UPDATE_EVENT_ERROR")
	}
	if creds == nil {
		return Fail(CodeNoCredentials, "No Intervals.icu account is connected; connect one before updating events")
	}

	event, err := t.client.UpdateEvent(ctx, creds, eventID, fields)
	if err != nil {
		return failureFrom(err, "UPDATE_EVENT_ERROR")
	}
	return OK(map[string]any{
		"source": sourceLive,
		"event":  event,
	})
}
