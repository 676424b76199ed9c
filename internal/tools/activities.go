package tools

import (
	"context"
	"math"

	"github.com/stridelabs/coach-gateway/internal/icu"
)

const (
	activitiesDefaultBack  = 30
	activitiesDefaultLimit = 20
	activitiesMaxLimit     = 100
)

// ActivitiesTool implements get_activities: completed activities in a date
// range, optionally filtered by sport type.
type ActivitiesTool struct {
	base
	creds  CredentialResolver
	client *icu.Client
}

func NewActivitiesTool(creds CredentialResolver, client *icu.Client) *ActivitiesTool {
	return &ActivitiesTool{
		base: newBase(Definition{
			Name:        "get_activities",
			Description: "Get the athlete's completed activities (runs, rides, swims) in a date range, with duration, distance, training load and heart rate.",
			Properties: map[string]Property{
				"oldest":        {Type: "string", Description: "Start of the date range, YYYY-MM-DD. Defaults to 30 days ago."},
				"newest":        {Type: "string", Description: "End of the date range, YYYY-MM-DD. Defaults to today."},
				"limit":         {Type: "number", Description: "Maximum number of activities to return. Defaults to 20."},
				"activity_type": {Type: "string", Description: "Filter to one sport type, e.g. Run or Ride."},
			},
		}),
		creds:  creds,
		client: client,
	}
}

func (t *ActivitiesTool) Handle(ctx context.Context, athleteID string, input map[string]any) Result {
	if res := t.validateInput(input); res != nil {
		return *res
	}
	rng, res := resolveDateRange(input, activitiesDefaultBack, 0)
	if res != nil {
		return *res
	}

	limit := activitiesDefaultLimit
	if raw, ok := numberArg(input, "limit"); ok {
		if failure := validateNonNegative(raw, "limit", ""); failure != nil {
			return *failure
		}
		limit = int(math.Round(raw))
		if limit < 1 {
			limit = 1
		}
		if limit > activitiesMaxLimit {
			limit = activitiesMaxLimit
		}
	}
	activityType, _ := stringArg(input, "activity_type")

	source, err := selectSource(ctx, t.creds, t.client, athleteID)
	if err != nil {
		return failureFrom(err, "GET_ACTIVITIES_ERROR")
	}

	activities, err := source.Activities(ctx, rng.Oldest, rng.Newest)
	if err != nil {
		return failureFrom(err, "GET_ACTIVITIES_ERROR")
	}
	activities = filterActivities(activities, activityType, limit)

	return OK(map[string]any{
		"source":     source.Source(),
		"oldest":     rng.Oldest,
		"newest":     rng.Newest,
		"count":      len(activities),
		"activities": activities,
	})
}
