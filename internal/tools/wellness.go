package tools

import (
	"context"

	"github.com/stridelabs/coach-gateway/internal/icu"
)

const wellnessDefaultBack = 30

// WellnessTool implements get_wellness_data: daily fitness/fatigue/recovery
// metrics (CTL, ATL, resting HR, HRV, sleep) in a date range.
type WellnessTool struct {
	base
	creds  CredentialResolver
	client *icu.Client
}

func NewWellnessTool(creds CredentialResolver, client *icu.Client) *WellnessTool {
	return &WellnessTool{
		base: newBase(Definition{
			Name:        "get_wellness_data",
			Description: "Get the athlete's daily wellness metrics: fitness (CTL), fatigue (ATL), resting heart rate, HRV, sleep and weight.",
			Properties: map[string]Property{
				"oldest": {Type: "string", Description: "Start of the date range, YYYY-MM-DD. Defaults to 30 days ago."},
				"newest": {Type: "string", Description: "End of the date range, YYYY-MM-DD. Defaults to today."},
			},
		}),
		creds:  creds,
		client: client,
	}
}

func (t *WellnessTool) Handle(ctx context.Context, athleteID string, input map[string]any) Result {
	if res := t.validateInput(input); res != nil {
		return *res
	}
	rng, res := resolveDateRange(input, wellnessDefaultBack, 0)
	if res != nil {
		return *res
	}

	source, err := selectSource(ctx, t.creds, t.client, athleteID)
	if err != nil {
		return failureFrom(err, "GET_WELLNESS_ERROR")
	}

	records, err := source.Wellness(ctx, rng.Oldest, rng.Newest)
	if err != nil {
		return failureFrom(err, "GET_WELLNESS_ERROR")
	}

	return OK(map[string]any{
		"source":   source.Source(),
		"oldest":   rng.Oldest,
		"newest":   rng.Newest,
		"count":    len(records),
		"wellness": records,
	})
}
