package tools

import (
	"context"
	"math"

	"github.com/stridelabs/coach-gateway/internal/plans"
)

// PlanTool implements generate_plan: it delegates to the plan-creation
// service and returns only the compact summary, keeping the response small
// for the calling agent.
type PlanTool struct {
	base
	creator plans.Creator
}

func NewPlanTool(creator plans.Creator) *PlanTool {
	return &PlanTool{
		base: newBase(Definition{
			Name:        "generate_plan",
			Description: "Generate and save a periodized multi-week training plan for the athlete, optionally targeting one of their goals.",
			Properties: map[string]Property{
				"goal_id":     {Type: "string", Description: "Goal to target; the plan length defaults to the weeks until its target date."},
				"start_date":  {Type: "string", Description: "Plan start date, YYYY-MM-DD. Defaults to today."},
				"total_weeks": {Type: "number", Description: "Plan length in weeks, 4-52."},
			},
		}),
		creator: creator,
	}
}

func (t *PlanTool) Handle(ctx context.Context, athleteID string, input map[string]any) Result {
	if res := t.validateInput(input); res != nil {
		return *res
	}

	req := plans.CreateRequest{}
	req.GoalID, _ = stringArg(input, "goal_id")
	if startDate, ok := stringArg(input, "start_date"); ok {
		if failure := validateDateField(startDate, "start_date", false); failure != nil {
			return *failure
		}
		// Plans are sized in whole days; a date-time start is ambiguous.
		if len(startDate) > len(dayLayout) {
			return Fail(CodeInvalidDate, "start_date must be a YYYY-MM-DD date")
		}
		req.StartDate = startDate
	}
	if raw, ok := numberArg(input, "total_weeks"); ok {
		if failure := validateNonNegative(raw, "total_weeks", ""); failure != nil {
			return *failure
		}
		weeks := int(math.Round(raw))
		req.TotalWeeks = &weeks
	}

	summary, err := t.creator.CreatePlan(ctx, athleteID, req)
	if err != nil {
		return failureFrom(err, "GENERATE_PLAN_ERROR")
	}
	return OK(map[string]any{
		"plan": summary,
	})
}
