// Package plans is the plan-creation service behind generate_plan: it runs
// the periodization engine, persists the resulting training plan, and
// returns the compact summary exposed to the calling agent.
package plans

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stridelabs/coach-gateway/internal/periodization"
	"go.uber.org/zap"
)

// timeNow is overridable in tests.
var timeNow = time.Now

// CreateRequest carries the generate_plan delegation input.
type CreateRequest struct {
	GoalID     string
	StartDate  string // YYYY-MM-DD, defaults to today
	TotalWeeks *int
}

// PhaseSummary is the compact phase shape included in a Summary.
type PhaseSummary struct {
	Name  string `json:"name"`
	Weeks int    `json:"weeks"`
	Focus string `json:"focus"`
}

// Summary is what generate_plan returns to the agent: identifying fields
// and the phase list, never the full periodization payload.
type Summary struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	StartDate  string         `json:"start_date"`
	EndDate    string         `json:"end_date"`
	TotalWeeks int            `json:"total_weeks"`
	Status     string         `json:"status"`
	GoalID     *string        `json:"goal_id"`
	Phases     []PhaseSummary `json:"phases"`
}

// Creator is the capability the generate_plan tool depends on.
type Creator interface {
	CreatePlan(ctx context.Context, athleteID string, req CreateRequest) (*Summary, error)
}

// Store abstracts goal reads and plan writes for testability.
type Store interface {
	// GoalByID returns the athlete's goal, or nil when no such goal exists.
	GoalByID(ctx context.Context, athleteID, goalID string) (*periodization.Goal, error)
	InsertTrainingPlan(ctx context.Context, id string, payload *periodization.PlanPayload) error
}

// Service creates and persists training plans. Each plan is assembled fresh
// per invocation; no plan state is held across requests.
type Service struct {
	store  Store
	logger *zap.Logger
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// CreatePlan resolves the goal context, sizes the plan, computes the
// periodization structure, persists the payload and returns its summary.
func (s *Service) CreatePlan(ctx context.Context, athleteID string, req CreateRequest) (*Summary, error) {
	start := req.StartDate
	if start == "" {
		start = timeNow().UTC().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", start); err != nil {
		return nil, fmt.Errorf("CreatePlan: invalid start date %q", start)
	}

	var goal *periodization.Goal
	if req.GoalID != "" {
		g, err := s.store.GoalByID(ctx, athleteID, req.GoalID)
		if err != nil {
			return nil, fmt.Errorf("CreatePlan: %w", err)
		}
		if g == nil {
			return nil, fmt.Errorf("CreatePlan: goal %s not found", req.GoalID)
		}
		goal = g
	}

	totalWeeks := periodization.ResolveTotalWeeks(req.TotalWeeks, start, goal)
	phases := periodization.PhaseBreakdown(totalWeeks)
	plan := periodization.Plan{
		TotalWeeks:    totalWeeks,
		Phases:        phases,
		WeeklyVolumes: periodization.WeeklyVolumes(phases),
	}

	payload, err := periodization.BuildPlanPayload(athleteID, goal, start, totalWeeks, plan)
	if err != nil {
		return nil, fmt.Errorf("CreatePlan: %w", err)
	}

	id := uuid.New().String()
	if err := s.store.InsertTrainingPlan(ctx, id, payload); err != nil {
		return nil, fmt.Errorf("CreatePlan: %w", err)
	}

	s.logger.Info("training plan created",
		zap.String("plan_id", id),
		zap.String("athlete_id", athleteID),
		zap.Int("total_weeks", totalWeeks),
	)

	phaseSummaries := make([]PhaseSummary, len(phases))
	for i, p := range phases {
		phaseSummaries[i] = PhaseSummary{Name: p.Name, Weeks: p.Weeks, Focus: p.Focus}
	}
	return &Summary{
		ID:         id,
		Name:       payload.Name,
		StartDate:  payload.StartDate,
		EndDate:    payload.EndDate,
		TotalWeeks: totalWeeks,
		Status:     payload.Status,
		GoalID:     payload.GoalID,
		Phases:     phaseSummaries,
	}, nil
}
