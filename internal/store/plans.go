package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stridelabs/coach-gateway/internal/periodization"
)

// InsertTrainingPlan persists one generated plan. The periodization
// structure is stored as JSONB alongside the flat summary columns the app's
// CRUD queries read.
func (s *Store) InsertTrainingPlan(ctx context.Context, id string, payload *periodization.PlanPayload) error {
	periodizationJSON, err := json.Marshal(payload.Periodization)
	if err != nil {
		return fmt.Errorf("InsertTrainingPlan: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO training_plans (
			id, athlete_id, goal_id, name, description,
			start_date, end_date, total_weeks, status, periodization
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, payload.AthleteID, payload.GoalID, payload.Name, payload.Description,
		payload.StartDate, payload.EndDate, payload.TotalWeeks, payload.Status, periodizationJSON,
	)
	if err != nil {
		return fmt.Errorf("InsertTrainingPlan: %w", err)
	}
	return nil
}
