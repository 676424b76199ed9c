package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stridelabs/coach-gateway/internal/periodization"
)

// GoalByID reads one of the athlete's goals, or nil when no such goal
// exists for this athlete.
func (s *Store) GoalByID(ctx context.Context, athleteID, goalID string) (*periodization.Goal, error) {
	var g periodization.Goal
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, COALESCE(event_name, ''), COALESCE(target_date::text, '')
		FROM goals WHERE id = $1 AND athlete_id = $2`, goalID, athleteID,
	).Scan(&g.ID, &g.Title, &g.EventName, &g.TargetDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GoalByID: %w", err)
	}
	return &g, nil
}
