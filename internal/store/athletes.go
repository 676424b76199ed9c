package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Athlete is a row in the athletes table.
type Athlete struct {
	ID         string
	AuthUserID string
	Name       string
	CreatedAt  time.Time
}

// AthleteBySubject resolves the identity provider's subject to the linked
// athlete, or nil when no athlete is linked to this identity.
func (s *Store) AthleteBySubject(ctx context.Context, subject string) (*Athlete, error) {
	var a Athlete
	err := s.db.QueryRowContext(ctx, `
		SELECT id, auth_user_id, name, created_at
		FROM athletes WHERE auth_user_id = $1`, subject,
	).Scan(&a.ID, &a.AuthUserID, &a.Name, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("AthleteBySubject: %w", err)
	}
	return &a, nil
}
