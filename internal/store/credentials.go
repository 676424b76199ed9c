package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stridelabs/coach-gateway/internal/vault"
)

// CredentialRow reads one athlete's encrypted Intervals.icu credentials.
// Returns (nil, nil) when the athlete has not connected an account; any
// other store failure propagates as an error. Writes happen in the sibling
// credential-management endpoint, never here.
func (s *Store) CredentialRow(ctx context.Context, athleteID string) (*vault.CredentialRow, error) {
	var row vault.CredentialRow
	err := s.db.QueryRowContext(ctx, `
		SELECT external_athlete_id, encrypted_api_key
		FROM intervals_credentials WHERE athlete_id = $1`, athleteID,
	).Scan(&row.ExternalAthleteID, &row.EncryptedAPIKey)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("CredentialRow: %w", err)
	}
	return &row, nil
}
