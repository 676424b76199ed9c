package tools

import (
	"context"

	"github.com/stridelabs/coach-gateway/internal/icu"
)

// Source tags carried on every read-tool response.
const (
	sourceLive = "intervals.icu"
	sourceMock = "mock"
)

// DataSource produces the raw lists the read tools filter. Selected once
// per request: live when the athlete has credentials, mock otherwise.
// Filters run on the output of either implementation, so both paths share
// exactly the same filter semantics.
type DataSource interface {
	Source() string
	Activities(ctx context.Context, oldest, newest string) ([]icu.Activity, error)
	Wellness(ctx context.Context, oldest, newest string) ([]icu.Wellness, error)
	Events(ctx context.Context, oldest, newest string) ([]icu.CalendarEvent, error)
}

// CredentialResolver yields an athlete's decrypted credentials, or nil when
// the athlete has not connected an external account.
type CredentialResolver interface {
	Resolve(ctx context.Context, athleteID string) (*icu.Credentials, error)
}

type liveSource struct {
	client *icu.Client
	creds  *icu.Credentials
}

func (s *liveSource) Source() string { return sourceLive }

func (s *liveSource) Activities(ctx context.Context, oldest, newest string) ([]icu.Activity, error) {
	return s.client.Activities(ctx, s.creds, oldest, newest)
}

func (s *liveSource) Wellness(ctx context.Context, oldest, newest string) ([]icu.Wellness, error) {
	return s.client.Wellness(ctx, s.creds, oldest, newest)
}

func (s *liveSource) Events(ctx context.Context, oldest, newest string) ([]icu.CalendarEvent, error) {
	return s.client.Events(ctx, s.creds, oldest, newest)
}

// selectSource resolves credentials and picks the per-request strategy.
// A vault error (store failure, credential corruption) propagates; it is
// never downgraded to the mock path.
func selectSource(ctx context.Context, resolver CredentialResolver, client *icu.Client, athleteID string) (DataSource, error) {
	creds, err := resolver.Resolve(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	if creds == nil {
		return &mockSource{}, nil
	}
	return &liveSource{client: client, creds: creds}, nil
}
