package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HTTPVerifier validates tokens against the identity provider's userinfo
// endpoint. Verified identities are cached with stale-while-revalidate so
// the provider is off the hot path after the first lookup per token.
type HTTPVerifier struct {
	endpoint   string
	httpClient *http.Client
	cache      *IdentityCache
	logger     *zap.Logger
}

// HTTPVerifierConfig configures the HTTPVerifier.
type HTTPVerifierConfig struct {
	Endpoint string
	CacheTTL time.Duration // Default: 30s
	Logger   *zap.Logger
}

// NewHTTPVerifier creates a verifier backed by the identity provider.
func NewHTTPVerifier(cfg HTTPVerifierConfig) *HTTPVerifier {
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 30 * time.Second
	}
	return &HTTPVerifier{
		endpoint:   cfg.Endpoint,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		cache:      NewIdentityCache(ttl),
		logger:     cfg.Logger,
	}
}

// Verify validates the token.
//
// Flow:
//  1. Cache lookup (stale-while-revalidate):
//     - Fresh hit: return immediately
//     - Stale hit: return stale identity, spawn background refresh
//     - Miss: call the identity provider synchronously
//  2. Provider 401/403 means a bad token; other failures surface as
//     ErrAuthUnavailable so the gateway can answer 503 rather than 401.
func (v *HTTPVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	result := v.cache.Get(token)
	if result.Hit {
		if result.NeedsRefresh {
			go v.backgroundRefresh(token)
		}
		return result.Identity, nil
	}

	identity, err := v.lookup(ctx, token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return nil, ErrInvalidToken
		}
		v.logger.Warn("identity provider unreachable", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrAuthUnavailable, err)
	}

	v.cache.Set(token, identity)
	return identity, nil
}

// backgroundRefresh re-verifies the token off the request path. Errors are
// logged but don't affect the caller, who already got the stale value.
func (v *HTTPVerifier) backgroundRefresh(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	identity, err := v.lookup(ctx, token)
	if err != nil {
		v.logger.Warn("background identity refresh failed", zap.Error(err))
		// Drop the entry so the next stale read retries synchronously.
		v.cache.Delete(token)
		return
	}

	v.cache.Set(token, identity)
}

func (v *HTTPVerifier) lookup(ctx context.Context, token string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("lookup: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrInvalidToken
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("lookup: identity provider returned %d", resp.StatusCode)
	}

	var body struct {
		Sub string `json:"sub"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("lookup: decode userinfo: %w", err)
	}
	if body.Sub == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{Subject: body.Sub}, nil
}
