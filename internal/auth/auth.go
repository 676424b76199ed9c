package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrMissingToken    = errors.New("missing authorization header")
	ErrInvalidToken    = errors.New("invalid credential")
	ErrAuthUnavailable = errors.New("identity provider unavailable")
)

// Identity is the verified caller. Subject is the identity provider's stable
// user ID; the gateway maps it to an athlete row separately.
type Identity struct {
	Subject string
}

// Verifier validates a bearer credential and returns the caller's identity.
// The credential value itself must never be logged or echoed back.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// ExtractBearerToken pulls the credential out of the Authorization header.
// RFC 6750: the "Bearer" scheme is case-insensitive.
func ExtractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}
	token := header
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		token = token[7:]
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
