package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

// StaticVerifier is a development-only verifier: a single bcrypt-hashed
// token mapped to a fixed subject. Only the hash is held in memory, so the
// plaintext token never appears in config dumps or logs.
type StaticVerifier struct {
	tokenHash []byte
	subject   string
}

// NewStaticVerifier creates a verifier for one pre-hashed dev token.
func NewStaticVerifier(tokenHash, subject string) *StaticVerifier {
	return &StaticVerifier{tokenHash: []byte(tokenHash), subject: subject}
}

func (v *StaticVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	if err := bcrypt.CompareHashAndPassword(v.tokenHash, []byte(token)); err != nil {
		return nil, ErrInvalidToken
	}
	return &Identity{Subject: v.subject}, nil
}
