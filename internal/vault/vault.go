// Package vault resolves and decrypts per-athlete Intervals.icu credentials.
// API keys are stored as AES-256-GCM ciphertext with a fresh 96-bit nonce
// prepended on every encryption; the key is injected via configuration.
package vault

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"github.com/stridelabs/coach-gateway/internal/icu"
)

// CredentialRow is the persisted credential record for one athlete.
type CredentialRow struct {
	ExternalAthleteID string
	EncryptedAPIKey   []byte // nonce || ciphertext
}

// CredentialStore abstracts the credentials table for testability.
// Implementations return (nil, nil) when no row exists for the athlete.
type CredentialStore interface {
	CredentialRow(ctx context.Context, athleteID string) (*CredentialRow, error)
}

// Vault decrypts stored credentials on demand. Decrypted keys exist only
// transiently in memory during a single request.
type Vault struct {
	aead  cipher.AEAD
	store CredentialStore
}

// New creates a Vault. The key must be 32 bytes (AES-256).
func New(key []byte, store CredentialStore) (*Vault, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("vault.New: key must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("vault.New: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("vault.New: %w", err)
	}
	return &Vault{aead: aead, store: store}, nil
}

// Resolve returns the athlete's decrypted credentials, or (nil, nil) when
// the athlete has not connected an Intervals.icu account. A decryption
// failure is a hard error: credential corruption must never be mistaken for
// "not connected".
func (v *Vault) Resolve(ctx context.Context, athleteID string) (*icu.Credentials, error) {
	row, err := v.store.CredentialRow(ctx, athleteID)
	if err != nil {
		return nil, fmt.Errorf("Resolve: %w", err)
	}
	if row == nil {
		return nil, nil
	}

	apiKey, err := v.decrypt(row.EncryptedAPIKey)
	if err != nil {
		return nil, fmt.Errorf("Resolve: athlete %s: %w", athleteID, err)
	}
	return &icu.Credentials{
		ExternalAthleteID: row.ExternalAthleteID,
		APIKey:            apiKey,
	}, nil
}

// Encrypt seals a plaintext API key with a fresh random nonce. The returned
// blob (nonce || ciphertext) is the persisted value. The write path lives in
// the credential-management endpoint; the cipher is owned here so both
// directions share one implementation.
func (v *Vault) Encrypt(plaintext string) ([]byte, error) {
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("Encrypt: %w", err)
	}
	return v.aead.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

func (v *Vault) decrypt(blob []byte) (string, error) {
	if len(blob) < v.aead.NonceSize() {
		return "", fmt.Errorf("decrypt: ciphertext too short")
	}
	nonce, ciphertext := blob[:v.aead.NonceSize()], blob[v.aead.NonceSize():]
	plaintext, err := v.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}
	return string(plaintext), nil
}
