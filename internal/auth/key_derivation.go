package auth

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// DerivedKeyLength is the length of derived keys in bytes (HMAC-SHA256).
	DerivedKeyLength = 32

	purposeAccessToken = "event-dashboard-access-token-v1"
)

// ErrInvalidMasterSecret is returned when the configured secret is empty.
var ErrInvalidMasterSecret = errors.New("master secret cannot be empty")

// DeriveKey derives a purpose-bound key from masterSecret with HKDF-SHA256.
func DeriveKey(masterSecret []byte, purpose string) ([]byte, error) {
	if len(masterSecret) == 0 {
		return nil, ErrInvalidMasterSecret
	}

	reader := hkdf.New(sha256.New, masterSecret, nil, []byte(purpose))
	key := make([]byte, DerivedKeyLength)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// DeriveAccessTokenKey derives the key used to sign API access tokens.
func DeriveAccessTokenKey(masterSecret []byte) ([]byte, error) {
	return DeriveKey(masterSecret, purposeAccessToken)
}
