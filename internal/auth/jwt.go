package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the payload of an access token. UserID mirrors Subject under the
// "id" key that API clients read.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

type signingKey struct {
	id     string
	secret []byte
}

// JWTManager issues and verifies HS256 access tokens. The signing key can be
// rotated at runtime; tokens signed with the previous key stay valid until
// they expire.
type JWTManager struct {
	mu       sync.RWMutex
	current  signingKey
	previous *signingKey

	expiry time.Duration
	issuer string
	now    func() time.Time
}

// Option configures a JWTManager.
type Option func(*JWTManager)

// WithClock replaces time.Now for both issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(m *JWTManager) {
		m.now = now
	}
}

// NewJWTManager derives the signing key from secret and returns a manager that
// issues tokens valid for expiry.
func NewJWTManager(secret string, expiry time.Duration, issuer string, opts ...Option) (*JWTManager, error) {
	key, err := newSigningKey(secret)
	if err != nil {
		return nil, err
	}

	m := &JWTManager{
		current: key,
		expiry:  expiry,
		issuer:  issuer,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func newSigningKey(secret string) (signingKey, error) {
	derived, err := DeriveAccessTokenKey([]byte(secret))
	if err != nil {
		return signingKey{}, err
	}
	sum := sha256.Sum256(derived)
	return signingKey{id: hex.EncodeToString(sum[:8]), secret: derived}, nil
}

// Rotate installs a key derived from secret as the signing key. The key it
// replaces is kept for verification only; older keys are dropped.
func (m *JWTManager) Rotate(secret string) error {
	key, err := newSigningKey(secret)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if key.id == m.current.id {
		return nil
	}
	previous := m.current
	m.previous = &previous
	m.current = key
	return nil
}

// Expiry returns the lifetime of issued tokens.
func (m *JWTManager) Expiry() time.Duration {
	return m.expiry
}

// Issue returns a signed token for userID expiring exactly m.expiry from now.
// JWT dates carry whole seconds, so now is truncated before both are set.
func (m *JWTManager) Issue(userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", ErrInvalidToken
	}

	m.mu.RLock()
	key := m.current
	m.mu.RUnlock()

	now := m.now().Truncate(time.Second)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = key.id
	return token.SignedString(key.secret)
}

// Verify checks signature, issuer and expiry and returns the claims.
func (m *JWTManager) Verify(tokenString string) (*Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrMissingToken
	}

	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(m.issuer))
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, m.keyFunc, parserOptions...)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" || claims.UserID != claims.Subject {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *JWTManager) keyFunc(token *jwt.Token) (interface{}, error) {
	kid, _ := token.Header["kid"].(string)

	m.mu.RLock()
	defer m.mu.RUnlock()

	switch {
	case kid == m.current.id:
		return m.current.secret, nil
	case m.previous != nil && kid == m.previous.id:
		return m.previous.secret, nil
	default:
		return nil, ErrInvalidToken
	}
}

// TokenFromHeader extracts the raw token from an Authorization header value.
// The header normally carries the bare token; a "Bearer " prefix is tolerated.
func TokenFromHeader(authHeader string) (string, error) {
	value := strings.TrimSpace(authHeader)
	if len(value) > 7 && strings.EqualFold(value[:7], "bearer ") {
		value = strings.TrimSpace(value[7:])
	}
	if value == "" {
		return "", ErrMissingToken
	}
	return value, nil
}
