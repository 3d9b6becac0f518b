package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(t *testing.T, clock *fakeClock) *JWTManager {
	t.Helper()
	manager, err := NewJWTManager("secret", time.Hour, "issuer", WithClock(clock.Now))
	require.NoError(t, err)
	return manager
}

func TestJWTIssueVerify(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	manager := newTestManager(t, clock)

	token, err := manager.Issue("user-1")
	require.NoError(t, err)

	claims, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "issuer", claims.Issuer)
	assert.Equal(t, clock.t.Add(time.Hour), claims.ExpiresAt.UTC())
}

func TestJWTExpiresAfterOneHour(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	manager := newTestManager(t, clock)

	token, err := manager.Issue("user-1")
	require.NoError(t, err)

	clock.Advance(time.Hour - time.Second)
	_, err = manager.Verify(token)
	require.NoError(t, err)

	clock.Advance(time.Second)
	_, err = manager.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTExpiryIsWholeSeconds(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 750_000_000, time.UTC)}
	manager := newTestManager(t, clock)

	token, err := manager.Issue("user-1")
	require.NoError(t, err)

	claims, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
	assert.Equal(t, time.Date(2026, 1, 1, 13, 0, 0, 0, time.UTC), claims.ExpiresAt.UTC())
}

func TestJWTIssueInvalid(t *testing.T) {
	manager := newTestManager(t, &fakeClock{t: time.Now()})
	_, err := manager.Issue(" ")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTVerifyMissing(t *testing.T) {
	manager := newTestManager(t, &fakeClock{t: time.Now()})
	_, err := manager.Verify("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestJWTVerifyRejectsForeignTokens(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	manager := newTestManager(t, clock)

	other, err := NewJWTManager("another-secret", time.Hour, "issuer", WithClock(clock.Now))
	require.NoError(t, err)
	foreign, err := other.Issue("user-1")
	require.NoError(t, err)

	wrongIssuer, err := NewJWTManager("secret", time.Hour, "someone-else", WithClock(clock.Now))
	require.NoError(t, err)
	misissued, err := wrongIssuer.Issue("user-1")
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": "user-1", "sub": "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"other secret": foreign,
		"wrong issuer": misissued,
		"alg none":     unsigned,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := manager.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestJWTRotate(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	manager := newTestManager(t, clock)

	first, err := manager.Issue("user-1")
	require.NoError(t, err)

	require.NoError(t, manager.Rotate("secret-2"))
	second, err := manager.Issue("user-1")
	require.NoError(t, err)

	_, err = manager.Verify(first)
	require.NoError(t, err, "previous key still verifies after one rotation")
	_, err = manager.Verify(second)
	require.NoError(t, err)

	require.NoError(t, manager.Rotate("secret-3"))
	_, err = manager.Verify(first)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = manager.Verify(second)
	assert.NoError(t, err)

	assert.ErrorIs(t, manager.Rotate(""), ErrInvalidMasterSecret)
}

func TestTokenFromHeader(t *testing.T) {
	_, err := TokenFromHeader("")
	assert.ErrorIs(t, err, ErrMissingToken)
	_, err = TokenFromHeader("   ")
	assert.ErrorIs(t, err, ErrMissingToken)

	// A lone scheme word is a present but bogus token.
	token, err := TokenFromHeader("Bearer ")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token)

	token, err = TokenFromHeader("raw.token.value")
	require.NoError(t, err)
	assert.Equal(t, "raw.token.value", token)

	token, err = TokenFromHeader("bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
}

func TestDeriveKey(t *testing.T) {
	a, err := DeriveKey([]byte("master"), "one")
	require.NoError(t, err)
	b, err := DeriveKey([]byte("master"), "two")
	require.NoError(t, err)

	assert.Len(t, a, DerivedKeyLength)
	assert.NotEqual(t, a, b)

	_, err = DeriveKey(nil, "one")
	assert.ErrorIs(t, err, ErrInvalidMasterSecret)
}
