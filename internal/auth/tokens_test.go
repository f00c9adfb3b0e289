package auth

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

func newTestTokenService(t *testing.T, accessDuration time.Duration) *TokenService {
	t.Helper()
	keyHex := hex.EncodeToString(make([]byte, 32))
	svc, err := NewTokenService(keyHex, accessDuration, 720*time.Hour)
	require.NoError(t, err)
	return svc
}

func TestNewTokenService_BadKey(t *testing.T) {
	_, err := NewTokenService("too-short", time.Minute, time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService(string(make([]byte, 64)), time.Minute, time.Hour)
	assert.Error(t, err, "non-hex key of the right length must be rejected")
}

func TestAccessToken_RoundTrip(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute)

	user := &domain.User{ID: "usr-abc123", Email: "reader@example.com"}
	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.Contains(t, token, "v4.local.")

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "usr-abc123", claims.UserID)
	assert.Equal(t, "reader@example.com", claims.Email)
	assert.Equal(t, "usr-abc123", claims.Subject)
	assert.NotEmpty(t, claims.TokenID)
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	svc := newTestTokenService(t, -time.Minute)

	user := &domain.User{ID: "usr-abc123", Email: "reader@example.com"}
	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestVerifyAccessToken_WrongKey(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute)

	user := &domain.User{ID: "usr-abc123", Email: "reader@example.com"}
	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	other, err := NewTokenService(hex.EncodeToString(append(make([]byte, 31), 1)), 15*time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestVerifyAccessToken_Garbage(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute)

	_, err := svc.VerifyAccessToken("not-a-token")
	assert.Error(t, err)
}

func TestRefreshToken(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute)

	t1, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	t2, err := svc.GenerateRefreshToken()
	require.NoError(t, err)

	assert.NotEqual(t, t1, t2)
	assert.NotEmpty(t, t1)

	h1 := HashRefreshToken(t1)
	assert.Equal(t, h1, HashRefreshToken(t1), "hash must be deterministic")
	assert.NotEqual(t, h1, HashRefreshToken(t2))
	assert.NotContains(t, h1, t1, "stored hash must not contain the token")
}

func TestLoadOrGenerateKey(t *testing.T) {
	dir := t.TempDir()

	key1, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, key1, 64)

	// Second load returns the persisted key, not a fresh one.
	key2, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)
}
