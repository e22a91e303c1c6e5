package jwtmw

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		userID    uint
		sessionID string
	}{
		{"basic user", 1, "abc123"},
		{"large user id", 999999, "f00d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := NewGenerator("test-secret")
			token, err := gen.GenerateToken(tt.userID, tt.sessionID, time.Now().Add(time.Hour))
			require.NoError(t, err)

			userID, sessionID, err := gen.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, userID)
			assert.Equal(t, tt.sessionID, sessionID)
		})
	}
}

func TestGenerator_ParseToken_Rejects(t *testing.T) {
	t.Parallel()

	gen := NewGenerator("test-secret")
	expired, err := gen.GenerateToken(1, "sid", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	otherSecret, err := NewGenerator("other-secret").GenerateToken(1, "sid", time.Now().Add(time.Hour))
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "1", "sid": "sid", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSession, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice", "sid": "sid", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1", "sid": "sid",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"expired", expired},
		{"wrong secret", otherSecret},
		{"alg none", noneToken},
		{"missing session id", noSession},
		{"non-numeric subject", badSubject},
		{"missing expiry", noExpiry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := gen.ParseToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv(EnvKeyJWTSecret, "s3cret")
	t.Setenv(EnvKeySessionTTL, "2h")
	t.Setenv(EnvKeyCookieSecure, "true")

	cfg := LoadConfig()

	assert.Equal(t, "s3cret", cfg.Secret)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.CookieSecure)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv(EnvKeyJWTSecret, "")
	t.Setenv(EnvKeySessionTTL, "bogus")
	t.Setenv(EnvKeyCookieSecure, "")

	cfg := LoadConfig()

	assert.Len(t, cfg.Secret, 64, "an ephemeral secret is generated")
	assert.Equal(t, defaultSessionTTL, cfg.SessionTTL)
	assert.False(t, cfg.CookieSecure)
}
