package auth

import (
	"testing"
	"time"

	"fieldforce/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 168 * time.Hour,
		Issuer:        "fieldforce-test",
	}
}

func TestAccessTokenRoundtrip(t *testing.T) {
	cfg := testJWTConfig()
	token, err := GenerateAccessToken(cfg, 42, "worker@example.com", "EMPLOYEE")
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "worker@example.com", claims.Email)
	assert.Equal(t, "EMPLOYEE", claims.Role)
	assert.Equal(t, "fieldforce-test", claims.Issuer)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	token, err := GenerateAccessToken(cfg, 1, "a@b.com", "ADMIN")
	require.NoError(t, err)

	other := testJWTConfig()
	other.AccessSecret = "different"
	_, err = ParseAccessToken(other, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	refresh, err := GenerateRefreshToken(cfg, 7)
	require.NoError(t, err)

	// Signed with the refresh secret, so access parsing must reject it.
	_, err = ParseAccessToken(cfg, refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseGarbage(t *testing.T) {
	_, err := ParseAccessToken(testJWTConfig(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
