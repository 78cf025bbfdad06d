package jwtinfra

import (
	"testing"
	"time"

	"github.com/campus-connect-api/internal/config"
	"github.com/campus-connect-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		AccessTokenSecret:  "access-secret-for-tests",
		RefreshTokenSecret: "refresh-secret-for-tests",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 30 * 24 * time.Hour,
	}
}

func testAccount() *domain.Account {
	return &domain.Account{
		AccountID: "acc-1",
		StudentID: "PS/ITC/22/0120",
		Email:     "ama.osei@ucc.edu.gh",
		Role:      domain.RoleStudent,
	}
}

func TestNewProvider_MissingSecrets(t *testing.T) {
	_, err := NewProvider(&config.Config{})
	require.Error(t, err)
}

func TestNewProvider_IdenticalSecretsRejected(t *testing.T) {
	cfg := testConfig()
	cfg.RefreshTokenSecret = cfg.AccessTokenSecret
	_, err := NewProvider(cfg)
	require.Error(t, err)
}

func TestAccessToken_RoundTrip(t *testing.T) {
	p, err := NewProvider(testConfig())
	require.NoError(t, err)

	tok, err := p.SignAccess(testAccount())
	require.NoError(t, err)

	claims, err := p.VerifyAccess(tok)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.UserID)
	assert.Equal(t, "PS/ITC/22/0120", claims.StudentID)
	assert.Equal(t, "ama.osei@ucc.edu.gh", claims.Email)
	assert.Equal(t, domain.RoleStudent, claims.Role)
}

func TestAccessToken_RejectedByRefreshSecret(t *testing.T) {
	p, err := NewProvider(testConfig())
	require.NoError(t, err)

	tok, err := p.SignAccess(testAccount())
	require.NoError(t, err)

	_, err = p.VerifyRefresh(tok)
	require.Error(t, err)
}

func TestRefreshToken_RejectedByAccessSecret(t *testing.T) {
	p, err := NewProvider(testConfig())
	require.NoError(t, err)

	tok, err := p.SignRefresh(testAccount())
	require.NoError(t, err)

	_, err = p.VerifyAccess(tok)
	require.Error(t, err)
}

func TestExpiredToken_ReturnsTokenExpired(t *testing.T) {
	cfg := testConfig()
	cfg.AccessTokenExpiry = -time.Minute // already expired at issue time
	p, err := NewProvider(cfg)
	require.NoError(t, err)

	tok, err := p.SignAccess(testAccount())
	require.NoError(t, err)

	_, err = p.VerifyAccess(tok)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerify_MalformedToken(t *testing.T) {
	p, err := NewProvider(testConfig())
	require.NoError(t, err)

	_, err = p.VerifyAccess("not-a-jwt")
	require.Error(t, err)
}
