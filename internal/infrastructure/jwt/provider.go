package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/campus-connect-api/internal/config"
	"github.com/campus-connect-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the JWT payload fields shared by access and refresh tokens.
type Claims struct {
	UserID    string `json:"user_id"`
	StudentID string `json:"student_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs. Access and refresh tokens use
// distinct secrets and distinct expiries; a token signed with one secret
// never verifies against the other.
type Provider struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" {
		return nil, fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must be set")
	}
	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		return nil, fmt.Errorf("access and refresh token secrets must differ")
	}
	return &Provider{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessExpiry:  cfg.AccessTokenExpiry,
		refreshExpiry: cfg.RefreshTokenExpiry,
	}, nil
}

// AccessExpiry reports the configured access-token lifetime.
func (p *Provider) AccessExpiry() time.Duration { return p.accessExpiry }

// RefreshExpiry reports the configured refresh-token lifetime.
func (p *Provider) RefreshExpiry() time.Duration { return p.refreshExpiry }

// SignAccess mints a short-lived stateless access token. Its validity is
// signature + expiry only; it is never persisted.
func (p *Provider) SignAccess(a *domain.Account) (string, error) {
	return p.sign(a, p.accessSecret, p.accessExpiry)
}

// SignRefresh mints a long-lived refresh token. The caller persists its
// hash so the token stays revocable before cryptographic expiry.
func (p *Provider) SignRefresh(a *domain.Account) (string, error) {
	return p.sign(a, p.refreshSecret, p.refreshExpiry)
}

func (p *Provider) VerifyAccess(tokenStr string) (*Claims, error) {
	return verify(tokenStr, p.accessSecret)
}

func (p *Provider) VerifyRefresh(tokenStr string) (*Claims, error) {
	return verify(tokenStr, p.refreshSecret)
}

func (p *Provider) sign(a *domain.Account, secret []byte, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    a.AccountID,
		StudentID: a.StudentID,
		Email:     a.Email,
		Role:      a.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func verify(tokenStr string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
