package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/campus-connect-api/internal/application/otp"
	"github.com/campus-connect-api/internal/domain"
	jwtinfra "github.com/campus-connect-api/internal/infrastructure/jwt"
	"github.com/campus-connect-api/internal/infrastructure/sns"
	"github.com/campus-connect-api/internal/pkg/token"
)

// CodeVerifier is the slice of the OTP service this package consumes.
type CodeVerifier interface {
	Verify(ctx context.Context, studentID, code string) (*otp.VerifyOutcome, error)
}

// AccountStore looks accounts up by primary id on refresh.
type AccountStore interface {
	Get(ctx context.Context, accountID string) (*domain.Account, error)
}

// TokenStore persists refresh-token records keyed by token hash. Raw
// tokens are never stored.
type TokenStore interface {
	Put(ctx context.Context, rec *domain.RefreshTokenRecord) error
	GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshTokenRecord, error)
	Delete(ctx context.Context, tokenHash string) error
	DeleteByUser(ctx context.Context, userID string) (int, error)
}

// TokenProvider mints and verifies the JWT pair.
type TokenProvider interface {
	SignAccess(a *domain.Account) (string, error)
	SignRefresh(a *domain.Account) (string, error)
	VerifyRefresh(tokenStr string) (*jwtinfra.Claims, error)
	AccessExpiry() time.Duration
	RefreshExpiry() time.Duration
}

// VerifyResult is the session established by a successful OTP verification.
type VerifyResult struct {
	Account           *domain.Account
	AccessToken       string
	RefreshToken      string
	ExpiresIn         int64 // access-token lifetime in seconds
	NeedsProfileSetup bool
}

// RefreshResult carries the replacement access token. The refresh token
// is not rotated: the presented one stays valid until it expires or the
// session is logged out.
type RefreshResult struct {
	AccessToken string
	ExpiresIn   int64
}

// Service owns the session lifecycle: establishing one from a verified
// OTP, refreshing access, and revoking.
type Service interface {
	VerifyOtp(ctx context.Context, studentID, code string) (*VerifyResult, error)
	Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID string) (int, error)
}

// ServiceDeps wires the service's collaborators. Notifier may be nil;
// welcome events are then skipped.
type ServiceDeps struct {
	Verifier CodeVerifier
	Accounts AccountStore
	Tokens   TokenStore
	JWT      TokenProvider
	Notifier sns.Notifier
}

type service struct {
	verifier CodeVerifier
	accounts AccountStore
	tokens   TokenStore
	jwt      TokenProvider
	notifier sns.Notifier
}

func NewService(deps ServiceDeps) Service {
	return &service{
		verifier: deps.Verifier,
		accounts: deps.Accounts,
		tokens:   deps.Tokens,
		jwt:      deps.JWT,
		notifier: deps.Notifier,
	}
}

// VerifyOtp exchanges a valid code for a token pair. The refresh token's
// hash is persisted so the session can be revoked before the token's
// cryptographic expiry.
func (s *service) VerifyOtp(ctx context.Context, studentID, code string) (*VerifyResult, error) {
	outcome, err := s.verifier.Verify(ctx, studentID, code)
	if err != nil {
		return nil, err
	}
	acct := outcome.Account

	access, err := s.jwt.SignAccess(acct)
	if err != nil {
		return nil, domain.Internal(fmt.Errorf("sign access token: %w", err))
	}
	refresh, err := s.jwt.SignRefresh(acct)
	if err != nil {
		return nil, domain.Internal(fmt.Errorf("sign refresh token: %w", err))
	}

	now := time.Now().UTC()
	rec := &domain.RefreshTokenRecord{
		TokenHash: token.Hash(refresh),
		UserID:    acct.AccountID,
		ExpiresAt: now.Add(s.jwt.RefreshExpiry()).Unix(),
		CreatedAt: now,
	}
	if err := s.tokens.Put(ctx, rec); err != nil {
		return nil, domain.Internal(fmt.Errorf("store refresh token: %w", err))
	}

	if outcome.FirstVerification && s.notifier != nil {
		if err := s.notifier.PublishWelcome(ctx, acct.AccountID, acct.Email); err != nil {
			slog.Error("welcome event publish failed", "user_id", acct.AccountID, "err", err)
		}
	}

	return &VerifyResult{
		Account:           acct,
		AccessToken:       access,
		RefreshToken:      refresh,
		ExpiresIn:         int64(s.jwt.AccessExpiry().Seconds()),
		NeedsProfileSetup: acct.NeedsProfileSetup(),
	}, nil
}

// Refresh validates the presented refresh token against its stored record
// and mints a new access token.
//
// The record is checked before the signature so that an expired session
// is removed on first use: the caller gets TokenExpired once, and every
// retry after the delete fails TokenInvalid.
func (s *service) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	hash := token.Hash(refreshToken)

	rec, err := s.tokens.GetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			return nil, err
		}
		return nil, domain.Internal(fmt.Errorf("load refresh token: %w", err))
	}

	if rec.ExpiresAt <= time.Now().Unix() {
		s.discard(ctx, hash)
		return nil, fmt.Errorf("session expired: %w", domain.ErrTokenExpired)
	}

	claims, err := s.jwt.VerifyRefresh(refreshToken)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			s.discard(ctx, hash)
			return nil, fmt.Errorf("token expired: %w", domain.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify refresh token: %w", domain.ErrTokenInvalid)
	}

	acct, err := s.accounts.Get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, fmt.Errorf("account %s gone: %w", claims.UserID, domain.ErrUnauthorized)
		}
		return nil, domain.Internal(fmt.Errorf("lookup account: %w", err))
	}
	if !acct.IsActive {
		return nil, fmt.Errorf("account %s deactivated: %w", acct.AccountID, domain.ErrUnauthorized)
	}

	access, err := s.jwt.SignAccess(acct)
	if err != nil {
		return nil, domain.Internal(fmt.Errorf("sign access token: %w", err))
	}
	return &RefreshResult{
		AccessToken: access,
		ExpiresIn:   int64(s.jwt.AccessExpiry().Seconds()),
	}, nil
}

// Logout revokes the session holding the given refresh token. Revoking
// an unknown or already-revoked token succeeds; logout is idempotent.
func (s *service) Logout(ctx context.Context, refreshToken string) error {
	if err := s.tokens.Delete(ctx, token.Hash(refreshToken)); err != nil {
		return domain.Internal(fmt.Errorf("delete refresh token: %w", err))
	}
	return nil
}

// LogoutAll revokes every session of the user and reports how many were
// removed.
func (s *service) LogoutAll(ctx context.Context, userID string) (int, error) {
	n, err := s.tokens.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, domain.Internal(fmt.Errorf("delete user sessions: %w", err))
	}
	return n, nil
}

// discard removes a dead session record. Failures are logged, not
// returned; the caller's expiry result stands either way.
func (s *service) discard(ctx context.Context, hash string) {
	if err := s.tokens.Delete(ctx, hash); err != nil {
		slog.Error("failed to remove expired refresh token", "err", err)
	}
}
