package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/campus-connect-api/internal/domain"
	"github.com/campus-connect-api/internal/infrastructure/email"
	"github.com/campus-connect-api/internal/pkg/id"
	"github.com/campus-connect-api/internal/pkg/mask"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor for hashing OTP codes.
const bcryptCost = 10

// AccountStore is the account lookup this service requires. Accounts are
// owned elsewhere; only the verified flag is ever written.
type AccountStore interface {
	GetByStudentID(ctx context.Context, studentID string) (*domain.Account, error)
	MarkVerified(ctx context.Context, accountID string) error
}

// OtpStore persists OTP records.
type OtpStore interface {
	Put(ctx context.Context, rec *domain.OtpRecord) error
	LatestActive(ctx context.Context, email string, now time.Time) (*domain.OtpRecord, error)
	CountSince(ctx context.Context, email string, since time.Time) (int, error)
	IncrementAttempts(ctx context.Context, otpID string) (int, error)
	MarkUsed(ctx context.Context, otpID string) error
	InvalidateActive(ctx context.Context, email string) error
}

// SendResult is returned by Send and Resend.
type SendResult struct {
	MaskedEmail string
	ExpiresIn   int64 // seconds
}

// VerifyOutcome is returned by Verify on success.
type VerifyOutcome struct {
	Account *domain.Account
	// FirstVerification is true when this verification flipped the
	// account's verified flag; the session layer fires the welcome
	// notification off it.
	FirstVerification bool
}

// Service issues and verifies one-time passcodes.
type Service interface {
	Send(ctx context.Context, studentID string) (*SendResult, error)
	Resend(ctx context.Context, studentID string) (*SendResult, error)
	Verify(ctx context.Context, studentID, code string) (*VerifyOutcome, error)
}

// ServiceDeps wires the service's collaborators.
type ServiceDeps struct {
	Accounts    AccountStore
	Otps        OtpStore
	Limiter     *RateLimiter
	Mailer      email.Sender
	Expiry      time.Duration
	MaxAttempts int
}

type service struct {
	accounts    AccountStore
	otps        OtpStore
	limiter     *RateLimiter
	mailer      email.Sender
	expiry      time.Duration
	maxAttempts int
}

func NewService(deps ServiceDeps) Service {
	return &service{
		accounts:    deps.Accounts,
		otps:        deps.Otps,
		limiter:     deps.Limiter,
		mailer:      deps.Mailer,
		expiry:      deps.Expiry,
		maxAttempts: deps.MaxAttempts,
	}
}

// Send issues a fresh code without touching earlier active records. A
// student who calls Send twice holds two active records; only the newest
// is eligible for verification (see Verify).
func (s *service) Send(ctx context.Context, studentID string) (*SendResult, error) {
	acct, err := s.checkedAccount(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if err := s.limiter.Allow(ctx, acct.Email); err != nil {
		return nil, err
	}
	return s.issue(ctx, acct)
}

// Resend supersedes every outstanding code for the email before issuing a
// new one. This is the only operation that invalidates stale codes.
// Resends share the rate-limit window with sends.
func (s *service) Resend(ctx context.Context, studentID string) (*SendResult, error) {
	acct, err := s.checkedAccount(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if err := s.limiter.Allow(ctx, acct.Email); err != nil {
		return nil, err
	}
	if err := s.otps.InvalidateActive(ctx, acct.Email); err != nil {
		return nil, domain.Internal(fmt.Errorf("invalidate active otps: %w", err))
	}
	return s.issue(ctx, acct)
}

func (s *service) checkedAccount(ctx context.Context, studentID string) (*domain.Account, error) {
	acct, err := s.accounts.GetByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
		return nil, domain.Internal(fmt.Errorf("lookup account: %w", err))
	}
	if !acct.IsActive {
		return nil, fmt.Errorf("student %s: %w", studentID, domain.ErrAccountInactive)
	}
	return acct, nil
}

func (s *service) issue(ctx context.Context, acct *domain.Account) (*SendResult, error) {
	code, err := generateCode()
	if err != nil {
		return nil, domain.Internal(fmt.Errorf("generate code: %w", err))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcryptCost)
	if err != nil {
		return nil, domain.Internal(fmt.Errorf("hash code: %w", err))
	}

	now := time.Now().UTC()
	rec := &domain.OtpRecord{
		OtpID:     id.New(),
		Email:     acct.Email,
		CodeHash:  string(hash),
		CreatedAt: now.Format(time.RFC3339),
		ExpiresAt: now.Add(s.expiry).Unix(),
	}
	if err := s.otps.Put(ctx, rec); err != nil {
		return nil, domain.Internal(fmt.Errorf("store otp: %w", err))
	}

	result := &SendResult{
		MaskedEmail: mask.Email(acct.Email),
		ExpiresIn:   int64(s.expiry.Seconds()),
	}

	// The stored record stays valid even when delivery fails; a retry
	// within the window counts against the same rate limit.
	subject := "Your verification code"
	text := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(s.expiry.Minutes()))
	html := fmt.Sprintf("<p>Your verification code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p>", code, int(s.expiry.Minutes()))
	if err := s.mailer.Send(ctx, acct.Email, subject, html, text); err != nil {
		slog.Error("otp email delivery failed", "email", result.MaskedEmail, "err", err)
		return nil, domain.External(err)
	}
	return result, nil
}

// generateCode returns a uniformly random 6-digit numeric code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
