package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campus-connect-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Verify checks a submitted code against the newest active record for the
// student's email and advances the record's state:
//
//	no active record        -> OtpExpired
//	attempts already at max -> OtpMaxAttempts, code not compared
//	wrong code              -> attempts incremented atomically, OtpInvalid
//	                           with remaining = max - attempts
//	correct code            -> record marked used, account verified
func (s *service) Verify(ctx context.Context, studentID, code string) (*VerifyOutcome, error) {
	acct, err := s.accounts.GetByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
		return nil, domain.Internal(fmt.Errorf("lookup account: %w", err))
	}

	rec, err := s.otps.LatestActive(ctx, acct.Email, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrOtpExpired) {
			return nil, err
		}
		return nil, domain.Internal(fmt.Errorf("load otp: %w", err))
	}

	if rec.Attempts >= s.maxAttempts {
		return nil, fmt.Errorf("otp %s: %w", rec.OtpID, domain.ErrOtpMaxAttempts)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rec.CodeHash), []byte(code)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, domain.Internal(fmt.Errorf("compare code: %w", err))
		}
		attempts, incErr := s.otps.IncrementAttempts(ctx, rec.OtpID)
		if incErr != nil {
			return nil, domain.Internal(fmt.Errorf("increment attempts: %w", incErr))
		}
		remaining := s.maxAttempts - attempts
		if remaining < 0 {
			remaining = 0
		}
		return nil, domain.NewOtpInvalid(remaining)
	}

	if err := s.otps.MarkUsed(ctx, rec.OtpID); err != nil {
		return nil, domain.Internal(fmt.Errorf("mark otp used: %w", err))
	}

	first := !acct.Verified
	if first {
		if err := s.accounts.MarkVerified(ctx, acct.AccountID); err != nil {
			return nil, domain.Internal(fmt.Errorf("mark account verified: %w", err))
		}
		acct.Verified = true
	}
	return &VerifyOutcome{Account: acct, FirstVerification: first}, nil
}
