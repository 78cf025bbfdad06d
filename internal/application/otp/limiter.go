package otp

import (
	"context"
	"fmt"
	"time"

	"github.com/campus-connect-api/internal/domain"
)

// RateLimiter caps OTP issuance per email over a sliding window. It keeps
// no state of its own: the count is recomputed from persisted records on
// every call, so every instance of the service observes the same window.
//
// Two concurrent issuance calls can both read a count below the threshold
// and both insert, momentarily exceeding the limit. Accepted trade-off at
// this request volume; a counter row with a conditional update would close
// the window if that ever changes.
type RateLimiter struct {
	otps   OtpStore
	window time.Duration
	max    int
}

func NewRateLimiter(otps OtpStore, window time.Duration, max int) *RateLimiter {
	return &RateLimiter{otps: otps, window: window, max: max}
}

// Allow returns ErrRateLimited when the email already hit the issuance cap
// inside the window.
func (l *RateLimiter) Allow(ctx context.Context, email string) error {
	since := time.Now().Add(-l.window)
	count, err := l.otps.CountSince(ctx, email, since)
	if err != nil {
		return domain.Internal(fmt.Errorf("count otp requests: %w", err))
	}
	if count >= l.max {
		return fmt.Errorf("%d requests in window: %w", count, domain.ErrRateLimited)
	}
	return nil
}
