package cleanup

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper deletes expired records and reports how many were removed.
// Both the OTP and refresh-token repositories satisfy it.
type Sweeper interface {
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// Scheduler sweeps expired OTP and refresh-token records on a fixed
// interval. DynamoDB TTL eventually removes the same items; the sweep
// keeps queries cheap in the window before TTL catches up.
type Scheduler struct {
	otps     Sweeper
	tokens   Sweeper
	interval time.Duration
}

func NewScheduler(otps, tokens Sweeper, interval time.Duration) *Scheduler {
	return &Scheduler{otps: otps, tokens: tokens, interval: interval}
}

// Run sweeps once immediately, then on every tick until ctx is
// cancelled. A failing or panicking sweep is logged and the loop keeps
// going; cleanup must never take the process down.
func (s *Scheduler) Run(ctx context.Context) {
	s.sweep(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("cleanup scheduler stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("cleanup sweep panicked", "panic", r)
		}
	}()

	now := time.Now()
	otps, err := s.otps.DeleteExpired(ctx, now)
	if err != nil {
		slog.Error("otp cleanup failed", "err", err)
	}
	tokens, err := s.tokens.DeleteExpired(ctx, now)
	if err != nil {
		slog.Error("refresh token cleanup failed", "err", err)
	}
	slog.Info("cleanup sweep finished", "otps_deleted", otps, "tokens_deleted", tokens)
}
