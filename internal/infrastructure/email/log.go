package email

import (
	"context"
	"log/slog"
)

// logSender writes outgoing mail to the log instead of delivering it.
// Used in development so OTP flows work without an SMTP server.
type logSender struct{}

// NewLogSender builds a Sender that only logs.
func NewLogSender() Sender {
	return &logSender{}
}

func (*logSender) Send(_ context.Context, to, subject, _ string, textBody string) error {
	slog.Info("email (log provider)", "to", to, "subject", subject, "body", textBody)
	return nil
}
