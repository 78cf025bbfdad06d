// Package email delivers outgoing mail behind a single Sender
// capability. The provider is chosen once at startup from configuration
// and injected explicitly, never held in a package global.
package email

import "context"

// Sender delivers a single email. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}
