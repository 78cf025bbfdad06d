package http

import (
	"github.com/campus-connect-api/internal/infrastructure/dynamo"
	"github.com/campus-connect-api/internal/infrastructure/email"
	jwtinfra "github.com/campus-connect-api/internal/infrastructure/jwt"
	"github.com/campus-connect-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router. Notifier
// may be nil when no SNS topic is configured.
type Deps struct {
	AccountRepo      *dynamo.AccountRepo
	OtpRepo          *dynamo.OtpRepo
	RefreshTokenRepo *dynamo.RefreshTokenRepo
	Mailer           email.Sender
	Notifier         sns.Notifier
	JWTProvider      *jwtinfra.Provider
}
