package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/campus-connect-api/internal/application/otp"
	"github.com/campus-connect-api/internal/application/session"
	"github.com/campus-connect-api/internal/config"
	"github.com/campus-connect-api/internal/transport/http/handler"
	appmiddleware "github.com/campus-connect-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — applied to the public OTP and
	// session endpoints. The per-email issuance window is enforced in
	// the OTP service.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	limiter := otp.NewRateLimiter(deps.OtpRepo, cfg.RateLimitWindow, cfg.RateLimitMaxRequests)
	otpSvc := otp.NewService(otp.ServiceDeps{
		Accounts:    deps.AccountRepo,
		Otps:        deps.OtpRepo,
		Limiter:     limiter,
		Mailer:      deps.Mailer,
		Expiry:      cfg.OtpExpiry,
		MaxAttempts: cfg.OtpMaxAttempts,
	})
	sessionSvc := session.NewService(session.ServiceDeps{
		Verifier: otpSvc,
		Accounts: deps.AccountRepo,
		Tokens:   deps.RefreshTokenRepo,
		JWT:      deps.JWTProvider,
		Notifier: deps.Notifier,
	})

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(otpSvc, sessionSvc)
	sessionH := handler.NewSessionHandler(sessionSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)

		r.With(sensitiveRL.Limit).Post("/auth/otp/send", authH.SendOtp)
		r.With(sensitiveRL.Limit).Post("/auth/otp/resend", authH.ResendOtp)
		r.With(sensitiveRL.Limit).Post("/auth/otp/verify", authH.VerifyOtp)
		r.Post("/sessions/refresh", sessionH.Refresh)
		r.Post("/sessions/logout", sessionH.Logout)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(deps.JWTProvider))

			r.Post("/sessions/logout-all", sessionH.LogoutAll)
		})
	})

	return r
}
