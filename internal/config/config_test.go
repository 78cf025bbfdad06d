package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, 5*time.Minute, cfg.OtpExpiry)
	assert.Equal(t, 3, cfg.OtpMaxAttempts)
	assert.Equal(t, 5*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 3, cfg.RateLimitMaxRequests)
	assert.Equal(t, time.Hour, cfg.AccessTokenExpiry)
	assert.Equal(t, 30*24*time.Hour, cfg.RefreshTokenExpiry)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
	assert.Equal(t, "log", cfg.EmailProvider)
	assert.Equal(t, "otps", cfg.DynamoTables.Otps)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OTP_EXPIRY_SECONDS", "120")
	t.Setenv("OTP_MAX_ATTEMPTS", "5")
	t.Setenv("RATE_LIMIT_WINDOW_MINUTES", "10")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "30m")
	t.Setenv("EMAIL_PROVIDER", "smtp")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("SMTP_TLS", "true")

	cfg := Load()

	assert.Equal(t, 2*time.Minute, cfg.OtpExpiry)
	assert.Equal(t, 5, cfg.OtpMaxAttempts)
	assert.Equal(t, 10*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenExpiry)
	assert.Equal(t, "smtp", cfg.EmailProvider)
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.True(t, cfg.SMTP.TLS)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("OTP_MAX_ATTEMPTS", "not-a-number")
	cfg := Load()
	assert.Equal(t, 3, cfg.OtpMaxAttempts)
}

func TestLoad_AllowedOriginsSplit(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	cfg := Load()
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}
