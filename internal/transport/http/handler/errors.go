package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/campus-connect-api/internal/domain"
)

// errorEnvelope carries a domain error over the wire. RemainingAttempts
// is present only on OTP_INVALID responses.
type errorEnvelope struct {
	Error             string `json:"error"`
	Code              string `json:"code"`
	RemainingAttempts *int   `json:"remaining_attempts,omitempty"`
}

// statusFor maps a domain error code to an HTTP status.
func statusFor(code domain.Code) int {
	switch code {
	case domain.CodeAccountNotFound:
		return http.StatusNotFound
	case domain.CodeAccountInactive:
		return http.StatusForbidden
	case domain.CodeRateLimited, domain.CodeOtpMaxAttempts:
		return http.StatusTooManyRequests
	case domain.CodeOtpExpired, domain.CodeOtpInvalid, domain.CodeBadRequest:
		return http.StatusBadRequest
	case domain.CodeTokenInvalid, domain.CodeTokenExpired, domain.CodeUnauthorized:
		return http.StatusUnauthorized
	case domain.CodeExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError renders a service error. Unknown and internal errors
// collapse to a generic 500; their detail goes to the log, never the
// client.
func writeDomainError(w http.ResponseWriter, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) || derr.Code == domain.CodeInternal {
		slog.Error("request failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorEnvelope{
			Error: "internal error",
			Code:  string(domain.CodeInternal),
		})
		return
	}
	writeJSON(w, statusFor(derr.Code), errorEnvelope{
		Error:             derr.Message,
		Code:              string(derr.Code),
		RemainingAttempts: derr.RemainingAttempts,
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}
