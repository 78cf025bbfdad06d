package handler

import (
	"encoding/json"
	"net/http"

	"github.com/campus-connect-api/internal/application/otp"
	"github.com/campus-connect-api/internal/application/session"
	"github.com/campus-connect-api/internal/domain"
	"github.com/campus-connect-api/internal/pkg/validate"
)

// AuthHandler handles the OTP login flow: send, resend and verify.
type AuthHandler struct {
	otps     otp.Service
	sessions session.Service
}

func NewAuthHandler(otps otp.Service, sessions session.Service) *AuthHandler {
	return &AuthHandler{otps: otps, sessions: sessions}
}

type sendOtpRequest struct {
	StudentID string `json:"student_id" validate:"required,min=3"`
}

type verifyOtpRequest struct {
	StudentID string `json:"student_id" validate:"required,min=3"`
	Code      string `json:"code" validate:"required,len=6,numeric"`
}

func (h *AuthHandler) SendOtp(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSendRequest(w, r)
	if !ok {
		return
	}
	result, err := h.otps.Send(r.Context(), req.StudentID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OtpEnvelope{
		Message:     "verification code sent",
		MaskedEmail: result.MaskedEmail,
		ExpiresIn:   result.ExpiresIn,
	})
}

func (h *AuthHandler) ResendOtp(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSendRequest(w, r)
	if !ok {
		return
	}
	result, err := h.otps.Resend(r.Context(), req.StudentID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OtpEnvelope{
		Message:     "verification code resent",
		MaskedEmail: result.MaskedEmail,
		ExpiresIn:   result.ExpiresIn,
	})
}

func (h *AuthHandler) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	var req verifyOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.sessions.VerifyOtp(r.Context(), req.StudentID, req.Code)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{
		AccessToken:       result.AccessToken,
		RefreshToken:      result.RefreshToken,
		ExpiresIn:         result.ExpiresIn,
		NeedsProfileSetup: result.NeedsProfileSetup,
		User:              toUserPayload(result.Account),
	})
}

func decodeSendRequest(w http.ResponseWriter, r *http.Request) (*sendOtpRequest, bool) {
	var req sendOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return &req, true
}

func toUserPayload(a *domain.Account) *UserPayload {
	if a == nil {
		return nil
	}
	return &UserPayload{
		ID:        a.AccountID,
		StudentID: a.StudentID,
		Email:     a.Email,
		Role:      a.Role,
		FullName:  a.FullName,
		Program:   a.Program,
		ClassYear: a.ClassYear,
	}
}
