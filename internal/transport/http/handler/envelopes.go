package handler

import (
	"encoding/json"
	"net/http"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// OtpEnvelope wraps send/resend responses. The email is masked; the raw
// address never leaves the server on this flow.
type OtpEnvelope struct {
	Message     string `json:"message"`
	MaskedEmail string `json:"masked_email"`
	ExpiresIn   int64  `json:"expires_in_seconds"`
}

// AuthEnvelope wraps verify and refresh responses.
type AuthEnvelope struct {
	AccessToken       string       `json:"access_token"`
	RefreshToken      string       `json:"refresh_token,omitempty"`
	ExpiresIn         int64        `json:"expires_in_seconds"`
	NeedsProfileSetup bool         `json:"needs_profile_setup"`
	User              *UserPayload `json:"user,omitempty"`
}

// UserPayload is the account projection returned on login.
type UserPayload struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FullName  string `json:"full_name,omitempty"`
	Program   string `json:"program,omitempty"`
	ClassYear string `json:"class_year,omitempty"`
}

// LogoutAllEnvelope reports how many sessions were revoked.
type LogoutAllEnvelope struct {
	Message string `json:"message"`
	Revoked int    `json:"revoked"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
