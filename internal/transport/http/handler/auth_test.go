package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/campus-connect-api/internal/application/otp"
	"github.com/campus-connect-api/internal/application/session"
	"github.com/campus-connect-api/internal/domain"
)

// --- mocks ---

type mockOtpSvc struct{ mock.Mock }

func (m *mockOtpSvc) Send(ctx context.Context, studentID string) (*otp.SendResult, error) {
	args := m.Called(ctx, studentID)
	if r, _ := args.Get(0).(*otp.SendResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOtpSvc) Resend(ctx context.Context, studentID string) (*otp.SendResult, error) {
	args := m.Called(ctx, studentID)
	if r, _ := args.Get(0).(*otp.SendResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOtpSvc) Verify(ctx context.Context, studentID, code string) (*otp.VerifyOutcome, error) {
	args := m.Called(ctx, studentID, code)
	if o, _ := args.Get(0).(*otp.VerifyOutcome); o != nil {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSessionSvc struct{ mock.Mock }

func (m *mockSessionSvc) VerifyOtp(ctx context.Context, studentID, code string) (*session.VerifyResult, error) {
	args := m.Called(ctx, studentID, code)
	if r, _ := args.Get(0).(*session.VerifyResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionSvc) Refresh(ctx context.Context, refreshToken string) (*session.RefreshResult, error) {
	args := m.Called(ctx, refreshToken)
	if r, _ := args.Get(0).(*session.RefreshResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionSvc) Logout(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func (m *mockSessionSvc) LogoutAll(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// --- helpers ---

func postJSON(t *testing.T, h http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
	return m
}

// --- SendOtp ---

func TestSendOtp_OK(t *testing.T) {
	ms := &mockOtpSvc{}
	ms.On("Send", mock.Anything, "PS/ITC/22/0120").
		Return(&otp.SendResult{MaskedEmail: "ama****@ucc.edu.gh", ExpiresIn: 300}, nil)
	h := NewAuthHandler(ms, &mockSessionSvc{})

	rr := postJSON(t, h.SendOtp, map[string]string{"student_id": "PS/ITC/22/0120"})

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "ama****@ucc.edu.gh", body["masked_email"])
	assert.Equal(t, float64(300), body["expires_in_seconds"])
}

func TestSendOtp_MissingStudentID(t *testing.T) {
	ms := &mockOtpSvc{}
	h := NewAuthHandler(ms, &mockSessionSvc{})

	rr := postJSON(t, h.SendOtp, map[string]string{})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	ms.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSendOtp_RateLimited(t *testing.T) {
	ms := &mockOtpSvc{}
	ms.On("Send", mock.Anything, mock.Anything).Return(nil, domain.ErrRateLimited)
	h := NewAuthHandler(ms, &mockSessionSvc{})

	rr := postJSON(t, h.SendOtp, map[string]string{"student_id": "PS/ITC/22/0120"})

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "RATE_LIMITED", decodeBody(t, rr)["code"])
}

func TestSendOtp_UnknownStudent(t *testing.T) {
	ms := &mockOtpSvc{}
	ms.On("Send", mock.Anything, mock.Anything).Return(nil, domain.ErrAccountNotFound)
	h := NewAuthHandler(ms, &mockSessionSvc{})

	rr := postJSON(t, h.SendOtp, map[string]string{"student_id": "PS/ITC/22/9999"})

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSendOtp_DeactivatedAccount(t *testing.T) {
	ms := &mockOtpSvc{}
	ms.On("Send", mock.Anything, mock.Anything).Return(nil, domain.ErrAccountInactive)
	h := NewAuthHandler(ms, &mockSessionSvc{})

	rr := postJSON(t, h.SendOtp, map[string]string{"student_id": "PS/ITC/22/0120"})

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestSendOtp_DeliveryFailure(t *testing.T) {
	ms := &mockOtpSvc{}
	ms.On("Send", mock.Anything, mock.Anything).Return(nil, domain.ErrExternalService)
	h := NewAuthHandler(ms, &mockSessionSvc{})

	rr := postJSON(t, h.SendOtp, map[string]string{"student_id": "PS/ITC/22/0120"})

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

// --- VerifyOtp ---

func TestVerifyOtp_OK(t *testing.T) {
	mss := &mockSessionSvc{}
	mss.On("VerifyOtp", mock.Anything, "PS/ITC/22/0120", "123456").Return(&session.VerifyResult{
		Account: &domain.Account{
			AccountID: "acc-1",
			StudentID: "PS/ITC/22/0120",
			Email:     "ama.osei@ucc.edu.gh",
			Role:      domain.RoleStudent,
		},
		AccessToken:       "access-token",
		RefreshToken:      "refresh-token",
		ExpiresIn:         3600,
		NeedsProfileSetup: true,
	}, nil)
	h := NewAuthHandler(&mockOtpSvc{}, mss)

	rr := postJSON(t, h.VerifyOtp, map[string]string{
		"student_id": "PS/ITC/22/0120",
		"code":       "123456",
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "access-token", body["access_token"])
	assert.Equal(t, "refresh-token", body["refresh_token"])
	assert.Equal(t, float64(3600), body["expires_in_seconds"])
	assert.Equal(t, true, body["needs_profile_setup"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "PS/ITC/22/0120", user["student_id"])
}

func TestVerifyOtp_MalformedCodeRejectedBeforeService(t *testing.T) {
	mss := &mockSessionSvc{}
	h := NewAuthHandler(&mockOtpSvc{}, mss)

	rr := postJSON(t, h.VerifyOtp, map[string]string{
		"student_id": "PS/ITC/22/0120",
		"code":       "12ab",
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mss.AssertNotCalled(t, "VerifyOtp", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyOtp_WrongCode_ReportsRemainingAttempts(t *testing.T) {
	mss := &mockSessionSvc{}
	mss.On("VerifyOtp", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.NewOtpInvalid(2))
	h := NewAuthHandler(&mockOtpSvc{}, mss)

	rr := postJSON(t, h.VerifyOtp, map[string]string{
		"student_id": "PS/ITC/22/0120",
		"code":       "000000",
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "OTP_INVALID", body["code"])
	assert.Equal(t, float64(2), body["remaining_attempts"])
}

func TestVerifyOtp_MaxAttempts(t *testing.T) {
	mss := &mockSessionSvc{}
	mss.On("VerifyOtp", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrOtpMaxAttempts)
	h := NewAuthHandler(&mockOtpSvc{}, mss)

	rr := postJSON(t, h.VerifyOtp, map[string]string{
		"student_id": "PS/ITC/22/0120",
		"code":       "123456",
	})

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "OTP_MAX_ATTEMPTS", decodeBody(t, rr)["code"])
}

// --- Sessions ---

func TestRefresh_OK(t *testing.T) {
	mss := &mockSessionSvc{}
	mss.On("Refresh", mock.Anything, "refresh-token").
		Return(&session.RefreshResult{AccessToken: "new-access", ExpiresIn: 3600}, nil)
	h := NewSessionHandler(mss)

	rr := postJSON(t, h.Refresh, map[string]string{"refresh_token": "refresh-token"})

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "new-access", body["access_token"])
	// No rotation: the response carries no refresh token.
	_, hasRefresh := body["refresh_token"]
	assert.False(t, hasRefresh)
}

func TestRefresh_MissingToken(t *testing.T) {
	h := NewSessionHandler(&mockSessionSvc{})
	rr := postJSON(t, h.Refresh, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRefresh_Expired(t *testing.T) {
	mss := &mockSessionSvc{}
	mss.On("Refresh", mock.Anything, mock.Anything).Return(nil, domain.ErrTokenExpired)
	h := NewSessionHandler(mss)

	rr := postJSON(t, h.Refresh, map[string]string{"refresh_token": "stale"})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "TOKEN_EXPIRED", decodeBody(t, rr)["code"])
}

func TestLogout_OK(t *testing.T) {
	mss := &mockSessionSvc{}
	mss.On("Logout", mock.Anything, "refresh-token").Return(nil)
	h := NewSessionHandler(mss)

	rr := postJSON(t, h.Logout, map[string]string{"refresh_token": "refresh-token"})

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestLogoutAll_RequiresClaims(t *testing.T) {
	h := NewSessionHandler(&mockSessionSvc{})
	rr := postJSON(t, h.LogoutAll, map[string]string{})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
