package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIs_MatchesOnCode(t *testing.T) {
	err := NewOtpInvalid(2)
	assert.True(t, errors.Is(err, ErrOtpInvalid))
	assert.False(t, errors.Is(err, ErrOtpExpired))
}

func TestErrorIs_SurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("verify otp: %w", ErrRateLimited)
	assert.True(t, errors.Is(err, ErrRateLimited))
}

func TestNewOtpInvalid_CarriesRemainingAttempts(t *testing.T) {
	err := NewOtpInvalid(1)
	require.NotNil(t, err.RemainingAttempts)
	assert.Equal(t, 1, *err.RemainingAttempts)
	assert.Contains(t, err.Error(), "1 attempt(s) remaining")
}

func TestInternal_HidesCauseInMessage(t *testing.T) {
	cause := errors.New("dynamodb: connection reset")
	err := Internal(cause)
	assert.Equal(t, CodeInternal, err.Code)
	assert.Equal(t, "internal error", err.Message)
	assert.True(t, errors.Is(err, cause))
}

func TestExternal_MatchesSentinel(t *testing.T) {
	err := External(errors.New("smtp: 554"))
	assert.True(t, errors.Is(err, ErrExternalService))
}
