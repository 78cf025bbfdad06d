package domain

import "fmt"

// Code identifies a domain error category. Handlers map codes to HTTP
// status codes without leaking infrastructure details.
type Code string

const (
	CodeAccountNotFound Code = "ACCOUNT_NOT_FOUND"
	CodeAccountInactive Code = "ACCOUNT_INACTIVE"
	CodeRateLimited     Code = "RATE_LIMITED"
	CodeOtpExpired      Code = "OTP_EXPIRED"
	CodeOtpInvalid      Code = "OTP_INVALID"
	CodeOtpMaxAttempts  Code = "OTP_MAX_ATTEMPTS"
	CodeTokenInvalid    Code = "TOKEN_INVALID"
	CodeTokenExpired    Code = "TOKEN_EXPIRED"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeExternalService Code = "EXTERNAL_SERVICE_ERROR"
	CodeInternal        Code = "INTERNAL_ERROR"
	CodeBadRequest      Code = "BAD_REQUEST"
)

// Error is a structured domain error: a stable code, a human message and
// optional detail. Two Errors are equal under errors.Is when their codes
// match, so services can wrap the sentinels below with fmt.Errorf("%w")
// and handlers still discriminate on the code.
type Error struct {
	Code              Code   `json:"code"`
	Message           string `json:"message"`
	RemainingAttempts *int   `json:"remaining_attempts,omitempty"`
	err               error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.err }

// Is matches on the error code so wrapped and detailed variants compare
// equal to their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Sentinel domain errors.
var (
	ErrAccountNotFound = &Error{Code: CodeAccountNotFound, Message: "account not found"}
	ErrAccountInactive = &Error{Code: CodeAccountInactive, Message: "account is deactivated"}
	ErrRateLimited     = &Error{Code: CodeRateLimited, Message: "too many OTP requests, try again later"}
	ErrOtpExpired      = &Error{Code: CodeOtpExpired, Message: "no active verification code, request a new one"}
	ErrOtpInvalid      = &Error{Code: CodeOtpInvalid, Message: "incorrect verification code"}
	ErrOtpMaxAttempts  = &Error{Code: CodeOtpMaxAttempts, Message: "maximum verification attempts exceeded"}
	ErrTokenInvalid    = &Error{Code: CodeTokenInvalid, Message: "invalid refresh token"}
	ErrTokenExpired    = &Error{Code: CodeTokenExpired, Message: "refresh token expired"}
	ErrUnauthorized    = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrExternalService = &Error{Code: CodeExternalService, Message: "failed to deliver verification email"}
	ErrBadRequest      = &Error{Code: CodeBadRequest, Message: "bad request"}
)

// NewOtpInvalid builds an OTP_INVALID error carrying the number of
// attempts the caller has left.
func NewOtpInvalid(remaining int) *Error {
	return &Error{
		Code:              CodeOtpInvalid,
		Message:           fmt.Sprintf("incorrect verification code, %d attempt(s) remaining", remaining),
		RemainingAttempts: &remaining,
	}
}

// Internal wraps an unexpected store or crypto failure. The wrapped error
// is kept for logs; callers only ever see the generic message.
func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: "internal error", err: err}
}

// External wraps a collaborator failure (email delivery).
func External(err error) *Error {
	return &Error{Code: CodeExternalService, Message: ErrExternalService.Message, err: err}
}
