package domain

import "time"

// OtpRecord is a single issued verification code. The plaintext code is
// never stored; CodeHash is a bcrypt hash.
//
// A record is "active" iff IsUsed=false and ExpiresAt is in the future.
// Expiry is detected lazily at read time; ExpiresAt doubles as the
// DynamoDB TTL attribute.
type OtpRecord struct {
	OtpID     string `json:"id" dynamodbav:"otp_id"`
	Email     string `json:"email" dynamodbav:"email"`
	CodeHash  string `json:"-" dynamodbav:"code_hash"`
	Attempts  int    `json:"attempts" dynamodbav:"attempts"`
	IsUsed    bool   `json:"is_used" dynamodbav:"is_used"`
	CreatedAt string `json:"created" dynamodbav:"created_at"`    // RFC3339, GSI range key
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // Unix seconds, TTL
}

// Active reports whether the record can still be verified at the given time.
func (r *OtpRecord) Active(now time.Time) bool {
	return !r.IsUsed && r.ExpiresAt > now.Unix()
}
