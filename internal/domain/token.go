package domain

import "time"

// RefreshTokenRecord whitelists an issued refresh token. Only the SHA-256
// hash of the token is persisted; the raw value exists solely on the client.
// TokenHash is the partition key, so the conditional put in the repo
// guarantees no two sessions collide on the same token.
type RefreshTokenRecord struct {
	TokenHash string    `json:"-" dynamodbav:"token_hash"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	ExpiresAt int64     `json:"expires_at" dynamodbav:"expires_at"` // Unix seconds, TTL
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
}
