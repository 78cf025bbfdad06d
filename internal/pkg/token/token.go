// Package token provides hashing for opaque credentials that must be
// persisted. Refresh tokens are stored by hash only, mirroring password
// discipline.
package token

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes the hex-encoded SHA-256 digest of a token. The digest is
// what gets persisted and looked up; the raw token never touches the store.
func Hash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
