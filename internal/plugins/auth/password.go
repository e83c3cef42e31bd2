package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashPassword returns the hex digest stored in profiles. Unsalted SHA-256:
// clients compute the same digest locally, and stored hashes must keep
// verifying across releases.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// verifyPassword compares the digest of the supplied password to the stored
// hash in constant time.
func verifyPassword(password, storedHash string) bool {
	computed := HashPassword(password)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}

// hashToken returns the SHA-256 hex digest of a magic-link token. Only the
// digest is stored, so a leaked store dump cannot be replayed as links.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
