// Package auth implements the magic-link lifecycle and password login:
// one-time token issuance over email, exactly-once redemption, and
// email+password authentication against stored profile hashes.
package auth

// Token modes. A link requested for login renders different email copy than
// one requested for registration; redemption treats both the same.
const (
	ModeLogin    = "login"
	ModeRegister = "register"
)

// TokenRecord is the value stored under magiclink:{tokenHash}. It lives for
// the magic-link TTL and is deleted on first redemption; it is never updated
// in place.
type TokenRecord struct {
	Email string `json:"email"`
	Mode  string `json:"mode"`
}

// --- Request DTOs (bound from HTTP requests) ---

// RequestLinkRequest is the body of POST /auth/request-link.
type RequestLinkRequest struct {
	Email string `json:"email"`
	Mode  string `json:"mode"`
}

// VerifyRequest is the body of POST /auth/verify.
type VerifyRequest struct {
	Token string `json:"token"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
