// Package users owns the profile entity: creation, lookup by email, updates,
// and the username uniqueness index maintained alongside it.
package users

import "strings"

// Profile is a user's public profile. It is stored as JSON under
// user:{email} and is owned exclusively by the identity matching Email.
// PasswordHash is persisted but must never reach the browser; handlers
// respond with WithoutPassword().
type Profile struct {
	Name        string `json:"name"`
	Username    string `json:"username"`
	Description string `json:"description"`
	Avatar      string `json:"avatar,omitempty"`
	Email       string `json:"email"`
	// PasswordHash is absent for accounts created through the magic-link
	// flow that never set a password.
	PasswordHash string `json:"passwordHash,omitempty"`
}

// WithoutPassword returns a copy of the profile safe to send to the client.
func (p *Profile) WithoutPassword() *Profile {
	out := *p
	out.PasswordHash = ""
	return &out
}

// NormalizeEmail lowercases and trims an email address. Every lookup and
// storage operation goes through this first so differently-cased
// representations of the same address resolve to the same record.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeUsername ensures the public handle starts with "@".
func NormalizeUsername(username string) string {
	username = strings.TrimSpace(username)
	if username == "" || strings.HasPrefix(username, "@") {
		return username
	}
	return "@" + username
}

// --- Request DTOs (bound from HTTP requests) ---

// SaveProfileRequest is the body of POST /users/profile.
type SaveProfileRequest struct {
	Email   string   `json:"email"`
	Profile *Profile `json:"profile"`
}

// CheckUsernameRequest is the body of POST /users/check-username.
type CheckUsernameRequest struct {
	Username     string `json:"username"`
	CurrentEmail string `json:"currentEmail"`
}
