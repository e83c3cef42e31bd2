package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"

	"github.com/suydacity/syuda/internal/client/api"
)

// Storage keys across the three surfaces.
const (
	// cookieUserEmail is the durable identity cookie (30-day max-age in
	// the browser build).
	cookieUserEmail = "userEmail"

	// cookiePendingEmail carries a verified email from magic-link
	// redemption into a separate profile-setup page load (1-hour
	// max-age in the browser build).
	cookiePendingEmail = "pendingEmail"

	// localProfile caches the last-known profile JSON.
	localProfile = "userProfile"

	// tabPendingEmail is the tab-scoped copy of the verified email.
	tabPendingEmail = "pendingEmail"

	// tabLoggedOut suppresses re-hydration from stale cookies for the
	// remainder of the tab's life after an explicit logout.
	tabLoggedOut = "loggedOut"
)

// State is a position in the authentication lifecycle.
type State string

const (
	// StateUnauthenticated is the initial state: no identity.
	StateUnauthenticated State = "unauthenticated"

	// StateAwaitingCredentials means the visitor is at the entry form,
	// choosing between a magic link and a password.
	StateAwaitingCredentials State = "awaiting-credentials"

	// StateAwaitingMagicLink means a link was emailed and the visitor
	// has not followed it yet.
	StateAwaitingMagicLink State = "awaiting-magic-link"

	// StateAwaitingPassword means the visitor chose password entry over
	// a magic link and has not submitted yet.
	StateAwaitingPassword State = "awaiting-password"

	// StateProfileSetupRequired means a token verified an email with no
	// profile behind it; name+username+password are needed.
	StateProfileSetupRequired State = "profile-setup-required"

	// StateAuthenticated is the terminal success state.
	StateAuthenticated State = "authenticated"
)

// Session is the derived authentication state. It is a value threaded
// through the client rather than ambient global reads.
type Session struct {
	State State

	// Email is the active identity, always normalized. Set in
	// StateAuthenticated and StateProfileSetupRequired.
	Email string

	// Profile is the active profile in StateAuthenticated.
	Profile *api.Profile

	// Fallback marks a session hydrated from the local cache because
	// the authoritative fetch failed. Display-only: mutations should
	// not be trusted to it.
	Fallback bool
}

// Backend is the slice of the API client the session machine uses.
type Backend interface {
	RequestLink(ctx context.Context, email, mode string) error
	Verify(ctx context.Context, token string) (string, error)
	Login(ctx context.Context, email, password string) (*api.Profile, error)
	GetProfile(ctx context.Context, email string) (*api.Profile, error)
	SaveProfile(ctx context.Context, email string, profile *api.Profile) error
	CheckUsername(ctx context.Context, username, currentEmail string) (bool, error)
}

// ErrUsernameTaken is returned from CompleteProfileSetup when the chosen
// username belongs to someone else.
var ErrUsernameTaken = errors.New("username is already taken")

// ErrNoPendingEmail is returned from CompleteProfileSetup when no verified
// email is carried forward -- the setup flow was entered without a
// redeemed token.
var ErrNoPendingEmail = errors.New("no verified email for profile setup")

// ErrPasswordTooShort is returned from CompleteProfileSetup when a password
// is given but shorter than six characters. An empty password is allowed:
// the account stays link-only.
var ErrPasswordTooShort = errors.New("password must be at least 6 characters")

// Manager drives the session lifecycle against a Backend and the three
// persistence surfaces.
type Manager struct {
	backend  Backend
	surfaces Surfaces
	session  Session
}

// NewManager creates a manager in StateUnauthenticated. Call Resume to
// re-derive the session from persisted state.
func NewManager(backend Backend, surfaces Surfaces) *Manager {
	return &Manager{
		backend:  backend,
		surfaces: surfaces,
		session:  Session{State: StateUnauthenticated},
	}
}

// Session returns the current session value.
func (m *Manager) Session() Session {
	return m.session
}

// Resume re-derives the session from persisted state, preferring server
// truth: cookie email -> authoritative profile fetch -> authenticated. When
// the fetch fails, the locally cached profile serves as a display fallback.
// Re-deriving from the same cookie is idempotent.
func (m *Manager) Resume(ctx context.Context) Session {
	// An explicit logout in this tab wins over any stale cookie still
	// present in the browser.
	if _, loggedOut := m.surfaces.Tab.Get(tabLoggedOut); loggedOut {
		m.session = Session{State: StateUnauthenticated}
		return m.session
	}

	email, ok := m.surfaces.Cookies.Get(cookieUserEmail)
	if !ok || email == "" {
		// No durable identity; a pending profile setup may be in
		// flight from a previous page load.
		if pending, ok := m.pendingEmail(); ok {
			m.session = Session{State: StateProfileSetupRequired, Email: pending}
			return m.session
		}
		m.session = Session{State: StateUnauthenticated}
		return m.session
	}

	normalized := normalizeEmail(email)

	profile, err := m.backend.GetProfile(ctx, normalized)
	if err == nil {
		m.establish(normalized, profile)
		return m.session
	}

	if api.IsNotFound(err) {
		// The cookie points at an account that no longer exists.
		m.surfaces.Cookies.Remove(cookieUserEmail)
		m.surfaces.Local.Remove(localProfile)
		m.session = Session{State: StateUnauthenticated}
		return m.session
	}

	// Fetch failed (network, server). Fall back to the cached copy for
	// display until a later Resume succeeds.
	if cached := m.cachedProfile(); cached != nil {
		m.session = Session{
			State:    StateAuthenticated,
			Email:    normalized,
			Profile:  cached,
			Fallback: true,
		}
		return m.session
	}

	m.session = Session{State: StateUnauthenticated}
	return m.session
}

// Begin moves an unauthenticated session to the credential entry form.
func (m *Manager) Begin() Session {
	if m.session.State == StateUnauthenticated {
		m.session = Session{State: StateAwaitingCredentials}
	}
	return m.session
}

// ChoosePassword moves from the entry form to password entry.
func (m *Manager) ChoosePassword() Session {
	if m.session.State == StateAwaitingCredentials {
		m.session = Session{State: StateAwaitingPassword}
	}
	return m.session
}

// RequestLink asks for a magic link and moves to StateAwaitingMagicLink.
func (m *Manager) RequestLink(ctx context.Context, email, mode string) error {
	if err := m.backend.RequestLink(ctx, email, mode); err != nil {
		return err
	}
	m.session = Session{State: StateAwaitingMagicLink}
	return nil
}

// HandleCallback redeems the token from a magic-link URL. An email with an
// existing profile authenticates directly; a fresh email moves to profile
// setup carrying the verified email forward -- it is not re-verified at
// submission time.
func (m *Manager) HandleCallback(ctx context.Context, token string) (Session, error) {
	email, err := m.backend.Verify(ctx, token)
	if err != nil {
		return m.session, err
	}

	normalized := normalizeEmail(email)

	profile, err := m.backend.GetProfile(ctx, normalized)
	if err == nil {
		m.establish(normalized, profile)
		return m.session, nil
	}
	if !api.IsNotFound(err) {
		return m.session, err
	}

	// First-time visitor: carry the verified email into profile setup on
	// both the tab surface (same-tab flow) and a cookie (separate page
	// load).
	m.surfaces.Tab.Set(tabPendingEmail, normalized)
	m.surfaces.Cookies.Set(cookiePendingEmail, normalized)

	m.session = Session{State: StateProfileSetupRequired, Email: normalized}
	return m.session, nil
}

// LoginWithPassword authenticates directly with email+password.
func (m *Manager) LoginWithPassword(ctx context.Context, email, password string) (Session, error) {
	profile, err := m.backend.Login(ctx, email, password)
	if err != nil {
		return m.session, err
	}

	m.establish(normalizeEmail(email), profile)
	return m.session, nil
}

// CompleteProfileSetup finishes registration for a verified email: checks
// username availability, hashes the password, and saves the profile.
func (m *Manager) CompleteProfileSetup(ctx context.Context, name, username, password string) (Session, error) {
	email, ok := m.pendingEmail()
	if !ok {
		return m.session, ErrNoPendingEmail
	}

	if password != "" && len(password) < 6 {
		return m.session, ErrPasswordTooShort
	}

	username = normalizeUsername(username)

	available, err := m.backend.CheckUsername(ctx, username, email)
	if err != nil {
		return m.session, err
	}
	if !available {
		return m.session, ErrUsernameTaken
	}

	profile := &api.Profile{
		Name:     strings.TrimSpace(name),
		Username: username,
		Email:    email,
	}
	if password != "" {
		profile.PasswordHash = hashPassword(password)
	}

	if err := m.backend.SaveProfile(ctx, email, profile); err != nil {
		return m.session, err
	}

	// Setup done; the pending markers have served their purpose.
	m.surfaces.Tab.Remove(tabPendingEmail)
	m.surfaces.Cookies.Remove(cookiePendingEmail)

	m.establish(email, stripPassword(profile))
	return m.session, nil
}

// Logout clears the durable identity, caches a tab-scoped marker so stale
// cookies can't re-hydrate the session in this tab, and returns to
// StateUnauthenticated.
func (m *Manager) Logout() {
	m.surfaces.Cookies.Remove(cookieUserEmail)
	m.surfaces.Local.Remove(localProfile)
	m.surfaces.Tab.Set(tabLoggedOut, "1")

	m.session = Session{State: StateUnauthenticated}
}

// --- internals ---

// establish records an authenticated session on every surface: cookie for
// cross-restart identity, local cache for display fallback.
func (m *Manager) establish(email string, profile *api.Profile) {
	m.surfaces.Cookies.Set(cookieUserEmail, email)
	if data, err := json.Marshal(profile); err == nil {
		m.surfaces.Local.Set(localProfile, string(data))
	}
	m.surfaces.Tab.Remove(tabLoggedOut)

	m.session = Session{
		State:   StateAuthenticated,
		Email:   email,
		Profile: profile,
	}
}

// pendingEmail returns the verified email carried from a magic-link
// redemption, preferring the tab surface over the cookie.
func (m *Manager) pendingEmail() (string, bool) {
	if email, ok := m.surfaces.Tab.Get(tabPendingEmail); ok && email != "" {
		return normalizeEmail(email), true
	}
	if email, ok := m.surfaces.Cookies.Get(cookiePendingEmail); ok && email != "" {
		return normalizeEmail(email), true
	}
	return "", false
}

// cachedProfile parses the locally cached profile, if any.
func (m *Manager) cachedProfile() *api.Profile {
	raw, ok := m.surfaces.Local.Get(localProfile)
	if !ok || raw == "" {
		return nil
	}
	var profile api.Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil
	}
	return &profile
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeUsername(username string) string {
	username = strings.TrimSpace(username)
	if username == "" || strings.HasPrefix(username, "@") {
		return username
	}
	return "@" + username
}

// hashPassword mirrors the server's digest so the stored hash verifies on
// password login.
func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// stripPassword copies the profile without its hash before it is held in
// memory or cached locally.
func stripPassword(p *api.Profile) *api.Profile {
	out := *p
	out.PasswordHash = ""
	return &out
}
