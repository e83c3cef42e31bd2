package session

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suydacity/syuda/internal/client/api"
)

// --- Fake Backend ---

type fakeBackend struct {
	requestLinkFn   func(ctx context.Context, email, mode string) error
	verifyFn        func(ctx context.Context, token string) (string, error)
	loginFn         func(ctx context.Context, email, password string) (*api.Profile, error)
	getProfileFn    func(ctx context.Context, email string) (*api.Profile, error)
	saveProfileFn   func(ctx context.Context, email string, profile *api.Profile) error
	checkUsernameFn func(ctx context.Context, username, currentEmail string) (bool, error)
	// Capture fields for assertions.
	savedProfile *api.Profile
	savedEmail   string
}

func (f *fakeBackend) RequestLink(ctx context.Context, email, mode string) error {
	if f.requestLinkFn != nil {
		return f.requestLinkFn(ctx, email, mode)
	}
	return nil
}

func (f *fakeBackend) Verify(ctx context.Context, token string) (string, error) {
	if f.verifyFn != nil {
		return f.verifyFn(ctx, token)
	}
	return "", &api.Error{Status: http.StatusUnauthorized, Message: "Token expired or invalid"}
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (*api.Profile, error) {
	if f.loginFn != nil {
		return f.loginFn(ctx, email, password)
	}
	return nil, &api.Error{Status: http.StatusUnauthorized, Message: "Неверный email или пароль"}
}

func (f *fakeBackend) GetProfile(ctx context.Context, email string) (*api.Profile, error) {
	if f.getProfileFn != nil {
		return f.getProfileFn(ctx, email)
	}
	return nil, &api.Error{Status: http.StatusNotFound, Message: "Profile not found"}
}

func (f *fakeBackend) SaveProfile(ctx context.Context, email string, profile *api.Profile) error {
	f.savedEmail = email
	f.savedProfile = profile
	if f.saveProfileFn != nil {
		return f.saveProfileFn(ctx, email, profile)
	}
	return nil
}

func (f *fakeBackend) CheckUsername(ctx context.Context, username, currentEmail string) (bool, error) {
	if f.checkUsernameFn != nil {
		return f.checkUsernameFn(ctx, username, currentEmail)
	}
	return true, nil
}

func aliceProfile() *api.Profile {
	return &api.Profile{Name: "Alice", Username: "@alice", Email: "alice@example.com"}
}

func profileSource(p *api.Profile) func(ctx context.Context, email string) (*api.Profile, error) {
	return func(ctx context.Context, email string) (*api.Profile, error) {
		if p != nil && email == p.Email {
			return p, nil
		}
		return nil, &api.Error{Status: http.StatusNotFound, Message: "Profile not found"}
	}
}

func newTestManager(backend *fakeBackend) (*Manager, Surfaces) {
	surfaces := NewMemorySurfaces()
	return NewManager(backend, surfaces), surfaces
}

// --- Resume ---

func TestResume_NoState(t *testing.T) {
	m, _ := newTestManager(&fakeBackend{})
	s := m.Resume(context.Background())
	assert.Equal(t, StateUnauthenticated, s.State)
}

func TestResume_CookiePrefersServerTruth(t *testing.T) {
	backend := &fakeBackend{getProfileFn: profileSource(aliceProfile())}
	m, surfaces := newTestManager(backend)

	surfaces.Cookies.Set("userEmail", "Alice@Example.com")

	s := m.Resume(context.Background())
	require.Equal(t, StateAuthenticated, s.State)
	assert.Equal(t, "alice@example.com", s.Email)
	require.NotNil(t, s.Profile)
	assert.Equal(t, "@alice", s.Profile.Username)
	assert.False(t, s.Fallback)

	// The fresh profile was cached for later fallback.
	_, ok := surfaces.Local.Get("userProfile")
	assert.True(t, ok)
}

func TestResume_FetchFailureFallsBackToCache(t *testing.T) {
	// First resume succeeds and populates the cache.
	backend := &fakeBackend{getProfileFn: profileSource(aliceProfile())}
	m, surfaces := newTestManager(backend)
	surfaces.Cookies.Set("userEmail", "alice@example.com")
	m.Resume(context.Background())

	// Later resume hits a dead server.
	backend.getProfileFn = func(ctx context.Context, email string) (*api.Profile, error) {
		return nil, errors.New("connection refused")
	}

	s := m.Resume(context.Background())
	require.Equal(t, StateAuthenticated, s.State)
	assert.True(t, s.Fallback)
	require.NotNil(t, s.Profile)
	assert.Equal(t, "Alice", s.Profile.Name)
}

func TestResume_FetchFailureWithoutCache(t *testing.T) {
	backend := &fakeBackend{
		getProfileFn: func(ctx context.Context, email string) (*api.Profile, error) {
			return nil, errors.New("connection refused")
		},
	}
	m, surfaces := newTestManager(backend)
	surfaces.Cookies.Set("userEmail", "alice@example.com")

	s := m.Resume(context.Background())
	assert.Equal(t, StateUnauthenticated, s.State)
}

func TestResume_DeletedAccountClearsCookie(t *testing.T) {
	m, surfaces := newTestManager(&fakeBackend{})
	surfaces.Cookies.Set("userEmail", "gone@example.com")
	surfaces.Local.Set("userProfile", `{"name":"Gone"}`)

	s := m.Resume(context.Background())
	assert.Equal(t, StateUnauthenticated, s.State)

	_, hasCookie := surfaces.Cookies.Get("userEmail")
	assert.False(t, hasCookie)
	_, hasCache := surfaces.Local.Get("userProfile")
	assert.False(t, hasCache)
}

func TestResume_LoggedOutMarkerWins(t *testing.T) {
	backend := &fakeBackend{getProfileFn: profileSource(aliceProfile())}
	m, surfaces := newTestManager(backend)

	surfaces.Cookies.Set("userEmail", "alice@example.com")
	surfaces.Tab.Set("loggedOut", "1")

	s := m.Resume(context.Background())
	assert.Equal(t, StateUnauthenticated, s.State)
}

func TestResume_PendingEmailResumesSetup(t *testing.T) {
	m, surfaces := newTestManager(&fakeBackend{})
	surfaces.Cookies.Set("pendingEmail", "new@example.com")

	s := m.Resume(context.Background())
	assert.Equal(t, StateProfileSetupRequired, s.State)
	assert.Equal(t, "new@example.com", s.Email)
}

// --- Magic link flow ---

func TestHandleCallback_ExistingProfileAuthenticates(t *testing.T) {
	backend := &fakeBackend{
		verifyFn: func(ctx context.Context, token string) (string, error) {
			return "alice@example.com", nil
		},
		getProfileFn: profileSource(aliceProfile()),
	}
	m, surfaces := newTestManager(backend)

	s, err := m.HandleCallback(context.Background(), "tok-abc")
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, s.State)
	assert.Equal(t, "alice@example.com", s.Email)

	email, ok := surfaces.Cookies.Get("userEmail")
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", email)
}

func TestHandleCallback_FreshEmailNeedsSetup(t *testing.T) {
	backend := &fakeBackend{
		verifyFn: func(ctx context.Context, token string) (string, error) {
			return "new@example.com", nil
		},
	}
	m, surfaces := newTestManager(backend)

	s, err := m.HandleCallback(context.Background(), "tok-abc")
	require.NoError(t, err)
	assert.Equal(t, StateProfileSetupRequired, s.State)
	assert.Equal(t, "new@example.com", s.Email)

	// The verified email is carried on both surfaces for the setup page.
	tab, _ := surfaces.Tab.Get("pendingEmail")
	cookie, _ := surfaces.Cookies.Get("pendingEmail")
	assert.Equal(t, "new@example.com", tab)
	assert.Equal(t, "new@example.com", cookie)
}

func TestHandleCallback_InvalidToken(t *testing.T) {
	m, _ := newTestManager(&fakeBackend{})

	_, err := m.HandleCallback(context.Background(), "tok-stale")
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	assert.Equal(t, StateUnauthenticated, m.Session().State)
}

func TestRequestLink_MovesToAwaiting(t *testing.T) {
	m, _ := newTestManager(&fakeBackend{})

	require.NoError(t, m.RequestLink(context.Background(), "alice@example.com", "login"))
	assert.Equal(t, StateAwaitingMagicLink, m.Session().State)
}

// --- Profile setup ---

func TestCompleteProfileSetup(t *testing.T) {
	backend := &fakeBackend{}
	m, surfaces := newTestManager(backend)
	surfaces.Tab.Set("pendingEmail", "new@example.com")

	s, err := m.CompleteProfileSetup(context.Background(), "Nina", "nina", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, s.State)
	assert.Equal(t, "new@example.com", s.Email)
	require.NotNil(t, s.Profile)
	assert.Empty(t, s.Profile.PasswordHash)

	// The saved profile carries the normalized username and the digest.
	require.NotNil(t, backend.savedProfile)
	assert.Equal(t, "@nina", backend.savedProfile.Username)
	assert.Len(t, backend.savedProfile.PasswordHash, 64)
	assert.NotEqual(t, "hunter22", backend.savedProfile.PasswordHash)

	// Pending markers are gone afterwards.
	_, hasTab := surfaces.Tab.Get("pendingEmail")
	_, hasCookie := surfaces.Cookies.Get("pendingEmail")
	assert.False(t, hasTab)
	assert.False(t, hasCookie)
}

func TestCompleteProfileSetup_UsernameTaken(t *testing.T) {
	backend := &fakeBackend{
		checkUsernameFn: func(ctx context.Context, username, currentEmail string) (bool, error) {
			return false, nil
		},
	}
	m, surfaces := newTestManager(backend)
	surfaces.Tab.Set("pendingEmail", "new@example.com")

	_, err := m.CompleteProfileSetup(context.Background(), "Nina", "nina", "hunter22")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestCompleteProfileSetup_ShortPassword(t *testing.T) {
	m, surfaces := newTestManager(&fakeBackend{})
	surfaces.Tab.Set("pendingEmail", "new@example.com")

	_, err := m.CompleteProfileSetup(context.Background(), "Nina", "nina", "12345")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestCompleteProfileSetup_NoPasswordStaysLinkOnly(t *testing.T) {
	backend := &fakeBackend{}
	m, surfaces := newTestManager(backend)
	surfaces.Tab.Set("pendingEmail", "new@example.com")

	s, err := m.CompleteProfileSetup(context.Background(), "Nina", "nina", "")
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, s.State)
	require.NotNil(t, backend.savedProfile)
	assert.Empty(t, backend.savedProfile.PasswordHash)
}

func TestCompleteProfileSetup_NoPendingEmail(t *testing.T) {
	m, _ := newTestManager(&fakeBackend{})
	_, err := m.CompleteProfileSetup(context.Background(), "Nina", "nina", "hunter22")
	assert.ErrorIs(t, err, ErrNoPendingEmail)
}

// --- Password login ---

func TestLoginWithPassword(t *testing.T) {
	backend := &fakeBackend{
		loginFn: func(ctx context.Context, email, password string) (*api.Profile, error) {
			return aliceProfile(), nil
		},
	}
	m, surfaces := newTestManager(backend)

	s, err := m.LoginWithPassword(context.Background(), "Alice@Example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, s.State)
	assert.Equal(t, "alice@example.com", s.Email)

	email, _ := surfaces.Cookies.Get("userEmail")
	assert.Equal(t, "alice@example.com", email)
}

func TestLoginWithPassword_BadCredentials(t *testing.T) {
	m, _ := newTestManager(&fakeBackend{})

	_, err := m.LoginWithPassword(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	assert.Equal(t, StateUnauthenticated, m.Session().State)
}

// --- Logout ---

func TestLogout_ClearsStateAndBlocksResume(t *testing.T) {
	backend := &fakeBackend{getProfileFn: profileSource(aliceProfile())}
	m, surfaces := newTestManager(backend)
	surfaces.Cookies.Set("userEmail", "alice@example.com")
	m.Resume(context.Background())
	require.Equal(t, StateAuthenticated, m.Session().State)

	m.Logout()
	assert.Equal(t, StateUnauthenticated, m.Session().State)

	_, hasCookie := surfaces.Cookies.Get("userEmail")
	_, hasCache := surfaces.Local.Get("userProfile")
	assert.False(t, hasCookie)
	assert.False(t, hasCache)

	// A stale cookie written by another tab cannot re-hydrate this one.
	surfaces.Cookies.Set("userEmail", "alice@example.com")
	s := m.Resume(context.Background())
	assert.Equal(t, StateUnauthenticated, s.State)
}

func TestAuthenticateClearsLoggedOutMarker(t *testing.T) {
	backend := &fakeBackend{
		loginFn: func(ctx context.Context, email, password string) (*api.Profile, error) {
			return aliceProfile(), nil
		},
	}
	m, surfaces := newTestManager(backend)
	m.Logout()

	_, err := m.LoginWithPassword(context.Background(), "alice@example.com", "hunter22")
	require.NoError(t, err)

	_, marked := surfaces.Tab.Get("loggedOut")
	assert.False(t, marked)
}

// --- Entry-form transitions ---

func TestEntryTransitions(t *testing.T) {
	m, _ := newTestManager(&fakeBackend{})

	assert.Equal(t, StateAwaitingCredentials, m.Begin().State)
	assert.Equal(t, StateAwaitingPassword, m.ChoosePassword().State)
}
