package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/suydacity/syuda/internal/apperror"
	"github.com/suydacity/syuda/internal/mailer"
	"github.com/suydacity/syuda/internal/plugins/users"
)

// tokenBytes is the entropy of a magic-link token. 32 bytes = 256 bits,
// hex-encoded to 64 characters.
const tokenBytes = 32

// minTokenLength is a sanity floor on redeemed tokens; anything shorter is
// rejected before touching the store.
const minTokenLength = 10

// ProfileSource is the slice of the users repository this package needs:
// profile lookup during password login. Keeps the dependency one-way.
type ProfileSource interface {
	Get(ctx context.Context, email string) (*users.Profile, error)
}

// Service defines the business logic contract for authentication.
type Service interface {
	// RequestLink issues a one-time token and emails a redemption link
	// built against baseURL.
	RequestLink(ctx context.Context, email, mode, baseURL string) error

	// Redeem consumes a token exactly once and returns the associated
	// email.
	Redeem(ctx context.Context, token string) (string, error)

	// Login validates email+password and returns the profile with the
	// passwordHash stripped.
	Login(ctx context.Context, email, password string) (*users.Profile, error)
}

// service implements Service.
type service struct {
	tokens   TokenRepository
	profiles ProfileSource
	mail     mailer.Sender
	linkTTL  time.Duration
}

// NewService creates a new auth service with the given dependencies.
func NewService(tokens TokenRepository, profiles ProfileSource, mail mailer.Sender, linkTTL time.Duration) Service {
	return &service{
		tokens:   tokens,
		profiles: profiles,
		mail:     mail,
		linkTTL:  linkTTL,
	}
}

// RequestLink generates a token, stores its hash with the configured TTL,
// and emails the plaintext token embedded in a redemption URL.
func (s *service) RequestLink(ctx context.Context, email, mode, baseURL string) error {
	if !strings.Contains(email, "@") {
		return apperror.NewValidation("Invalid email")
	}

	if !s.mail.IsConfigured() {
		return apperror.NewConfiguration("Missing BREVO_API_KEY env var")
	}

	normalized := users.NormalizeEmail(email)

	if mode != ModeLogin {
		mode = ModeRegister
	}

	token, err := generateToken()
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("generating token: %w", err))
	}

	record := TokenRecord{Email: normalized, Mode: mode}
	if err := s.tokens.Save(ctx, hashToken(token), record, s.linkTTL); err != nil {
		return apperror.NewStore("Failed to send magic link", err)
	}

	link := fmt.Sprintf("%s/auth/callback?token=%s", baseURL, url.QueryEscape(token))

	subject, body, err := buildEmail(mode, link)
	if err != nil {
		return apperror.NewInternal(err)
	}

	if err := s.mail.Send(ctx, normalized, subject, body); err != nil {
		return err
	}

	slog.Info("magic link issued",
		slog.String("email", normalized),
		slog.String("mode", mode),
	)

	return nil
}

// Redeem hashes the token, atomically consumes the stored record, and
// returns its email. A second redemption of the same token fails the same
// way an unknown or expired token does.
func (s *service) Redeem(ctx context.Context, token string) (string, error) {
	if len(token) < minTokenLength {
		return "", apperror.NewValidation("Invalid token")
	}

	record, err := s.tokens.Consume(ctx, hashToken(token))
	if err != nil {
		return "", apperror.NewStore("Failed to verify token", err)
	}
	if record == nil || record.Email == "" {
		return "", apperror.NewUnauthorized("Token expired or invalid")
	}

	slog.Info("magic link redeemed",
		slog.String("email", record.Email),
		slog.String("mode", record.Mode),
	)

	return record.Email, nil
}

// Login fetches the profile and compares password digests in constant time.
// A missing profile and a wrong password produce the same error so callers
// cannot enumerate registered emails.
func (s *service) Login(ctx context.Context, email, password string) (*users.Profile, error) {
	normalized := users.NormalizeEmail(email)

	profile, err := s.profiles.Get(ctx, normalized)
	if err != nil {
		return nil, apperror.NewStore("Ошибка при входе", err)
	}
	if profile == nil {
		return nil, apperror.NewUnauthorized("Неверный email или пароль")
	}

	if profile.PasswordHash == "" {
		// Account created through the magic-link flow without ever
		// setting a password. Distinct message steering back to links.
		return nil, newNoPasswordSet()
	}

	if !verifyPassword(password, profile.PasswordHash) {
		return nil, apperror.NewUnauthorized("Неверный email или пароль")
	}

	slog.Info("password login", slog.String("email", normalized))

	return profile.WithoutPassword(), nil
}

// newNoPasswordSet builds the 401 returned when the account has no password.
// The handler recognizes the type and adds the needsPassword hint field.
func newNoPasswordSet() *apperror.AppError {
	return &apperror.AppError{
		Code:    http.StatusUnauthorized,
		Type:    "no_password_set",
		Message: "Для этого аккаунта не установлен пароль. Используйте вход по ссылке из email или установите пароль в настройках профиля.",
	}
}

// generateToken creates a cryptographically random hex-encoded token.
func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
