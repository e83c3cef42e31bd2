package users

import (
	"context"
	"log/slog"

	"github.com/suydacity/syuda/internal/apperror"
)

// Service defines the business logic contract for profiles. Handlers call
// these methods -- they never touch the repository directly.
type Service interface {
	// GetProfile returns the stored profile for the email, passwordHash
	// included. Callers exposing this to the browser must strip it.
	GetProfile(ctx context.Context, email string) (*Profile, error)

	// SaveProfile writes the profile and keeps the username index
	// consistent with it.
	SaveProfile(ctx context.Context, email string, profile *Profile) error

	// CheckUsername reports whether the username is free, treating the
	// excluding email's own claim as free so users don't collide with
	// themselves when keeping their handle.
	CheckUsername(ctx context.Context, username, excludingEmail string) (bool, error)

	// DeleteProfile removes a profile and its username index entry. Only
	// the administrative danger-zone endpoints reach this.
	DeleteProfile(ctx context.Context, email string) error
}

// service implements Service.
type service struct {
	repo Repository
}

// NewService creates a new profile service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// GetProfile normalizes the email and looks up user:{email}.
func (s *service) GetProfile(ctx context.Context, email string) (*Profile, error) {
	normalized := NormalizeEmail(email)

	profile, err := s.repo.Get(ctx, normalized)
	if err != nil {
		return nil, apperror.NewStore("Failed to get profile", err)
	}
	if profile == nil {
		return nil, apperror.NewNotFound("Profile not found")
	}

	return profile, nil
}

// SaveProfile writes user:{email} and maintains the username index: when the
// username changed, the old entry is deleted before the new one is written.
// The index stores the normalized email so availability checks compare like
// with like.
func (s *service) SaveProfile(ctx context.Context, email string, profile *Profile) error {
	normalized := NormalizeEmail(email)

	old, err := s.repo.Get(ctx, normalized)
	if err != nil {
		return apperror.NewStore("Failed to save profile", err)
	}

	if old != nil && old.Username != "" && old.Username != profile.Username {
		if err := s.repo.DeleteUsername(ctx, old.Username); err != nil {
			return apperror.NewStore("Failed to save profile", err)
		}
	}

	if err := s.repo.Set(ctx, normalized, profile); err != nil {
		return apperror.NewStore("Failed to save profile", err)
	}

	if profile.Username != "" {
		if err := s.repo.SetUsernameOwner(ctx, profile.Username, normalized); err != nil {
			return apperror.NewStore("Failed to save profile", err)
		}
	}

	slog.Info("profile saved",
		slog.String("email", normalized),
		slog.String("username", profile.Username),
	)

	return nil
}

// CheckUsername prefixes "@" when missing and consults the index.
func (s *service) CheckUsername(ctx context.Context, username, excludingEmail string) (bool, error) {
	normalized := NormalizeUsername(username)

	owner, err := s.repo.UsernameOwner(ctx, normalized)
	if err != nil {
		return false, apperror.NewStore("Failed to check username", err)
	}

	if owner != "" && owner != NormalizeEmail(excludingEmail) {
		return false, nil
	}

	return true, nil
}

// DeleteProfile removes the username index entry first, then the profile.
func (s *service) DeleteProfile(ctx context.Context, email string) error {
	normalized := NormalizeEmail(email)

	profile, err := s.repo.Get(ctx, normalized)
	if err != nil {
		return apperror.NewStore("Failed to delete user", err)
	}
	if profile == nil {
		return apperror.NewNotFound("User not found")
	}

	if profile.Username != "" {
		if err := s.repo.DeleteUsername(ctx, profile.Username); err != nil {
			return apperror.NewStore("Failed to delete user", err)
		}
	}

	if err := s.repo.Delete(ctx, normalized); err != nil {
		return apperror.NewStore("Failed to delete user", err)
	}

	slog.Info("profile deleted", slog.String("email", normalized))

	return nil
}
