package publications

import (
	"context"
	"log/slog"

	"github.com/suydacity/syuda/internal/apperror"
)

// Service defines the business logic contract for publications.
type Service interface {
	// Create validates and stores a publication.
	Create(ctx context.Context, p *Publication) error

	// List returns all publications across all users, newest-first.
	// Filtering by owner is the caller's concern.
	List(ctx context.Context) ([]Publication, error)

	// Delete removes a publication by id. Deleting an id that does not
	// exist succeeds; the operation is an idempotent no-op.
	//
	// No ownership check: any caller who knows an id can delete the
	// publication. Matches the wire contract clients already rely on.
	Delete(ctx context.Context, id string) error

	// DeleteAll wipes every publication. Admin-only.
	DeleteAll(ctx context.Context) error
}

// service implements Service.
type service struct {
	repo Repository
}

// NewService creates a new publication service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, p *Publication) error {
	if p.ID == "" || p.Name == "" || len(p.ImageURLs) == 0 {
		return apperror.NewValidation("Invalid publication data")
	}
	if len(p.Description) > maxDescriptionLength {
		return apperror.NewValidation("Description must be at most 300 characters")
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return apperror.NewStore("Failed to create publication", err)
	}

	slog.Info("publication created",
		slog.String("id", p.ID),
		slog.String("user", p.UserID),
	)

	return nil
}

func (s *service) List(ctx context.Context) ([]Publication, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.NewStore("Failed to get publications", err)
	}
	return list, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperror.NewValidation("Publication ID is required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.NewStore("Failed to delete publication", err)
	}

	slog.Info("publication deleted", slog.String("id", id))

	return nil
}

func (s *service) DeleteAll(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return apperror.NewStore("Failed to clear data", err)
	}
	return nil
}
