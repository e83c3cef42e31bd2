package publications

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/suydacity/syuda/internal/apperror"
)

// --- Mock Repository ---

type mockRepo struct {
	saveFn      func(ctx context.Context, p *Publication) error
	listFn      func(ctx context.Context) ([]Publication, error)
	deleteFn    func(ctx context.Context, id string) error
	deleteAllFn func(ctx context.Context) error
	saveCount   int
}

func (m *mockRepo) Save(ctx context.Context, p *Publication) error {
	m.saveCount++
	if m.saveFn != nil {
		return m.saveFn(ctx, p)
	}
	return nil
}

func (m *mockRepo) List(ctx context.Context) ([]Publication, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []Publication{}, nil
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockRepo) DeleteAll(ctx context.Context) error {
	if m.deleteAllFn != nil {
		return m.deleteAllFn(ctx)
	}
	return nil
}

// assertAppError checks that err is an *apperror.AppError with the expected code.
func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

func validPublication() *Publication {
	return &Publication{
		ID:        "1724000000000",
		Name:      "Coffee spots",
		ImageURLs: []string{"https://cdn.example.com/a.jpg"},
		ItemCount: 3,
		UserID:    "alice@example.com",
		CreatedAt: 1724000000000,
	}
}

func TestCreate_Success(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	if err := svc.Create(context.Background(), validPublication()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.saveCount != 1 {
		t.Errorf("expected 1 save, got %d", repo.saveCount)
	}
}

func TestCreate_MissingFields(t *testing.T) {
	svc := NewService(&mockRepo{})

	cases := map[string]*Publication{
		"no id":     {Name: "x", ImageURLs: []string{"a"}},
		"no name":   {ID: "1", ImageURLs: []string{"a"}},
		"no images": {ID: "1", Name: "x"},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			assertAppError(t, svc.Create(context.Background(), p), http.StatusBadRequest)
		})
	}
}

func TestCreate_DescriptionTooLong(t *testing.T) {
	svc := NewService(&mockRepo{})

	p := validPublication()
	p.Description = strings.Repeat("x", 301)
	assertAppError(t, svc.Create(context.Background(), p), http.StatusBadRequest)

	p.Description = strings.Repeat("x", 300)
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("expected 300 characters to pass, got %v", err)
	}
}

func TestDelete_RequiresID(t *testing.T) {
	svc := NewService(&mockRepo{})
	assertAppError(t, svc.Delete(context.Background(), ""), http.StatusBadRequest)
}

func TestDelete_StoreError(t *testing.T) {
	repo := &mockRepo{
		deleteFn: func(ctx context.Context, id string) error {
			return errors.New("connection refused")
		},
	}
	svc := NewService(repo)
	assertAppError(t, svc.Delete(context.Background(), "1"), http.StatusInternalServerError)
}

func TestList_StoreError(t *testing.T) {
	repo := &mockRepo{
		listFn: func(ctx context.Context) ([]Publication, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := NewService(repo)
	_, err := svc.List(context.Background())
	assertAppError(t, err, http.StatusInternalServerError)
}
