package publications

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRepo(t *testing.T) Repository {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRepository(rdb)
}

func TestRepository_ListNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, p := range []Publication{
		{ID: "1", Name: "first", ImageURLs: []string{"a"}, CreatedAt: 1000},
		{ID: "3", Name: "third", ImageURLs: []string{"c"}, CreatedAt: 3000},
		{ID: "2", Name: "second", ImageURLs: []string{"b"}, CreatedAt: 2000},
	} {
		p := p
		if err := repo.Save(ctx, &p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 publications, got %d", len(list))
	}
	for i, want := range []string{"3", "2", "1"} {
		if list[i].ID != want {
			t.Errorf("position %d: expected id %s, got %s", i, want, list[i].ID)
		}
	}
}

func TestRepository_MissingCreatedAtSortsLast(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, &Publication{ID: "dated", Name: "a", ImageURLs: []string{"x"}, CreatedAt: 500}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Save(ctx, &Publication{ID: "undated", Name: "b", ImageURLs: []string{"y"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 publications, got %d", len(list))
	}
	if list[1].ID != "undated" {
		t.Errorf("expected undated publication last, got order %s, %s", list[0].ID, list[1].ID)
	}
}

func TestRepository_SaveSameIDReplaces(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, &Publication{ID: "1", Name: "old", ImageURLs: []string{"a"}, CreatedAt: 1000}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Save(ctx, &Publication{ID: "1", Name: "new", ImageURLs: []string{"b"}, CreatedAt: 2000}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 publication, got %d", len(list))
	}
	if list[0].Name != "new" {
		t.Errorf("expected replaced record, got %s", list[0].Name)
	}
}

func TestRepository_DeleteIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, &Publication{ID: "1", Name: "a", ImageURLs: []string{"x"}, CreatedAt: 1000}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := repo.Delete(ctx, "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Delete(ctx, "1"); err != nil {
		t.Fatalf("expected repeat delete to succeed, got %v", err)
	}
	if err := repo.Delete(ctx, "never-existed"); err != nil {
		t.Fatalf("expected unknown-id delete to succeed, got %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty listing, got %d", len(list))
	}
}

func TestRepository_DeleteAll(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3"} {
		if err := repo.Save(ctx, &Publication{ID: id, Name: "p" + id, ImageURLs: []string{"x"}, CreatedAt: 1000}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if err := repo.DeleteAll(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty listing, got %d", len(list))
	}
}
