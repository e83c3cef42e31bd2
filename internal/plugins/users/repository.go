package users

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Key prefixes in the shared Redis namespace.
const (
	// userKeyPrefix maps a normalized email to its Profile JSON.
	userKeyPrefix = "user:"

	// usernameKeyPrefix maps a username to the normalized email that owns
	// it. This secondary index enforces the uniqueness constraint the
	// store itself has no notion of.
	usernameKeyPrefix = "username:"
)

// Repository defines the data access contract for profiles and the username
// index. Callers are expected to pass already-normalized emails.
type Repository interface {
	// Get returns the profile stored for the email, or (nil, nil) when
	// no profile exists.
	Get(ctx context.Context, email string) (*Profile, error)

	// Set writes the profile under the email key.
	Set(ctx context.Context, email string, profile *Profile) error

	// Delete removes the profile record.
	Delete(ctx context.Context, email string) error

	// UsernameOwner returns the email holding the username, or "" when
	// the username is free.
	UsernameOwner(ctx context.Context, username string) (string, error)

	// SetUsernameOwner installs an index entry username -> email.
	SetUsernameOwner(ctx context.Context, username, email string) error

	// DeleteUsername removes an index entry.
	DeleteUsername(ctx context.Context, username string) error
}

// repository implements Repository on the shared Redis client.
type repository struct {
	rdb *redis.Client
}

// NewRepository creates a Redis-backed profile repository.
func NewRepository(rdb *redis.Client) Repository {
	return &repository{rdb: rdb}
}

func (r *repository) Get(ctx context.Context, email string) (*Profile, error) {
	data, err := r.rdb.Get(ctx, userKeyPrefix+email).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("unmarshaling profile: %w", err)
	}

	return &profile, nil
}

func (r *repository) Set(ctx context.Context, email string, profile *Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}

	// Profiles never expire; TTL 0.
	if err := r.rdb.Set(ctx, userKeyPrefix+email, data, 0).Err(); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, email string) error {
	if err := r.rdb.Del(ctx, userKeyPrefix+email).Err(); err != nil {
		return fmt.Errorf("deleting profile: %w", err)
	}
	return nil
}

func (r *repository) UsernameOwner(ctx context.Context, username string) (string, error) {
	owner, err := r.rdb.Get(ctx, usernameKeyPrefix+username).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading username index: %w", err)
	}
	return owner, nil
}

func (r *repository) SetUsernameOwner(ctx context.Context, username, email string) error {
	if err := r.rdb.Set(ctx, usernameKeyPrefix+username, email, 0).Err(); err != nil {
		return fmt.Errorf("writing username index: %w", err)
	}
	return nil
}

func (r *repository) DeleteUsername(ctx context.Context, username string) error {
	if err := r.rdb.Del(ctx, usernameKeyPrefix+username).Err(); err != nil {
		return fmt.Errorf("deleting username index: %w", err)
	}
	return nil
}
