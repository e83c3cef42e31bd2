package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// magicLinkKeyPrefix is the Redis key prefix for magic-link token records.
const magicLinkKeyPrefix = "magiclink:"

// TokenRepository defines the data access contract for one-time tokens.
type TokenRepository interface {
	// Save stores tokenHash -> record with the given TTL.
	Save(ctx context.Context, tokenHash string, record TokenRecord, ttl time.Duration) error

	// Consume atomically reads and deletes the record for tokenHash.
	// Returns (nil, nil) when no record exists: never issued, already
	// redeemed, and expired all look the same to the caller.
	Consume(ctx context.Context, tokenHash string) (*TokenRecord, error)
}

// tokenRepository implements TokenRepository on the shared Redis client.
type tokenRepository struct {
	rdb *redis.Client
}

// NewTokenRepository creates a Redis-backed token repository.
func NewTokenRepository(rdb *redis.Client) TokenRepository {
	return &tokenRepository{rdb: rdb}
}

func (r *tokenRepository) Save(ctx context.Context, tokenHash string, record TokenRecord, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling token record: %w", err)
	}

	if err := r.rdb.Set(ctx, magicLinkKeyPrefix+tokenHash, data, ttl).Err(); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}

	return nil
}

// Consume uses GETDEL so the read and the delete are one atomic step.
// Two concurrent redemptions of the same token cannot both succeed.
func (r *tokenRepository) Consume(ctx context.Context, tokenHash string) (*TokenRecord, error) {
	data, err := r.rdb.GetDel(ctx, magicLinkKeyPrefix+tokenHash).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("consuming token: %w", err)
	}

	var record TokenRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshaling token record: %w", err)
	}

	return &record, nil
}
