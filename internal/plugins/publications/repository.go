package publications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Key layout. Earlier revisions kept one aggregate list under a single key
// and rewrote it wholesale on every mutation, which loses updates under
// concurrent writes. Records now live under per-publication keys with a
// sorted set as the listing index, so creates and deletes touch disjoint
// keys and nothing is rewritten wholesale.
const (
	// publicationKeyPrefix maps an id to its Publication JSON.
	publicationKeyPrefix = "publication:"

	// indexKey is a sorted set of publication ids scored by createdAt
	// (epoch millis). Publications without createdAt score 0 and
	// therefore land at the end of the newest-first listing.
	indexKey = "publications:index"
)

// Repository defines the data access contract for publications.
type Repository interface {
	// Save writes the record and its index entry. Saving an existing id
	// replaces the record.
	Save(ctx context.Context, p *Publication) error

	// List returns all publications newest-first.
	List(ctx context.Context) ([]Publication, error)

	// Delete removes the record and index entry for the id. Removing an
	// unknown id is a no-op.
	Delete(ctx context.Context, id string) error

	// DeleteAll clears every publication and the index.
	DeleteAll(ctx context.Context) error
}

// repository implements Repository on the shared Redis client.
type repository struct {
	rdb *redis.Client
}

// NewRepository creates a Redis-backed publication repository.
func NewRepository(rdb *redis.Client) Repository {
	return &repository{rdb: rdb}
}

// Save writes the record and index entry in one transaction so the listing
// never sees an indexed id without a record.
func (r *repository) Save(ctx context.Context, p *Publication) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling publication: %w", err)
	}

	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, publicationKeyPrefix+p.ID, data, 0)
	pipe.ZAdd(ctx, indexKey, redis.Z{
		Score:  float64(p.CreatedAt),
		Member: p.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("storing publication: %w", err)
	}

	return nil
}

// List walks the index newest-first and fetches the records. Index entries
// whose record vanished are skipped rather than failing the whole listing.
func (r *repository) List(ctx context.Context) ([]Publication, error) {
	ids, err := r.rdb.ZRevRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading publication index: %w", err)
	}
	if len(ids) == 0 {
		return []Publication{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = publicationKeyPrefix + id
	}

	values, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("reading publications: %w", err)
	}

	out := make([]Publication, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var p Publication
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			continue
		}
		out = append(out, p)
	}

	return out, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	pipe := r.rdb.TxPipeline()
	pipe.ZRem(ctx, indexKey, id)
	pipe.Del(ctx, publicationKeyPrefix+id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("deleting publication: %w", err)
	}
	return nil
}

func (r *repository) DeleteAll(ctx context.Context) error {
	ids, err := r.rdb.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("reading publication index: %w", err)
	}

	pipe := r.rdb.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, publicationKeyPrefix+id)
	}
	pipe.Del(ctx, indexKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("clearing publications: %w", err)
	}

	return nil
}
