package querycache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPersister stores entries as JSON under "<prefix><key>" with a TTL
// matching the cache's garbage-collection window. Entries written under a
// different buster token are discarded on load, which invalidates the whole
// persisted cache in one deployment step.
type RedisPersister struct {
	client *redis.Client
	prefix string
	buster string
	maxAge time.Duration
}

func NewRedisPersister(client *redis.Client, prefix, buster string, maxAge time.Duration) *RedisPersister {
	if prefix == "" {
		prefix = "querycache:"
	}
	if maxAge <= 0 {
		maxAge = DefaultGCTime
	}
	return &RedisPersister{client: client, prefix: prefix, buster: buster, maxAge: maxAge}
}

func (r *RedisPersister) key(k string) string {
	return r.prefix + k
}

func (r *RedisPersister) Save(ctx context.Context, key string, e *PersistedEntry) error {
	e.Buster = r.buster
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(key), b, r.maxAge).Err()
}

func (r *RedisPersister) Load(ctx context.Context, key string) (*PersistedEntry, error) {
	b, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var e PersistedEntry
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, err
	}
	// stale buster or over-age snapshot: treat as missing
	if e.Buster != r.buster || time.Since(e.UpdatedAt) >= r.maxAge {
		_ = r.client.Del(ctx, r.key(key)).Err()
		return nil, nil
	}
	return &e, nil
}
