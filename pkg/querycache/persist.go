package querycache

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// PersistedEntry is the durable form of a cache entry.
type PersistedEntry struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
	Buster    string          `json:"buster,omitempty"`
}

// Persister mirrors cache entries to durable storage. Implementations must
// tolerate being called concurrently; failures are logged, never surfaced
// to cache readers.
type Persister interface {
	Save(ctx context.Context, key string, e *PersistedEntry) error
	Load(ctx context.Context, key string) (*PersistedEntry, error)
}

// NoopPersister keeps the cache memory-only. Used when Redis is not
// configured so construction never branches on storage availability.
type NoopPersister struct{}

func (NoopPersister) Save(ctx context.Context, key string, e *PersistedEntry) error { return nil }
func (NoopPersister) Load(ctx context.Context, key string) (*PersistedEntry, error) {
	return nil, nil
}

// GetJSON is the generic fetch helper: the endpoint URL doubles as the cache
// key and any non-success status becomes an error carrying the status code.
func (c *Cache) GetJSON(ctx context.Context, hc *http.Client, url string) (json.RawMessage, error) {
	if hc == nil {
		hc = http.DefaultClient
	}
	return c.Fetch(ctx, url, func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := hc.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &StatusError{Code: resp.StatusCode, URL: url}
		}
		return readAll(resp)
	})
}
