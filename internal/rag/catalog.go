package rag

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ragpanel/ragpanel/backend/go-services/internal/panel"
	"github.com/ragpanel/ragpanel/backend/go-services/pkg/querycache"
)

// CachedCatalog builds a model-catalog source that reads the backend's
// /models/available endpoint through the query cache. The full catalog is
// cached under one key; the search filter runs locally so every query shares
// the same cached fetch.
func CachedCatalog(cache *querycache.Cache, client *Client) func(ctx context.Context, search string) ([]panel.Model, error) {
	key := client.BaseURL() + "/models/available"
	return func(ctx context.Context, search string) ([]panel.Model, error) {
		raw, err := cache.Fetch(ctx, key, func(ctx context.Context) ([]byte, error) {
			return client.GetJSON(ctx, "/models/available", "")
		})
		if err != nil {
			return nil, fmt.Errorf("fetch model catalog: %w", err)
		}
		var all []panel.Model
		if err := json.Unmarshal(raw, &all); err != nil {
			return nil, fmt.Errorf("decode model catalog: %w", err)
		}
		out := make([]panel.Model, 0, len(all))
		for _, m := range all {
			if m.Matches(search) {
				out = append(out, m)
			}
		}
		return out, nil
	}
}
