package grouping

import (
	"encoding/json"
	"fmt"

	"github.com/toolshelf/toolshelf/internal/store"
)

// CacheSnapshotKey names the group cache snapshot in the durable store.
const CacheSnapshotKey = "group_cache"

// LoadCache restores a GroupCache from the store, or returns an empty cache
// when no snapshot exists.
func LoadCache(st *store.Store, capacity int) (*GroupCache, error) {
	cache := NewGroupCache(capacity)
	payload, err := st.LoadSnapshot(CacheSnapshotKey)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return cache, nil
	}
	if err := json.Unmarshal(payload, cache); err != nil {
		return nil, fmt.Errorf("restore group cache: %w", err)
	}
	return cache, nil
}

// SaveCache writes the cache's current state to the store.
func SaveCache(st *store.Store, cache *GroupCache) error {
	payload, err := json.Marshal(cache)
	if err != nil {
		return fmt.Errorf("serialize group cache: %w", err)
	}
	return st.SaveSnapshot(CacheSnapshotKey, payload)
}
