package grouping

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/toolshelf/toolshelf/internal/classifier"
)

// CachedResult is a stored classification outcome. A summarize outcome is
// stored as a single group; a divide outcome as two or more.
type CachedResult struct {
	Groups []classifier.Group `json:"groups"`
}

// MembershipHash returns the stable content digest for an ordered member
// name list. Any change in membership or order yields a different hash.
func MembershipHash(names []string) string {
	sum := sha256.Sum256([]byte(strings.Join(names, "\n")))
	return hex.EncodeToString(sum[:])
}

// GroupCache is a bounded LRU of classification results keyed by membership
// hash, kept as an association list so it serializes to the persisted shape
// {"lru": [[hash, result], ...]} with the most recently used entry first.
// Callers serialize per-session access; the mutex only guards against
// accidental cross-session concurrency corrupting the list.
type GroupCache struct {
	mu       sync.Mutex
	capacity int
	entries  []cacheEntry
}

type cacheEntry struct {
	hash   string
	result CachedResult
}

// DefaultCacheCapacity bounds the cache when no capacity is configured.
const DefaultCacheCapacity = 32

// NewGroupCache creates an empty cache holding at most capacity entries.
func NewGroupCache(capacity int) *GroupCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &GroupCache{capacity: capacity}
}

// Get returns the cached result for hash and promotes the entry to most
// recently used.
func (c *GroupCache) Get(hash string) (CachedResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, e := range c.entries {
		if e.hash == hash {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			c.entries = append([]cacheEntry{e}, c.entries...)
			return e.result, true
		}
	}
	return CachedResult{}, false
}

// Put stores the result under hash as most recently used, evicting the least
// recently used entry when over capacity. Callers must only Put results from
// classifier calls that completed successfully.
func (c *GroupCache) Put(hash string, result CachedResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, e := range c.entries {
		if e.hash == hash {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			break
		}
	}
	c.entries = append([]cacheEntry{{hash: hash, result: result}}, c.entries...)
	if len(c.entries) > c.capacity {
		c.entries = c.entries[:c.capacity]
	}
}

// Len returns the number of cached entries.
func (c *GroupCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

type cacheSnapshot struct {
	LRU [][2]json.RawMessage `json:"lru"`
}

// MarshalJSON serializes the cache as {"lru": [[hash, result], ...]}.
func (c *GroupCache) MarshalJSON() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := cacheSnapshot{LRU: make([][2]json.RawMessage, 0, len(c.entries))}
	for _, e := range c.entries {
		hash, err := json.Marshal(e.hash)
		if err != nil {
			return nil, err
		}
		result, err := json.Marshal(e.result)
		if err != nil {
			return nil, err
		}
		snap.LRU = append(snap.LRU, [2]json.RawMessage{hash, result})
	}
	return json.Marshal(snap)
}

// UnmarshalJSON restores the cache from its persisted shape, truncating to
// capacity. Recency order is the serialized order.
func (c *GroupCache) UnmarshalJSON(data []byte) error {
	var snap cacheSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse cache snapshot: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.capacity <= 0 {
		c.capacity = DefaultCacheCapacity
	}
	c.entries = nil
	for _, pair := range snap.LRU {
		var e cacheEntry
		if err := json.Unmarshal(pair[0], &e.hash); err != nil {
			return fmt.Errorf("parse cache hash: %w", err)
		}
		if err := json.Unmarshal(pair[1], &e.result); err != nil {
			return fmt.Errorf("parse cache result: %w", err)
		}
		c.entries = append(c.entries, e)
		if len(c.entries) == c.capacity {
			break
		}
	}
	return nil
}
