package routes

import (
	"context"
	"errors"
	"time"

	"mgrsgrid/internal/service/storage"
)

// Cache stores rendered responses. Any error from Get is a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

var errMiss = errors.New("not cached")

type cacheEntry struct {
	data    []byte
	expires time.Time
}

// MemoryCache is the in-process Cache used when Redis is not configured.
type MemoryCache struct {
	entries *storage.ShardedMemoryStorage[string, cacheEntry]
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: storage.NewShardedMemoryStorage[string, cacheEntry](16, nil)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	e, ok := m.entries.Get(key)
	if !ok {
		return nil, errMiss
	}
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		m.entries.Delete(key)
		return nil, errMiss
	}
	return e.data, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := cacheEntry{data: value}
	if ttl > 0 {
		e.expires = time.Now().Add(ttl)
	}
	m.entries.Set(key, e)
	return nil
}

// Len returns the number of entries, expired ones included.
func (m *MemoryCache) Len() int {
	return m.entries.Count()
}
