package storage

import (
	"fmt"
	"sync"
	"time"
)

// ShardedMemoryStorage - sharded object storage for hot, concurrently
// written keys such as cached responses
type ShardedMemoryStorage[K comparable, V any] struct {
	shards     []*shardData[K, V]
	shardCount int
	keyToShard func(K) int // Shard distribution function
}

// shardData - single shard data
type shardData[K comparable, V any] struct {
	data       map[K]V
	mutex      sync.RWMutex
	lastUpdate map[K]time.Time
}

func newShard[K comparable, V any]() *shardData[K, V] {
	return &shardData[K, V]{
		data:       make(map[K]V),
		lastUpdate: make(map[K]time.Time),
	}
}

// NewShardedMemoryStorage creates a new sharded storage
func NewShardedMemoryStorage[K comparable, V any](shardCount int, keyToShardFunc func(K) int) *ShardedMemoryStorage[K, V] {
	// Round up to power of two
	realShardCount := 1
	for realShardCount < shardCount {
		realShardCount *= 2
	}

	shards := make([]*shardData[K, V], realShardCount)
	for i := range shards {
		shards[i] = newShard[K, V]()
	}

	// If no distribution function provided, use standard one for string and numeric keys
	if keyToShardFunc == nil {
		keyToShardFunc = func(key K) int {
			switch k := any(key).(type) {
			case string:
				return int(fnv1a(k)) & (realShardCount - 1)
			case int:
				return k & (realShardCount - 1)
			default:
				return int(fnv1a(fmt.Sprintf("%v", key))) & (realShardCount - 1)
			}
		}
	}

	return &ShardedMemoryStorage[K, V]{
		shards:     shards,
		shardCount: realShardCount,
		keyToShard: keyToShardFunc,
	}
}

// FNV-1a hash function
func fnv1a(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

func (s *ShardedMemoryStorage[K, V]) getShard(key K) *shardData[K, V] {
	return s.shards[s.keyToShard(key)]
}

// Set adds or updates an object
func (s *ShardedMemoryStorage[K, V]) Set(key K, value V) {
	shard := s.getShard(key)

	shard.mutex.Lock()
	defer shard.mutex.Unlock()

	shard.data[key] = value
	shard.lastUpdate[key] = time.Now()
}

// Get returns object by key
func (s *ShardedMemoryStorage[K, V]) Get(key K) (V, bool) {
	shard := s.getShard(key)

	shard.mutex.RLock()
	defer shard.mutex.RUnlock()

	value, exists := shard.data[key]
	return value, exists
}

// GetFresh returns an object only if it was written within maxAge
func (s *ShardedMemoryStorage[K, V]) GetFresh(key K, maxAge time.Duration) (V, bool) {
	shard := s.getShard(key)

	shard.mutex.RLock()
	defer shard.mutex.RUnlock()

	var zero V
	value, exists := shard.data[key]
	if !exists || time.Since(shard.lastUpdate[key]) > maxAge {
		return zero, false
	}
	return value, true
}

// Update replaces the value under key with the result of fn, atomically
func (s *ShardedMemoryStorage[K, V]) Update(key K, fn func(old V, exists bool) V) {
	shard := s.getShard(key)

	shard.mutex.Lock()
	defer shard.mutex.Unlock()

	old, exists := shard.data[key]
	shard.data[key] = fn(old, exists)
	shard.lastUpdate[key] = time.Now()
}

// Delete removes an object
func (s *ShardedMemoryStorage[K, V]) Delete(key K) bool {
	shard := s.getShard(key)

	shard.mutex.Lock()
	defer shard.mutex.Unlock()

	if _, exists := shard.data[key]; !exists {
		return false
	}

	delete(shard.data, key)
	delete(shard.lastUpdate, key)
	return true
}

// Keys returns all keys from all shards
func (s *ShardedMemoryStorage[K, V]) Keys() []K {
	var result []K
	for _, shard := range s.shards {
		shard.mutex.RLock()
		for k := range shard.data {
			result = append(result, k)
		}
		shard.mutex.RUnlock()
	}
	return result
}

// ForEach executes a function for each object
func (s *ShardedMemoryStorage[K, V]) ForEach(fn func(key K, value V) bool) {
	// Process each shard separately
	for _, shard := range s.shards {
		shard.mutex.RLock()
		items := make(map[K]V, len(shard.data))
		for k, v := range shard.data {
			items[k] = v
		}
		shard.mutex.RUnlock()

		for k, v := range items {
			if !fn(k, v) {
				return
			}
		}
	}
}

// Count returns total number of objects
func (s *ShardedMemoryStorage[K, V]) Count() int {
	count := 0
	for _, shard := range s.shards {
		shard.mutex.RLock()
		count += len(shard.data)
		shard.mutex.RUnlock()
	}
	return count
}

// Clear removes every object from all shards
func (s *ShardedMemoryStorage[K, V]) Clear() {
	for _, shard := range s.shards {
		shard.mutex.Lock()
		shard.data = make(map[K]V)
		shard.lastUpdate = make(map[K]time.Time)
		shard.mutex.Unlock()
	}
}
