package storage

import (
	"sync"
	"time"
)

// MemoryStorage - universal in-memory object storage
// K - key type, V - stored object type
type MemoryStorage[K comparable, V any] struct {
	data       map[K]V
	mutex      sync.RWMutex
	lastUpdate map[K]time.Time
}

// NewMemoryStorage creates a new storage
func NewMemoryStorage[K comparable, V any]() *MemoryStorage[K, V] {
	return &MemoryStorage[K, V]{
		data:       make(map[K]V),
		lastUpdate: make(map[K]time.Time),
	}
}

// Set adds or updates an object
func (s *MemoryStorage[K, V]) Set(key K, value V) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[key] = value
	s.lastUpdate[key] = time.Now()
}

// Get returns an object by key
func (s *MemoryStorage[K, V]) Get(key K) (V, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, exists := s.data[key]
	return value, exists
}

// GetFresh returns an object only if it was written within maxAge
func (s *MemoryStorage[K, V]) GetFresh(key K, maxAge time.Duration) (V, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var zero V
	value, exists := s.data[key]
	if !exists || time.Since(s.lastUpdate[key]) > maxAge {
		return zero, false
	}
	return value, true
}

// Update replaces the value under key with the result of fn, atomically
func (s *MemoryStorage[K, V]) Update(key K, fn func(old V, exists bool) V) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	old, exists := s.data[key]
	s.data[key] = fn(old, exists)
	s.lastUpdate[key] = time.Now()
}

// Delete removes an object by key
func (s *MemoryStorage[K, V]) Delete(key K) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.data[key]; !exists {
		return false
	}

	delete(s.data, key)
	delete(s.lastUpdate, key)
	return true
}

// Keys returns all keys
func (s *MemoryStorage[K, V]) Keys() []K {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := make([]K, 0, len(s.data))
	for k := range s.data {
		result = append(result, k)
	}
	return result
}

// ForEach executes a function for each object
func (s *MemoryStorage[K, V]) ForEach(fn func(key K, value V) bool) {
	// Copy data under lock for subsequent processing
	s.mutex.RLock()
	items := make(map[K]V, len(s.data))
	for k, v := range s.data {
		items[k] = v
	}
	s.mutex.RUnlock()

	// Process copied data without locking
	for k, v := range items {
		if !fn(k, v) {
			break
		}
	}
}

// Count returns the number of objects
func (s *MemoryStorage[K, V]) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

// Clear removes every object
func (s *MemoryStorage[K, V]) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data = make(map[K]V)
	s.lastUpdate = make(map[K]time.Time)
}
