package storage

import "time"

// Storage defines interface for any in-process object storage
type Storage[K comparable, V any] interface {
	Set(key K, value V)
	Get(key K) (V, bool)
	GetFresh(key K, maxAge time.Duration) (V, bool)
	Update(key K, fn func(old V, exists bool) V)
	Delete(key K) bool
	Keys() []K
	ForEach(fn func(key K, value V) bool)
	Count() int
	Clear()
}
