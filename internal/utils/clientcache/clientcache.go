// Package clientcache provides a type-safe cache for provider SDK clients,
// keyed by a hash of the provider configuration so credential or base-URL
// changes produce a fresh client.
package clientcache

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache stores constructed clients of type T. The factory passed to
// GetOrCreate runs at most once per key, even under concurrent load.
type Cache[T any] struct {
	clients sync.Map
	group   singleflight.Group
}

// NewCache creates an empty client cache.
func NewCache[T any]() *Cache[T] {
	return &Cache[T]{}
}

// GetOrCreate returns the cached client for key, building it with factory on
// first use. Concurrent callers for the same key share a single factory call.
func (c *Cache[T]) GetOrCreate(key string, factory func() (T, error)) (T, error) {
	if cached, ok := c.clients.Load(key); ok {
		return cached.(T), nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if cached, ok := c.clients.Load(key); ok {
			return cached.(T), nil
		}
		client, err := factory()
		if err != nil {
			var zero T
			return zero, err
		}
		c.clients.Store(key, client)
		return client, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Delete evicts the client for key, forcing the next GetOrCreate to rebuild.
func (c *Cache[T]) Delete(key string) {
	c.clients.Delete(key)
}
