// Package cache provides the caches behind cacheable service operations: an
// in-memory LRU cache with per-entry TTL, a Redis client constructor and a
// multi-level lookup (memory, then Redis, then the loader) that collapses
// concurrent loads of the same key.
package cache

import (
	"fmt"
	"strings"
	"time"

	"github.com/duccv/service-kit/config"
)

// Cache is an in-memory key/value cache with expiring entries.
type Cache interface {
	// Get returns the value stored under key and whether it exists and has
	// not expired.
	Get(key string) (any, bool)

	// Set stores value under key with the default TTL.
	Set(key string, value any)

	// SetWithTTL stores value under key with a custom TTL.
	SetWithTTL(key string, value any, ttl time.Duration)

	Delete(key string)

	// Size returns the number of stored entries, expired ones included until
	// they are cleaned up.
	Size() int

	MaxSize() int

	Clear()

	// Stop ends the background cleanup. The cache must not be used afterwards.
	Stop()
}

// entry is the data stored for one key.
type entry struct {
	key     string
	value   any
	expires time.Time
}

func (e *entry) expired(now time.Time) bool {
	return now.After(e.expires)
}

// NewCache creates the cache described by cfg. Only the LRU policy is
// available; an empty type selects it.
func NewCache(cfg config.CacheConfig) (Cache, error) {
	switch strings.ToUpper(cfg.Type) {
	case "", "LRU":
		return NewLRUCache(cfg.Capacity, time.Duration(cfg.DefaultTTL)*time.Second), nil
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.Type)
	}
}
