package cache

import (
	"container/list"
	"sync"
	"time"

	"go.uber.org/zap"
)

const cleanupInterval = 3 * time.Second

// LRUCache evicts the least recently used entry when full. Expired entries
// are dropped on access and by a background sweep every few seconds.
type LRUCache struct {
	entries    map[string]*list.Element
	order      *list.List // front: least recently used
	maxSize    int
	defaultTTL time.Duration
	mu         sync.Mutex
	stopOnce   sync.Once
	stopChan   chan struct{}
}

// NewLRUCache creates a new LRU cache holding at most maxSize entries and
// starts its cleanup goroutine. A maxSize below one is treated as one.
func NewLRUCache(maxSize int, defaultTTL time.Duration) *LRUCache {
	if maxSize < 1 {
		maxSize = 1
	}
	c := &LRUCache{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
		stopChan:   make(chan struct{}),
	}

	go c.cleanupExpiredKeys()

	return c
}

func (c *LRUCache) cleanupExpiredKeys() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := c.removeExpired(time.Now()); n > 0 {
				zap.L().Debug("Cleaned up expired LRU cache entries", zap.Int("count", n))
			}
		case <-c.stopChan:
			return
		}
	}
}

func (c *LRUCache) removeExpired(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for e := c.order.Front(); e != nil; {
		next := e.Next()
		if item := e.Value.(*entry); item.expired(now) {
			c.order.Remove(e)
			delete(c.entries, item.key)
			removed++
		}
		e = next
	}
	return removed
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (c *LRUCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
}

func (c *LRUCache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores value and marks key as most recently used, evicting the
// least recently used entry when the cache is full.
func (c *LRUCache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expires := time.Now().Add(ttl)

	if element, exists := c.entries[key]; exists {
		item := element.Value.(*entry)
		item.value = value
		item.expires = expires
		c.order.MoveToBack(element)
		return
	}

	if c.order.Len() >= c.maxSize {
		if oldest := c.order.Front(); oldest != nil {
			item := oldest.Value.(*entry)
			c.order.Remove(oldest)
			delete(c.entries, item.key)
			zap.L().Debug("LRU cache evicted least recently used item", zap.String("key", item.key))
		}
	}

	c.entries[key] = c.order.PushBack(&entry{key: key, value: value, expires: expires})
}

// Get marks key as most recently used when it is present.
func (c *LRUCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, exists := c.entries[key]
	if !exists {
		return nil, false
	}

	item := element.Value.(*entry)
	if item.expired(time.Now()) {
		c.order.Remove(element)
		delete(c.entries, key)
		return nil, false
	}

	c.order.MoveToBack(element)
	return item.value, true
}

func (c *LRUCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, exists := c.entries[key]; exists {
		c.order.Remove(element)
		delete(c.entries, key)
	}
}

func (c *LRUCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *LRUCache) MaxSize() int {
	return c.maxSize
}

func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	c.entries = make(map[string]*list.Element)
}

// Keys returns the live keys, least recently used first.
func (c *LRUCache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	keys := make([]string, 0, c.order.Len())
	for e := c.order.Front(); e != nil; e = e.Next() {
		if item := e.Value.(*entry); !item.expired(now) {
			keys = append(keys, item.key)
		}
	}
	return keys
}
