package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	defaultRedisTimeout = 50 * time.Millisecond
	defaultLoadTimeout  = 30 * time.Second
)

// Loader produces the value for a key missing from every cache level.
type Loader func(ctx context.Context) ([]byte, error)

// MultiLevel looks a key up in memory, then in Redis, then calls the loader.
// Values found in a lower level are written back to the levels above it.
// Concurrent lookups of the same missing key share a single load.
type MultiLevel struct {
	mem          Cache
	redis        *redis.Client
	memTTL       time.Duration
	redisTTL     time.Duration
	redisTimeout time.Duration
	loadTimeout  time.Duration
	group        singleflight.Group
}

type MultiLevelOption func(*MultiLevel)

// WithRedis adds a Redis level. A nil client leaves it disabled.
func WithRedis(client *redis.Client, ttl time.Duration) MultiLevelOption {
	return func(m *MultiLevel) {
		m.redis = client
		m.redisTTL = ttl
	}
}

// WithRedisTimeout bounds each Redis round trip.
func WithRedisTimeout(d time.Duration) MultiLevelOption {
	return func(m *MultiLevel) {
		if d > 0 {
			m.redisTimeout = d
		}
	}
}

// WithLoadTimeout bounds a shared load, which no single caller can cancel.
func WithLoadTimeout(d time.Duration) MultiLevelOption {
	return func(m *MultiLevel) {
		if d > 0 {
			m.loadTimeout = d
		}
	}
}

func NewMultiLevel(mem Cache, memTTL time.Duration, opts ...MultiLevelOption) *MultiLevel {
	m := &MultiLevel{
		mem:          mem,
		memTTL:       memTTL,
		redisTimeout: defaultRedisTimeout,
		loadTimeout:  defaultLoadTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetOrLoad returns the cached bytes for key, loading and storing them on a
// miss. Redis failures are logged and treated as misses; loader errors are
// returned and nothing is cached.
//
// A shared load runs detached from the cancellation of the caller that
// started it; each caller stops waiting when its own ctx ends.
func (m *MultiLevel) GetOrLoad(ctx context.Context, key string, load Loader) ([]byte, error) {
	if v, ok := m.fromMemory(key); ok {
		return v, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := m.group.DoChan(key, func() (any, error) {
		if v, ok := m.fromMemory(key); ok {
			return v, nil
		}

		if v, ok := m.fromRedis(shared, key); ok {
			m.mem.SetWithTTL(key, v, m.memTTL)
			return v, nil
		}

		loadCtx, cancel := context.WithTimeout(shared, m.loadTimeout)
		defer cancel()

		v, err := load(loadCtx)
		if err != nil {
			return nil, err
		}

		m.mem.SetWithTTL(key, v, m.memTTL)
		m.toRedis(shared, key, v)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate removes key from every level.
func (m *MultiLevel) Invalidate(ctx context.Context, key string) error {
	m.mem.Delete(key)
	if m.redis == nil {
		return nil
	}
	rctx, cancel := context.WithTimeout(ctx, m.redisTimeout)
	defer cancel()
	return m.redis.Del(rctx, key).Err()
}

func (m *MultiLevel) fromMemory(key string) ([]byte, bool) {
	v, ok := m.mem.Get(key)
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	return b, ok
}

func (m *MultiLevel) fromRedis(ctx context.Context, key string) ([]byte, bool) {
	if m.redis == nil {
		return nil, false
	}
	rctx, cancel := context.WithTimeout(ctx, m.redisTimeout)
	defer cancel()

	v, err := m.redis.Get(rctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zap.L().Warn("Redis cache lookup failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return v, true
}

func (m *MultiLevel) toRedis(ctx context.Context, key string, v []byte) {
	if m.redis == nil {
		return
	}
	rctx, cancel := context.WithTimeout(ctx, m.redisTimeout)
	defer cancel()

	if err := m.redis.Set(rctx, key, v, m.redisTTL).Err(); err != nil {
		zap.L().Warn("Redis cache write failed", zap.String("key", key), zap.Error(err))
	}
}
