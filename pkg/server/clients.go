package server

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/duccv/service-kit/config"
	"github.com/duccv/service-kit/pkg/cache"
	"github.com/duccv/service-kit/pkg/metrics"
	"github.com/duccv/service-kit/pkg/serviceclient"
	grpc_transport "github.com/duccv/service-kit/pkg/transport/grpc"
	rest_transport "github.com/duccv/service-kit/pkg/transport/rest"
)

// Clients is the service client factory of the application together with
// the resources its decorators hold.
type Clients struct {
	*serviceclient.Factory
	mem   cache.Cache
	redis *redis.Client
}

// NewClients builds the factory for the services in env. Every dispatcher is
// instrumented and logged; cacheable operations go through the memory cache
// and, when enabled, Redis.
func NewClients(ctx context.Context, env *config.Env, reg prometheus.Registerer) (*Clients, error) {
	mem, err := cache.NewCache(env.CacheConfig)
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	var levelOpts []cache.MultiLevelOption
	if env.RedisConfig.Enabled {
		rdb, err = cache.NewRedisClient(ctx, env.RedisConfig)
		if err != nil {
			zap.L().Warn("Redis unavailable, caching in memory only", zap.Error(err))
			rdb = nil
		} else {
			levelOpts = append(levelOpts, cache.WithRedis(rdb, time.Duration(env.CacheConfig.RedisTTL)*time.Second))
		}
	}
	store := cache.NewMultiLevel(mem, time.Duration(env.CacheConfig.DefaultTTL)*time.Second, levelOpts...)

	factory := serviceclient.NewFactory(env.Services,
		serviceclient.WithTransport(config.TransportREST, rest_transport.Factory(
			rest_transport.CorrelationHeader(env.DiagnosticConfig.CorrelationIDHeaderName),
			rest_transport.Auth(env.AuthConfig.Secret, env.AuthConfig.Issuer, env.AppConfig.Name,
				time.Duration(env.AuthConfig.TTL)*time.Second),
		)),
		serviceclient.WithTransport(config.TransportGRPC, grpc_transport.Factory(
			grpc_transport.CorrelationKey(env.DiagnosticConfig.CorrelationIDHeaderName),
		)),
		serviceclient.WithDecorators(
			serviceclient.Instrument(metrics.NewClientMetrics(reg)),
			serviceclient.Log(),
			serviceclient.Cache(store),
		),
	)

	return &Clients{Factory: factory, mem: mem, redis: rdb}, nil
}

// Close releases the transports and the Redis client and stops the memory
// cache.
func (c *Clients) Close() error {
	defer c.mem.Stop()

	errs := []error{c.Factory.Close()}
	if c.redis != nil {
		errs = append(errs, c.redis.Close())
	}
	return errors.Join(errs...)
}
