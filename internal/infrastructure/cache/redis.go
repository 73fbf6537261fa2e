package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mofml/ffpgen/internal/config"
	"github.com/mofml/ffpgen/internal/infrastructure/monitoring/logging"
	"github.com/mofml/ffpgen/pkg/errors"
)

// redisCache is the redis-backed Cache.  Keys are namespaced with a prefix
// so several deployments can share one instance.
type redisCache struct {
	rdb        *redis.Client
	logger     logging.Logger
	prefix     string
	defaultTTL time.Duration
	serializer Serializer
}

// RedisOption customizes a redis cache.
type RedisOption func(*redisCache)

// WithSerializer replaces the default JSON serializer.
func WithSerializer(s Serializer) RedisOption {
	return func(c *redisCache) { c.serializer = s }
}

// NewRedisCache connects to redis per cfg and returns a Cache.  The
// connection is verified with a ping before use.
func NewRedisCache(ctx context.Context, cfg *config.RedisConfig, logger logging.Logger, opts ...RedisOption) (Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	c := &redisCache{
		rdb:        rdb,
		logger:     logger,
		prefix:     cfg.KeyPrefix,
		defaultTTL: cfg.DefaultTTL,
		serializer: jsonSerializer{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "redis connection failed")
	}
	logger.Info("connected to redis cache", logging.String("addr", cfg.Addr))
	return c, nil
}

func (c *redisCache) fullKey(key string) string { return c.prefix + key }

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.rdb.Get(ctx, c.fullKey(key)).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to get from cache")
	}
	if err := c.serializer.Unmarshal(data, dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode cached value")
	}
	return nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	data, err := c.serializer.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode cache value")
	}
	if err := c.rdb.Set(ctx, c.fullKey(key), data, ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to set cache value")
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.fullKey(k)
	}
	if err := c.rdb.Del(ctx, full...).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to delete cache keys")
	}
	return nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *redisCache) Close() error {
	return c.rdb.Close()
}
