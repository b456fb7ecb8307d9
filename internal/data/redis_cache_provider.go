package data

import (
	"analytics-proxy/internal/config"
	"analytics-proxy/internal/metrics"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// RedisCacheClient is the subset of the go-redis client used by RedisCache.
type RedisCacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Keys(ctx context.Context, pattern string) *redis.StringSliceCmd
	Ping(ctx context.Context) *redis.StatusCmd
	PoolStats() *redis.PoolStats
	Close() error
}

type RedisCache struct {
	client     RedisCacheClient
	prefix     string
	defaultTTL time.Duration
	logger     *slog.Logger

	hits       atomic.Uint64
	misses     atomic.Uint64
	insertions atomic.Uint64
	evictions  atomic.Uint64
}

// NewRedisCache creates a new Redis-backed cache and verifies the connection.
func NewRedisCache(cfg *config.Config, logger *slog.Logger) (*RedisCache, error) {
	if cfg.Redis == nil {
		return nil, fmt.Errorf("redis configuration is required for the redis cache")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Address,
		Username:     cfg.Redis.Username,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.CacheIndex,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Address, err)
	}

	logger.Info("connected to redis cache", "address", cfg.Redis.Address, "db", cfg.Redis.CacheIndex)

	return newRedisCacheWithClient(client, cfg, logger), nil
}

func newRedisCacheWithClient(client RedisCacheClient, cfg *config.Config, logger *slog.Logger) *RedisCache {
	prefix := config.DefaultRedisConfig.KeyPrefix
	if cfg.Redis != nil && cfg.Redis.KeyPrefix != "" {
		prefix = cfg.Redis.KeyPrefix
	}

	defaultTTL := time.Duration(cfg.Cache.DefaultTTL)
	if defaultTTL <= 0 {
		defaultTTL = time.Duration(config.DefaultCacheConfig.DefaultTTL)
	}

	return &RedisCache{
		client:     client,
		prefix:     prefix,
		defaultTTL: defaultTTL,
		logger:     logger,
	}
}

// key generates a namespaced Redis key
func (r *RedisCache) key(key string) string {
	return r.prefix + key
}

// PoolStats exposes the connection pool for the redisprometheus collector.
func (r *RedisCache) PoolStats() *redis.PoolStats {
	return r.client.PoolStats()
}

func (r *RedisCache) Get(ctx context.Context, key string) (CachedData, bool) {
	start := time.Now()
	defer func() {
		metrics.CacheOperationDuration.WithLabelValues(metrics.CacheTypeRedis, metrics.CacheOperationTypeGet).Observe(time.Since(start).Seconds())
	}()

	raw, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Error("error executing redis GET", "key", key, "error", err)
		}
		r.miss()
		return CachedData{}, false
	}

	var cached CachedData
	if err := json.Unmarshal(raw, &cached); err != nil {
		r.logger.Error("error unmarshalling redis response", "key", key, "error", err)
		r.miss()
		return CachedData{}, false
	}

	r.hits.Add(1)
	metrics.CacheHits.WithLabelValues(metrics.CacheTypeRedis).Inc()
	return cached, true
}

func (r *RedisCache) miss() {
	r.misses.Add(1)
	metrics.CacheMisses.WithLabelValues(metrics.CacheTypeRedis).Inc()
}

func (r *RedisCache) Set(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) error {
	start := time.Now()
	defer func() {
		metrics.CacheOperationDuration.WithLabelValues(metrics.CacheTypeRedis, metrics.CacheOperationTypeSet).Observe(time.Since(start).Seconds())
	}()

	if ttl <= 0 {
		ttl = r.defaultTTL
	}

	now := time.Now()
	payload, err := json.Marshal(CachedData{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry %q: %w", key, err)
	}

	if err := r.client.Set(ctx, r.key(key), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis SET %q failed: %w", key, err)
	}

	r.insertions.Add(1)
	r.logger.Debug("cache SET", "key", key, "ttl", ttl)
	return nil
}

// Delete removes an entry from the cache
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	start := time.Now()
	defer func() {
		metrics.CacheOperationDuration.WithLabelValues(metrics.CacheTypeRedis, metrics.CacheOperationTypeDelete).Observe(time.Since(start).Seconds())
	}()

	deleted, err := r.client.Del(ctx, r.key(key)).Result()
	if err != nil {
		return fmt.Errorf("redis DEL %q failed: %w", key, err)
	}

	r.evictions.Add(uint64(deleted))
	r.logger.Debug("cache DEL", "key", key)
	return nil
}

// Flush removes every key under the cache prefix. Other data in the same database is left alone.
func (r *RedisCache) Flush(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.CacheOperationDuration.WithLabelValues(metrics.CacheTypeRedis, metrics.CacheOperationTypeFlush).Observe(time.Since(start).Seconds())
	}()

	keys, err := r.client.Keys(ctx, r.key("*")).Result()
	if err != nil {
		return fmt.Errorf("redis KEYS failed: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	deleted, err := r.client.Del(ctx, keys...).Result()
	if err != nil {
		return fmt.Errorf("redis DEL failed: %w", err)
	}

	r.evictions.Add(uint64(deleted))
	r.logger.Debug("cache flushed", "keys", deleted)
	return nil
}

func (r *RedisCache) ListAll(ctx context.Context) []string {
	start := time.Now()
	defer func() {
		metrics.CacheOperationDuration.WithLabelValues(metrics.CacheTypeRedis, metrics.CacheOperationTypeListAll).Observe(time.Since(start).Seconds())
	}()

	keys, err := r.client.Keys(ctx, r.key("*")).Result()
	if err != nil {
		r.logger.Error("error executing redis 'KEYS'", "error", err)
		return []string{}
	}

	prefixLen := len(r.prefix)
	result := make([]string, 0, len(keys))
	for _, key := range keys {
		if len(key) > prefixLen {
			result = append(result, key[prefixLen:])
		}
	}

	return result
}

// Size returns the current number of elements in the cache
func (r *RedisCache) Size(ctx context.Context) int {
	size := len(r.ListAll(ctx))
	metrics.CacheItems.WithLabelValues(metrics.CacheTypeRedis).Set(float64(size))
	return size
}

func (r *RedisCache) Stats(ctx context.Context) CacheStats {
	return CacheStats{
		Type:       metrics.CacheTypeRedis,
		Keys:       r.Size(ctx),
		Hits:       r.hits.Load(),
		Misses:     r.misses.Load(),
		Insertions: r.insertions.Load(),
		Evictions:  r.evictions.Load(),
	}
}

// Close closes the Redis connection pool
func (r *RedisCache) Close() error {
	return r.client.Close()
}
