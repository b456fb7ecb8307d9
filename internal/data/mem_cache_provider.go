package data

import (
	"analytics-proxy/internal/config"
	"analytics-proxy/internal/metrics"
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemCache keeps entries in process memory. Expired entries are swept by ttlcache's
// background loop and are never returned by Get even before the sweep.
type MemCache struct {
	cache      *ttlcache.Cache[string, CachedData]
	defaultTTL time.Duration
	logger     *slog.Logger
}

func NewMemCache(cfg *config.Config, logger *slog.Logger) *MemCache {
	defaultTTL := time.Duration(cfg.Cache.DefaultTTL)
	if defaultTTL <= 0 {
		defaultTTL = time.Duration(config.DefaultCacheConfig.DefaultTTL)
	}

	cache := ttlcache.New[string, CachedData](
		ttlcache.WithTTL[string, CachedData](defaultTTL),
		ttlcache.WithDisableTouchOnHit[string, CachedData](),
	)

	m := &MemCache{
		cache:      cache,
		defaultTTL: defaultTTL,
		logger:     logger,
	}

	cache.OnInsertion(func(_ context.Context, item *ttlcache.Item[string, CachedData]) {
		m.logger.Debug("cache SET", "key", item.Key(), "ttl", item.TTL())
		metrics.CacheItems.WithLabelValues(metrics.CacheTypeMemory).Set(float64(cache.Len()))
	})

	cache.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, CachedData]) {
		switch reason {
		case ttlcache.EvictionReasonExpired:
			m.logger.Debug("cache EXPIRED", "key", item.Key())
		default:
			m.logger.Debug("cache DEL", "key", item.Key())
		}
		metrics.CacheItems.WithLabelValues(metrics.CacheTypeMemory).Set(float64(cache.Len()))
	})

	go cache.Start()

	return m
}

// Get returns the data for a currently cached query
func (m *MemCache) Get(ctx context.Context, key string) (CachedData, bool) {
	start := time.Now()
	defer func() {
		metrics.CacheOperationDuration.WithLabelValues(metrics.CacheTypeMemory, metrics.CacheOperationTypeGet).Observe(time.Since(start).Seconds())
	}()

	item := m.cache.Get(key)
	if item == nil || item.IsExpired() {
		metrics.CacheMisses.WithLabelValues(metrics.CacheTypeMemory).Inc()
		return CachedData{}, false
	}

	metrics.CacheHits.WithLabelValues(metrics.CacheTypeMemory).Inc()
	return item.Value(), true
}

// Set sets (or replaces) the value stored under key
func (m *MemCache) Set(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) error {
	start := time.Now()
	defer func() {
		metrics.CacheOperationDuration.WithLabelValues(metrics.CacheTypeMemory, metrics.CacheOperationTypeSet).Observe(time.Since(start).Seconds())
	}()

	if ttl <= 0 {
		ttl = m.defaultTTL
	}

	now := time.Now()
	m.cache.Set(key, CachedData{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, ttl)

	return nil
}

// Delete removes an entry from the cache
func (m *MemCache) Delete(ctx context.Context, key string) error {
	start := time.Now()
	defer func() {
		metrics.CacheOperationDuration.WithLabelValues(metrics.CacheTypeMemory, metrics.CacheOperationTypeDelete).Observe(time.Since(start).Seconds())
	}()

	m.cache.Delete(key)
	return nil
}

func (m *MemCache) Flush(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.CacheOperationDuration.WithLabelValues(metrics.CacheTypeMemory, metrics.CacheOperationTypeFlush).Observe(time.Since(start).Seconds())
	}()

	m.cache.DeleteAll()
	return nil
}

// ListAll returns the keys of every live entry
func (m *MemCache) ListAll(ctx context.Context) []string {
	start := time.Now()
	defer func() {
		metrics.CacheOperationDuration.WithLabelValues(metrics.CacheTypeMemory, metrics.CacheOperationTypeListAll).Observe(time.Since(start).Seconds())
	}()

	items := m.cache.Items()
	keys := make([]string, 0, len(items))
	for key, item := range items {
		if item.IsExpired() {
			continue
		}
		keys = append(keys, key)
	}

	return keys
}

// Size returns the current number of live entries in the cache
func (m *MemCache) Size(ctx context.Context) int {
	return len(m.ListAll(ctx))
}

func (m *MemCache) Stats(ctx context.Context) CacheStats {
	cacheMetrics := m.cache.Metrics()

	return CacheStats{
		Type:       metrics.CacheTypeMemory,
		Keys:       m.Size(ctx),
		Hits:       cacheMetrics.Hits,
		Misses:     cacheMetrics.Misses,
		Insertions: cacheMetrics.Insertions,
		Evictions:  cacheMetrics.Evictions,
	}
}

// Close stops the expiry loop.
func (m *MemCache) Close() error {
	m.cache.Stop()
	return nil
}
