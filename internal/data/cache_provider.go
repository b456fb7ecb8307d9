package data

import (
	"analytics-proxy/internal/config"
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

//go:generate mockgen -source=cache_provider.go -destination=../mocks/cache.go -package=mocks

type CacheProvider interface {
	// Get returns the entry stored under key. Missing and expired entries are reported as absent.
	Get(ctx context.Context, key string) (CachedData, bool)
	// Set stores value under key for ttl. A ttl of zero or less uses the configured default.
	Set(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Flush(ctx context.Context) error
	ListAll(ctx context.Context) []string
	Size(ctx context.Context) int
	Stats(ctx context.Context) CacheStats
	Close() error
}

// NewCacheProvider returns a new CacheProvider
func NewCacheProvider(config *config.Config, logger *slog.Logger) (CacheProvider, error) {
	switch config.Cache.Type {
	case "redis":
		cache, err := NewRedisCache(config, logger)
		if err != nil {
			return nil, err
		}
		return cache, nil
	case "memory":
		fallthrough
	default:
		return NewMemCache(config, logger), nil
	}
}
