package data

import (
	"encoding/json"
	"time"
)

// CachedData is a single cached upstream response.
type CachedData struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// TTL returns how long the entry has left to live.
func (c CachedData) TTL() time.Duration {
	remaining := time.Until(c.ExpiresAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

type CacheStats struct {
	Type       string `json:"type"`
	Keys       int    `json:"keys"`
	Hits       uint64 `json:"hits"`
	Misses     uint64 `json:"misses"`
	Insertions uint64 `json:"insertions"`
	Evictions  uint64 `json:"evictions"`
}
