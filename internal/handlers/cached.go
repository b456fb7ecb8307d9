package handlers

import (
	"analytics-proxy/internal/data"
	"analytics-proxy/internal/middlewares"
	"analytics-proxy/internal/models"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// CacheHeader tells the caller whether the response was served from the cache.
const CacheHeader = "X-Cache"

type fetchFunc func(ctx context.Context, apiKey string) (any, error)

// serveCached answers from the cache when the key is present. Otherwise it calls fetch and
// caches the result for ttl. Failed fetches are never cached.
func serveCached(ctx *middlewares.AppContext, queryType string, params map[string]string, ttl time.Duration, fetch fetchFunc) {
	key := data.BuildKey(queryType, params)

	if entry, ok := ctx.Cache.Get(ctx, key); ok {
		ctx.Logger.Info("cache hit", "query_type", queryType, "site_id", params["site_id"])
		ctx.Response.Header().Set(CacheHeader, "HIT")
		ctx.WriteJSON(http.StatusOK, models.NewSuccessEnvelope(entry.Value, params))
		return
	}

	// the upstream call outlives a disconnected caller so its result still lands in the cache
	result, err := fetch(context.WithoutCancel(ctx), ctx.APIKey)
	if err != nil {
		ctx.HandleError(err)
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		ctx.HandleError(fmt.Errorf("failed to encode %s result: %w", queryType, err))
		return
	}

	if err := ctx.Cache.Set(ctx, key, payload, ttl); err != nil {
		ctx.Logger.Warn("failed to cache result", "query_type", queryType, "error", err)
	}

	ctx.Response.Header().Set(CacheHeader, "MISS")
	ctx.WriteJSON(http.StatusOK, models.NewSuccessEnvelope(json.RawMessage(payload), params))
}
