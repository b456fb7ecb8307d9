package handlers

import (
	"analytics-proxy/internal/middlewares"
	"net/http"
	"net/url"
	"sort"

	"github.com/go-chi/chi/v5"
)

// Cache administration, mounted on the debug router only.

func GetCacheStats(ctx *middlewares.AppContext) {
	ctx.WriteJSON(http.StatusOK, ctx.Cache.Stats(ctx))
}

func GetCacheKeys(ctx *middlewares.AppContext) {
	keys := ctx.Cache.ListAll(ctx)
	sort.Strings(keys)
	ctx.WriteJSON(http.StatusOK, map[string]any{
		"keys":  keys,
		"count": len(keys),
	})
}

func DeleteCache(ctx *middlewares.AppContext) {
	if err := ctx.Cache.Flush(ctx); err != nil {
		ctx.HandleError(err)
		return
	}

	ctx.Logger.Info("cache flushed")
	ctx.WriteJSON(http.StatusOK, map[string]string{"status": "flushed"})
}

func DeleteCacheKey(ctx *middlewares.AppContext) {
	// keys contain ':' '=' and '&', so callers send them escaped
	key, err := url.PathUnescape(chi.URLParam(ctx.Request, "key"))
	if err != nil || key == "" {
		ctx.HandleError(middlewares.NewHTTPError(http.StatusBadRequest, "invalid cache key"))
		return
	}

	if _, ok := ctx.Cache.Get(ctx, key); !ok {
		ctx.HandleError(middlewares.NewHTTPError(http.StatusNotFound, "cache key %q not found", key))
		return
	}

	if err := ctx.Cache.Delete(ctx, key); err != nil {
		ctx.HandleError(err)
		return
	}

	ctx.WriteJSON(http.StatusOK, map[string]string{"status": "deleted", "key": key})
}
