package handlers

import (
	"analytics-proxy/internal/metrics"
	"analytics-proxy/internal/middlewares"
	"analytics-proxy/internal/validation"
	"context"
	"time"

	"github.com/go-chi/chi/v5"
)

// GetBreakdown serves both /breakdown and /breakdown/{property}.
func GetBreakdown(ctx *middlewares.AppContext) {
	req, err := validation.ParseBreakdownRequest(ctx.Request.URL.Query(), chi.URLParam(ctx.Request, "property"))
	if err != nil {
		ctx.HandleError(err)
		return
	}

	ttl := time.Duration(ctx.Config.Cache.TTL.Breakdown)
	serveCached(ctx, metrics.QueryTypeBreakdown, req.Params(), ttl, func(c context.Context, apiKey string) (any, error) {
		return ctx.Plausible.Breakdown(c, apiKey, req.Query())
	})
}
