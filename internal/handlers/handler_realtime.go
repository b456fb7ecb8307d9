package handlers

import (
	"analytics-proxy/internal/metrics"
	"analytics-proxy/internal/middlewares"
	"analytics-proxy/internal/validation"
	"context"
	"time"
)

func GetRealtime(ctx *middlewares.AppContext) {
	req, err := validation.ParseRealtimeRequest(ctx.Request.URL.Query())
	if err != nil {
		ctx.HandleError(err)
		return
	}

	ttl := time.Duration(ctx.Config.Cache.TTL.Realtime)
	serveCached(ctx, metrics.QueryTypeRealtime, req.Params(), ttl, func(c context.Context, apiKey string) (any, error) {
		return ctx.Plausible.Realtime(c, apiKey, req.SiteID)
	})
}
