package handlers

import (
	"analytics-proxy/internal/metrics"
	"analytics-proxy/internal/middlewares"
	"analytics-proxy/internal/validation"
	"context"
	"time"
)

func GetAggregate(ctx *middlewares.AppContext) {
	req, err := validation.ParseAggregateRequest(ctx.Request.URL.Query())
	if err != nil {
		ctx.HandleError(err)
		return
	}

	ttl := time.Duration(ctx.Config.Cache.TTL.Aggregate)
	serveCached(ctx, metrics.QueryTypeAggregate, req.Params(), ttl, func(c context.Context, apiKey string) (any, error) {
		return ctx.Plausible.Aggregate(c, apiKey, req.Query())
	})
}
