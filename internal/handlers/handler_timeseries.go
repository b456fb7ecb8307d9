package handlers

import (
	"analytics-proxy/internal/metrics"
	"analytics-proxy/internal/middlewares"
	"analytics-proxy/internal/validation"
	"context"
	"time"
)

func GetTimeseries(ctx *middlewares.AppContext) {
	req, err := validation.ParseTimeseriesRequest(ctx.Request.URL.Query())
	if err != nil {
		ctx.HandleError(err)
		return
	}

	ttl := time.Duration(ctx.Config.Cache.TTL.Timeseries)
	serveCached(ctx, metrics.QueryTypeTimeseries, req.Params(), ttl, func(c context.Context, apiKey string) (any, error) {
		return ctx.Plausible.Timeseries(c, apiKey, req.Query())
	})
}
