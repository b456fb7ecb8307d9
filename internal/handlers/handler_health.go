package handlers

import (
	"analytics-proxy/internal/middlewares"
	"analytics-proxy/internal/models"
	"analytics-proxy/internal/version"
	"net/http"
	"time"
)

func HandlerHealth(ctx *middlewares.AppContext) {
	ctx.WriteJSON(http.StatusOK, models.HealthStatus{
		Status:     "OK",
		Timestamp:  time.Now().UTC(),
		Uptime:     time.Since(ctx.StartedAt).Seconds(),
		Version:    version.GetVersion(),
		InstanceID: ctx.InstanceID,
	})
}
