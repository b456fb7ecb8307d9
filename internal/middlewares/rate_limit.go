package middlewares

import (
	"analytics-proxy/internal/config"
	"analytics-proxy/internal/metrics"
	"analytics-proxy/internal/models"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

const rateLimitMessage = "Too many requests from this IP, please try again later."

// RateLimit limits each client IP to cfg.Requests per cfg.Window. ClientIPMiddleware must run
// first so the key is the real client address.
func RateLimit(cfg config.RateLimitConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	if cfg.Disabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		cfg.Requests,
		time.Duration(cfg.Window),
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.RateLimitRejections.WithLabelValues(r.URL.Path).Inc()
			logger.Warn("rate limit exceeded", "ip", ClientIP(r), "url", r.URL.RequestURI())
			writeJSON(w, logger, http.StatusTooManyRequests, models.NewErrorEnvelope("Too many requests", rateLimitMessage))
		}),
	)
}
