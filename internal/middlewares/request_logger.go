package middlewares

import (
	"log/slog"
	"net/http"
)

// RequestLogger logs every inbound request line before it is handled.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Info(r.Method+" "+r.URL.RequestURI(), "ip", ClientIP(r))
			next.ServeHTTP(w, r)
		})
	}
}
