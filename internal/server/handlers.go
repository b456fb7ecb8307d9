package server

import (
	"analytics-proxy/internal/handlers"
	"analytics-proxy/internal/middlewares"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func setupRouter(ctx *middlewares.AppContext) *chi.Mux {
	cfg := ctx.Config
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middlewares.ClientIPMiddleware(cfg.Server.TrustProxyHeaders))
	r.Use(middleware.Recoverer)
	r.Use(middlewares.MetricsMiddleware)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(middlewares.SecurityHeaders)
	r.Use(middlewares.RateLimit(cfg.RateLimit, ctx.Logger))

	allowCredentials := cfg.CORS.AllowCredentials != nil && *cfg.CORS.AllowCredentials
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           cfg.CORS.MaxAgeSeconds,
	}))

	r.Use(middleware.RequestSize(cfg.Server.MaxBodyBytes))
	r.Use(middlewares.RequestLogger(ctx.Logger))
	r.Use(middlewares.AppContextMiddleware(ctx))

	r.NotFound(ctx.HandlerFunc(handlers.HandlerNotFound))
	r.MethodNotAllowed(ctx.HandlerFunc(handlers.HandlerNotFound))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs", http.StatusFound)
	})
	r.Get("/health", ctx.HandlerFunc(handlers.HandlerHealth))

	r.Route("/api", func(r chi.Router) {
		r.Get("/docs", ctx.HandlerFunc(handlers.GetDocs))

		r.Route("/plausible", func(r chi.Router) {
			r.Use(middlewares.RequireAPIKey)

			r.Get("/realtime", ctx.HandlerFunc(handlers.GetRealtime))
			r.Get("/timeseries", ctx.HandlerFunc(handlers.GetTimeseries))
			r.Get("/breakdown", ctx.HandlerFunc(handlers.GetBreakdown))
			r.Get("/breakdown/{property}", ctx.HandlerFunc(handlers.GetBreakdown))
			r.Get("/aggregate", ctx.HandlerFunc(handlers.GetAggregate))
			r.Post("/test-connection", ctx.HandlerFunc(handlers.PostTestConnection))
		})
	})

	return r
}

// setupDebugRouter serves metrics, pprof and cache administration. It has no authentication
// and must only listen on a private address.
func setupDebugRouter(ctx *middlewares.AppContext) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/debug/cache", func(r chi.Router) {
		r.Use(middlewares.AppContextMiddleware(ctx))

		r.Get("/stats", ctx.HandlerFunc(handlers.GetCacheStats))
		r.Get("/keys", ctx.HandlerFunc(handlers.GetCacheKeys))
		r.Delete("/", ctx.HandlerFunc(handlers.DeleteCache))
		r.Delete("/{key}", ctx.HandlerFunc(handlers.DeleteCacheKey))
	})

	r.Mount("/debug", middleware.Profiler())

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}
