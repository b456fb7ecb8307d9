package middlewares

import (
	"analytics-proxy/internal/config"
	"analytics-proxy/internal/data"
	"analytics-proxy/internal/models"
	"analytics-proxy/internal/plausible"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

type AppContext struct {
	context.Context
	Config     *config.Config
	Logger     *slog.Logger
	Cache      data.CacheProvider
	Plausible  plausible.Client
	StartedAt  time.Time
	InstanceID string

	// APIKey is the caller's bearer token, set by RequireAPIKey. It is never logged.
	APIKey string

	Request  *http.Request
	Response http.ResponseWriter
}

type contextKey string

const appContextKey contextKey = "appContext"

func AppContextMiddleware(baseCtx *AppContext) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestCtx := &AppContext{
				Context:    r.Context(),
				Config:     baseCtx.Config,
				Logger:     baseCtx.Logger,
				Cache:      baseCtx.Cache,
				Plausible:  baseCtx.Plausible,
				StartedAt:  baseCtx.StartedAt,
				InstanceID: baseCtx.InstanceID,
				Request:    r,
				Response:   w,
			}

			ctx := context.WithValue(r.Context(), appContextKey, requestCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type AppHandler func(*AppContext)

// Handler converts an AppHandler to an http.Handler
func (ctx *AppContext) Handler(h AppHandler) http.Handler {
	return ctx.HandlerFunc(h)
}

// HandlerFunc converts AppHandler to a http.HandlerFunc
func (ctx *AppContext) HandlerFunc(h AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appCtx := GetAppContext(r)
		if appCtx == nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		h(appCtx)
	}
}

func (ctx *AppContext) Redirect(url string, status int) {
	http.Redirect(ctx.Response, ctx.Request, url, status)
}

func NewAppContext(ctx context.Context, cfg *config.Config, logger *slog.Logger, cache data.CacheProvider, client plausible.Client, instanceID string) *AppContext {
	return &AppContext{
		Context:    ctx,
		Config:     cfg,
		Logger:     logger,
		Cache:      cache,
		Plausible:  client,
		StartedAt:  time.Now(),
		InstanceID: instanceID,
	}
}

func GetAppContext(r *http.Request) *AppContext {
	if ctx, ok := r.Context().Value(appContextKey).(*AppContext); ok {
		return ctx
	}

	return nil
}

func GetLogger(r *http.Request) *slog.Logger {
	if appCtx := GetAppContext(r); appCtx != nil {
		return appCtx.Logger
	}

	return nil
}

func GetConfig(r *http.Request) *config.Config {
	if appCtx := GetAppContext(r); appCtx != nil {
		return appCtx.Config
	}

	return nil
}

func (ctx *AppContext) WriteJSON(status int, data interface{}) {
	writeJSON(ctx.Response, ctx.Logger, status, data)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil && logger != nil {
		logger.Error("failed to marshal json", "error", err)
	}
}

// SetJSONError writes an error envelope without going through the error normalizer.
func (ctx *AppContext) SetJSONError(status int, title, message string) {
	ctx.WriteJSON(status, models.NewErrorEnvelope(title, message))
}

// HandleError is the single place a handler failure becomes a response.
func (ctx *AppContext) HandleError(err error) {
	status, envelope := NormalizeError(err, ctx.Config.Server.Mode)

	ctx.Logger.Error("request failed",
		"error", err,
		"status", status,
		"method", ctx.Request.Method,
		"url", ctx.Request.URL.RequestURI(),
		"ip", ClientIP(ctx.Request),
		"user_agent", ctx.Request.UserAgent(),
	)

	ctx.WriteJSON(status, envelope)
}
