package middlewares

import (
	"analytics-proxy/internal/config"
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppContext_HandleError(t *testing.T) {
	var logs bytes.Buffer
	base := &AppContext{
		Config: &config.Config{Server: config.ServerConfig{Mode: config.ModeProduction}},
		Logger: slog.New(slog.NewTextHandler(&logs, nil)),
	}

	handler := AppContextMiddleware(base)(base.HandlerFunc(func(ctx *AppContext) {
		ctx.HandleError(errors.New("database password is hunter2"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/plausible/aggregate?site_id=example.com", nil)
	req.Header.Set("User-Agent", "dashboard-test")
	req.RemoteAddr = "203.0.113.9:4444"
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Internal server error")
	assert.NotContains(t, rr.Body.String(), "hunter2")

	line := logs.String()
	for _, want := range []string{"method=GET", "url=\"/api/plausible/aggregate?site_id=example.com\"", "ip=203.0.113.9", "user_agent=dashboard-test"} {
		assert.True(t, strings.Contains(line, want), "log line %q missing %q", line, want)
	}
}

func TestAppContext_HandlerWithoutContext(t *testing.T) {
	base := &AppContext{}
	rr := httptest.NewRecorder()

	base.HandlerFunc(func(ctx *AppContext) {
		t.Error("handler must not run without an AppContext")
	})(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestRequestLogger(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/api/plausible/realtime?site_id=example.com", nil)
	req.RemoteAddr = "198.51.100.7:1234"
	req.Header.Set("Authorization", "Bearer secret-token-value")

	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, logs.String(), `msg="GET /api/plausible/realtime?site_id=example.com"`)
	assert.Contains(t, logs.String(), "ip=198.51.100.7")
	assert.NotContains(t, logs.String(), "secret-token-value")
}
