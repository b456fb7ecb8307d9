package testutil

import (
	"analytics-proxy/internal/config"
	"analytics-proxy/internal/data"
	"analytics-proxy/internal/middlewares"
	"analytics-proxy/internal/mocks"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/mock/gomock"
)

// TestAPIKey passes the bearer token length check.
const TestAPIKey = "test-api-key-0123456789"

// TestContext holds everything needed for testing
type TestContext struct {
	AppContext     *middlewares.AppContext
	Request        *http.Request
	Response       *httptest.ResponseRecorder
	MockController *gomock.Controller
	MockCache      *mocks.MockCacheProvider
	MockPlausible  *mocks.MockClient
	LogHandler     *TestLogHandler
}

// NewTestConfig returns a config with every default applied, in test mode.
func NewTestConfig() *config.Config {
	debug := config.DefaultDebugConfig
	allowCredentials := true
	cors := config.DefaultCORSConfig
	cors.AllowCredentials = &allowCredentials

	server := config.DefaultServerConfig
	server.Mode = config.ModeTest
	server.Debug = &debug

	return &config.Config{
		Server:    server,
		Log:       config.DefaultLogConfig,
		CORS:      cors,
		RateLimit: config.DefaultRateLimitConfig,
		Plausible: config.DefaultPlausibleConfig,
		Cache:     config.DefaultCacheConfig,
	}
}

// NewTestContextWithURL creates a complete test setup with sensible defaults
func NewTestContextWithURL(t *testing.T, method, url string) *TestContext {
	return NewTestContextWithBody(t, method, url, "")
}

// NewTestContextWithBody is NewTestContextWithURL with a request body.
func NewTestContextWithBody(t *testing.T, method, url, body string) *TestContext {
	logHandler := NewTestLogHandler()
	logger := slog.New(logHandler)

	ctrl := gomock.NewController(t)

	mockCache := mocks.NewMockCacheProvider(ctrl)
	mockPlausible := mocks.NewMockClient(ctrl)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()

	appCtx := &middlewares.AppContext{
		Context:    req.Context(),
		Config:     NewTestConfig(),
		Logger:     logger,
		Cache:      mockCache,
		Plausible:  mockPlausible,
		StartedAt:  time.Now(),
		InstanceID: "test-instance",
		APIKey:     TestAPIKey,
		Request:    req,
		Response:   rr,
	}

	return &TestContext{
		AppContext:     appCtx,
		Request:        req,
		Response:       rr,
		MockController: ctrl,
		MockCache:      mockCache,
		MockPlausible:  mockPlausible,
		LogHandler:     logHandler,
	}
}

// NewTestContextWithRealCache creates a test context with a real MemCache instead of mock
func NewTestContextWithRealCache(t *testing.T, method, url string) *TestContext {
	tc := NewTestContextWithURL(t, method, url)

	cache := data.NewMemCache(tc.AppContext.Config, slog.New(NewTestLogHandler()))
	t.Cleanup(func() {
		_ = cache.Close()
	})

	tc.AppContext.Cache = cache
	tc.MockCache = nil
	return tc
}

// Next returns a context for a second request to url that shares this context's cache,
// upstream mock and log handler.
func (tc *TestContext) Next(method, url string) *TestContext {
	req := httptest.NewRequest(method, url, nil)
	rr := httptest.NewRecorder()

	appCtx := *tc.AppContext
	appCtx.Context = req.Context()
	appCtx.Request = req
	appCtx.Response = rr

	return &TestContext{
		AppContext:     &appCtx,
		Request:        req,
		Response:       rr,
		MockController: tc.MockController,
		MockCache:      tc.MockCache,
		MockPlausible:  tc.MockPlausible,
		LogHandler:     tc.LogHandler,
	}
}

func (tc *TestContext) AssertLogContains(t *testing.T, level slog.Level, message string) {
	t.Helper()
	if !tc.LogHandler.ContainsMessage(level, message) {
		t.Errorf("Expected to find log entry with level %v containing message: %s", level, message)
	}
}

func (tc *TestContext) AssertLogCount(t *testing.T, level slog.Level, expectedCount int) {
	t.Helper()
	count := tc.LogHandler.CountByLevel(level)
	if count != expectedCount {
		t.Errorf("Expected %d log entries at level %v, got %d", expectedCount, level, count)
	}
}

// AssertLogsExclude fails when any log record carries value in its message or attributes.
func (tc *TestContext) AssertLogsExclude(t *testing.T, value string) {
	t.Helper()
	for _, record := range tc.LogHandler.GetRecords() {
		if strings.Contains(record.Message, value) {
			t.Errorf("log message %q contains %q", record.Message, value)
		}
		for key, attr := range record.Attrs {
			if s, ok := attr.(string); ok && strings.Contains(s, value) {
				t.Errorf("log attribute %s=%q contains %q", key, s, value)
			}
		}
	}
}

// CallHandler executes a handler with the test context
func (tc *TestContext) CallHandler(handler middlewares.AppHandler) {
	handler(tc.AppContext)
}

// AssertStatus checks the HTTP status code
func (tc *TestContext) AssertStatus(t *testing.T, expectedStatus int) {
	t.Helper()
	if tc.Response.Code != expectedStatus {
		t.Errorf("Expected status %d, got %d (body: %s)", expectedStatus, tc.Response.Code, tc.Response.Body.String())
	}
}

// AssertContentType checks the content type header
func (tc *TestContext) AssertContentType(t *testing.T, expectedType string) {
	t.Helper()
	if ct := tc.Response.Header().Get("Content-Type"); ct != expectedType {
		t.Errorf("Expected content type %s, got %s", expectedType, ct)
	}
}

// AssertHeader checks a response header
func (tc *TestContext) AssertHeader(t *testing.T, key, expected string) {
	t.Helper()
	if actual := tc.Response.Header().Get(key); actual != expected {
		t.Errorf("Expected header %s to be %q, got %q", key, expected, actual)
	}
}

// GetJSONResponse parses the response body as JSON
func (tc *TestContext) GetJSONResponse(t *testing.T) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(tc.Response.Body.Bytes(), &response); err != nil {
		t.Fatalf("Could not parse JSON response: %v", err)
	}
	return response
}

// AssertJSONField checks a specific field in a JSON response
func (tc *TestContext) AssertJSONField(t *testing.T, field string, expected any) {
	t.Helper()
	response := tc.GetJSONResponse(t)
	if actual, ok := response[field]; !ok || actual != expected {
		t.Errorf("Expected %s to be %v, got %v", field, expected, response[field])
	}
}

func (tc *TestContext) AssertJSONBool(t *testing.T, field string, expected bool) {
	t.Helper()
	response := tc.GetJSONResponse(t)
	actual, exists := response[field]

	if !exists {
		t.Errorf("Field %s not found in response", field)
		return
	}

	actualBool, ok := actual.(bool)
	if !ok {
		t.Errorf("Expected %s to be a boolean, got %T", field, actual)
		return
	}

	if actualBool != expected {
		t.Errorf("Expected %s to be %v, got %v", field, expected, actualBool)
	}
}

// AssertJSONString checks a specific string field in a JSON response
func (tc *TestContext) AssertJSONString(t *testing.T, field string, expected string) {
	t.Helper()
	response := tc.GetJSONResponse(t)
	actual, exists := response[field]

	if !exists {
		t.Errorf("Field %s not found in response", field)
		return
	}

	actualString, ok := actual.(string)
	if !ok {
		t.Errorf("Expected %s to be a string, got %T", field, actual)
		return
	}

	if actualString != expected {
		t.Errorf("Expected %s to be %q, got %q", field, expected, actualString)
	}
}

// AssertJSONObject validates an object field with expected key-value pairs
func (tc *TestContext) AssertJSONObject(t *testing.T, field string, expectedFields map[string]interface{}) {
	t.Helper()
	response := tc.GetJSONResponse(t)
	actual, exists := response[field]

	if !exists {
		t.Errorf("Field %s not found in response", field)
		return
	}

	actualObj, ok := actual.(map[string]interface{})
	if !ok {
		t.Errorf("Expected %s to be an object, got %T", field, actual)
		return
	}

	for key, expectedValue := range expectedFields {
		if actualValue, keyExists := actualObj[key]; !keyExists {
			t.Errorf("Expected field %s.%s to exist", field, key)
		} else if actualValue != expectedValue {
			t.Errorf("Expected %s.%s to be %v, got %v", field, key, expectedValue, actualValue)
		}
	}
}

// WithConfig allows you to override the default config for specific tests
func (tc *TestContext) WithConfig(cfg *config.Config) *TestContext {
	tc.AppContext.Config = cfg
	return tc
}

// WithCache allows you to override the cache with a different mock or implementation
func (tc *TestContext) WithCache(cache data.CacheProvider) *TestContext {
	tc.AppContext.Cache = cache
	return tc
}

// WithAPIKey replaces the bearer token RequireAPIKey would have stored.
func (tc *TestContext) WithAPIKey(apiKey string) *TestContext {
	tc.AppContext.APIKey = apiKey
	return tc
}

// Helper to add query parameters to the request
func (tc *TestContext) WithQueryParam(key, value string) *TestContext {
	q := tc.Request.URL.Query()
	q.Add(key, value)
	tc.Request.URL.RawQuery = q.Encode()
	return tc
}

// Helper to add headers
func (tc *TestContext) WithHeader(key, value string) *TestContext {
	tc.Request.Header.Set(key, value)
	return tc
}

// WithURLParam sets a chi route parameter as the router would.
func (tc *TestContext) WithURLParam(key, value string) *TestContext {
	rctx := chi.RouteContext(tc.Request.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return tc.WithRequest(tc.Request.WithContext(context.WithValue(tc.Request.Context(), chi.RouteCtxKey, rctx)))
}

// WithRequest allows you to set a custom request (useful for tests that don't use URL constructor)
func (tc *TestContext) WithRequest(req *http.Request) *TestContext {
	tc.Request = req
	tc.AppContext.Request = req
	tc.AppContext.Context = req.Context()
	return tc
}

// ExpectCacheGet sets up an expectation for cache.Get()
func (tc *TestContext) ExpectCacheGet(key string, returnData data.CachedData, found bool) *gomock.Call {
	return tc.MockCache.EXPECT().Get(gomock.Any(), key).Return(returnData, found)
}

// ExpectCacheSet sets up an expectation for cache.Set() with the given key and ttl
func (tc *TestContext) ExpectCacheSet(key string, ttl time.Duration) *gomock.Call {
	return tc.MockCache.EXPECT().Set(gomock.Any(), key, gomock.Any(), ttl).Return(nil)
}

// CreateCachedData wraps value the way a provider returns it.
func (tc *TestContext) CreateCachedData(key string, value string, ttl time.Duration) data.CachedData {
	now := time.Now()
	return data.CachedData{
		Key:       key,
		Value:     []byte(value),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}
