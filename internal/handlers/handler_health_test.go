package handlers

import (
	"analytics-proxy/internal/middlewares"
	"analytics-proxy/internal/testutil"
	"net/http"
	"testing"
	"time"
)

func TestHandlerHealth(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, http.MethodGet, "/health")
	tc.AppContext.StartedAt = time.Now().Add(-time.Minute)

	tc.CallHandler(HandlerHealth)

	tc.AssertStatus(t, http.StatusOK)
	tc.AssertContentType(t, "application/json")
	tc.AssertJSONField(t, "status", "OK")
	tc.AssertJSONField(t, "instance_id", "test-instance")

	response := tc.GetJSONResponse(t)
	if uptime, _ := response["uptime"].(float64); uptime < 60 {
		t.Errorf("Expected uptime of at least 60 seconds, got %v", response["uptime"])
	}
	if _, ok := response["timestamp"].(string); !ok {
		t.Errorf("Expected timestamp string, got %v", response["timestamp"])
	}
}

func TestHandlerError(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, http.MethodGet, "/error")

	errorHandler := func(ctx *middlewares.AppContext) {
		ctx.SetJSONError(http.StatusBadRequest, "Bad Request", "something was wrong")
	}

	tc.CallHandler(errorHandler)

	tc.AssertStatus(t, http.StatusBadRequest)
	tc.AssertJSONBool(t, "success", false)
	tc.AssertJSONField(t, "error", "Bad Request")
	tc.AssertJSONField(t, "message", "something was wrong")
}

func TestHandlerNotFound(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, http.MethodGet, "/api/unknown?x=1")

	tc.CallHandler(HandlerNotFound)

	tc.AssertStatus(t, http.StatusNotFound)
	tc.AssertJSONString(t, "error", "Route not found")
	tc.AssertJSONString(t, "message", "The endpoint /api/unknown?x=1 does not exist")
}

func TestGetDocs(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, http.MethodGet, "/api/docs")

	tc.CallHandler(GetDocs)

	tc.AssertStatus(t, http.StatusOK)
	tc.AssertJSONString(t, "name", "analytics-proxy")

	routes, ok := tc.GetJSONResponse(t)["routes"].([]interface{})
	if !ok {
		t.Fatalf("Expected routes array, got %T", tc.GetJSONResponse(t)["routes"])
	}
	if len(routes) != len(routeDocs) {
		t.Errorf("Expected %d routes, got %d", len(routeDocs), len(routes))
	}
}
