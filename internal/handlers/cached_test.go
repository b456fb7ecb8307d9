package handlers

import (
	"analytics-proxy/internal/middlewares"
	"analytics-proxy/internal/plausible"
	"analytics-proxy/internal/testutil"
	"context"
	"net/http"
	"testing"

	"go.uber.org/mock/gomock"
)

func TestServeCached_IdenticalRequestsCallUpstreamOnce(t *testing.T) {
	tests := []struct {
		name    string
		urls    []string
		handler middlewares.AppHandler
		expect  func(tc *testutil.TestContext)
	}{
		{
			name:    "Realtime",
			urls:    []string{"/api/plausible/realtime?site_id=example.com", "/api/plausible/realtime?site_id=example.com"},
			handler: GetRealtime,
			expect: func(tc *testutil.TestContext) {
				tc.MockPlausible.EXPECT().
					Realtime(gomock.Any(), testutil.TestAPIKey, "example.com").
					Return(&plausible.RealtimeResult{Visitors: 3, SiteID: "example.com"}, nil).
					Times(1)
			},
		},
		{
			name: "TimeseriesWithReorderedAndDefaultedParameters",
			urls: []string{
				"/api/plausible/timeseries?site_id=example.com&period=30d",
				"/api/plausible/timeseries?period=30d&metrics=visitors&site_id=example.com&dimensions=time:day",
			},
			handler: GetTimeseries,
			expect: func(tc *testutil.TestContext) {
				tc.MockPlausible.EXPECT().
					Timeseries(gomock.Any(), testutil.TestAPIKey, gomock.Any()).
					Return(&plausible.QueryResult{Results: []byte(`[]`)}, nil).
					Times(1)
			},
		},
		{
			name: "BreakdownPathAndQueryForms",
			urls: []string{
				"/api/plausible/breakdown?site_id=example.com&property=visit:country",
				"/api/plausible/breakdown?site_id=example.com&dimensions=visit:country&limit=10",
			},
			handler: GetBreakdown,
			expect: func(tc *testutil.TestContext) {
				tc.MockPlausible.EXPECT().
					Breakdown(gomock.Any(), testutil.TestAPIKey, gomock.Any()).
					Return(&plausible.QueryResult{Results: []byte(`[]`)}, nil).
					Times(1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.NewTestContextWithRealCache(t, http.MethodGet, tt.urls[0])
			tt.expect(tc)

			tc.CallHandler(tt.handler)
			tc.AssertStatus(t, http.StatusOK)
			tc.AssertHeader(t, CacheHeader, "MISS")

			for _, url := range tt.urls[1:] {
				next := tc.Next(http.MethodGet, url)
				next.CallHandler(tt.handler)
				next.AssertStatus(t, http.StatusOK)
				next.AssertHeader(t, CacheHeader, "HIT")
				next.AssertJSONBool(t, "success", true)
			}
		})
	}
}

func TestServeCached_DifferentParametersMiss(t *testing.T) {
	tc := testutil.NewTestContextWithRealCache(t, http.MethodGet, "/api/plausible/realtime?site_id=a.example")

	tc.MockPlausible.EXPECT().
		Realtime(gomock.Any(), testutil.TestAPIKey, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, siteID string) (*plausible.RealtimeResult, error) {
			return &plausible.RealtimeResult{SiteID: siteID}, nil
		}).
		Times(2)

	tc.CallHandler(GetRealtime)
	tc.AssertHeader(t, CacheHeader, "MISS")

	next := tc.Next(http.MethodGet, "/api/plausible/realtime?site_id=b.example")
	next.CallHandler(GetRealtime)
	next.AssertHeader(t, CacheHeader, "MISS")
	next.AssertJSONObject(t, "data", map[string]interface{}{"site_id": "b.example"})
}

func TestServeCached_UpstreamIgnoresCallerCancellation(t *testing.T) {
	tc := testutil.NewTestContextWithRealCache(t, http.MethodGet, "/api/plausible/realtime?site_id=example.com")

	ctx, cancel := context.WithCancel(tc.Request.Context())
	cancel()
	tc.WithRequest(tc.Request.WithContext(ctx))

	tc.MockPlausible.EXPECT().
		Realtime(gomock.Any(), testutil.TestAPIKey, "example.com").
		DoAndReturn(func(c context.Context, _ string, siteID string) (*plausible.RealtimeResult, error) {
			if c.Err() != nil {
				t.Errorf("Expected upstream context to outlive the caller, got %v", c.Err())
			}
			return &plausible.RealtimeResult{SiteID: siteID}, nil
		}).
		Times(1)

	tc.CallHandler(GetRealtime)
	tc.AssertStatus(t, http.StatusOK)
}
