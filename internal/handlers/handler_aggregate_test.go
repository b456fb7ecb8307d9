package handlers

import (
	"analytics-proxy/internal/data"
	"analytics-proxy/internal/plausible"
	"analytics-proxy/internal/testutil"
	"net/http"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
)

func TestGetAggregate(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		setupMocks     func(tc *testutil.TestContext)
		expectedStatus int
		validate       func(t *testing.T, tc *testutil.TestContext)
	}{
		{
			name:           "DefaultMetricsWithComparison",
			url:            "/api/plausible/aggregate?site_id=example.com&compare=true",
			expectedStatus: http.StatusOK,
			setupMocks: func(tc *testutil.TestContext) {
				key := data.BuildKey("aggregate", map[string]string{
					"site_id": "example.com",
					"period":  "7d",
					"metrics": "visitors,pageviews,bounce_rate,visit_duration",
					"compare": "true",
				})
				tc.ExpectCacheGet(key, data.CachedData{}, false).Times(1)
				tc.MockPlausible.EXPECT().
					Aggregate(gomock.Any(), testutil.TestAPIKey, plausible.AggregateQuery{
						SiteID:    "example.com",
						DateRange: plausible.DateRange{Period: "7d"},
						Metrics:   []string{"visitors", "pageviews", "bounce_rate", "visit_duration"},
						Compare:   true,
					}).
					Return(&plausible.QueryResult{Results: []byte(`[{"metrics":[10,20,50,120]}]`)}, nil).
					Times(1)
				tc.ExpectCacheSet(key, 5*time.Minute).Times(1)
			},
			validate: func(t *testing.T, tc *testutil.TestContext) {
				tc.AssertJSONObject(t, "params", map[string]interface{}{"compare": "true"})
			},
		},
		{
			name:           "FiltersMustBeAJSONArray",
			url:            "/api/plausible/aggregate?site_id=example.com&filters=visit:source==Google",
			expectedStatus: http.StatusBadRequest,
			setupMocks:     func(tc *testutil.TestContext) {},
			validate: func(t *testing.T, tc *testutil.TestContext) {
				tc.AssertJSONObject(t, "details", map[string]interface{}{"field": "filters"})
			},
		},
		{
			name:           "NonBooleanCompareShouldFailValidation",
			url:            "/api/plausible/aggregate?site_id=example.com&compare=maybe",
			expectedStatus: http.StatusBadRequest,
			setupMocks:     func(tc *testutil.TestContext) {},
			validate: func(t *testing.T, tc *testutil.TestContext) {
				tc.AssertJSONString(t, "message", "compare must be a boolean")
			},
		},
		{
			name:           "UpstreamNotFoundShouldBeBadGateway",
			url:            "/api/plausible/aggregate?site_id=unknown.example",
			expectedStatus: http.StatusBadGateway,
			setupMocks: func(tc *testutil.TestContext) {
				tc.MockCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(data.CachedData{}, false).Times(1)
				tc.MockPlausible.EXPECT().
					Aggregate(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, &plausible.Error{Kind: plausible.KindNotFound, StatusCode: 404, Message: "site not found or not accessible"}).
					Times(1)
			},
			validate: func(t *testing.T, tc *testutil.TestContext) {
				tc.AssertJSONString(t, "error", "External API error")
				tc.AssertJSONString(t, "message", "site not found or not accessible")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.NewTestContextWithURL(t, http.MethodGet, tt.url)
			tt.setupMocks(tc)

			tc.CallHandler(GetAggregate)

			tc.AssertStatus(t, tt.expectedStatus)
			if tt.validate != nil {
				tt.validate(t, tc)
			}
		})
	}
}

func TestGetAggregate_RateLimitedUpstreamIsNotCached(t *testing.T) {
	const url = "/api/plausible/aggregate?site_id=example.com"

	tc := testutil.NewTestContextWithRealCache(t, http.MethodGet, url)

	rateLimited := &plausible.Error{Kind: plausible.KindRateLimited, StatusCode: 429, Message: "too many requests - rate limit exceeded"}
	tc.MockPlausible.EXPECT().
		Aggregate(gomock.Any(), testutil.TestAPIKey, gomock.Any()).
		Return(nil, rateLimited).
		Times(2)

	tc.CallHandler(GetAggregate)
	tc.AssertStatus(t, http.StatusBadGateway)
	tc.AssertJSONString(t, "message", "too many requests - rate limit exceeded")

	if size := tc.AppContext.Cache.Size(tc.AppContext); size != 0 {
		t.Errorf("Expected failed response not to be cached, cache holds %d entries", size)
	}

	second := tc.Next(http.MethodGet, url)
	second.CallHandler(GetAggregate)
	second.AssertStatus(t, http.StatusBadGateway)
}
