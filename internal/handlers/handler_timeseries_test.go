package handlers

import (
	"analytics-proxy/internal/data"
	"analytics-proxy/internal/plausible"
	"analytics-proxy/internal/testutil"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
)

func TestGetTimeseries(t *testing.T) {
	defaultKey := data.BuildKey("timeseries", map[string]string{
		"site_id":    "example.com",
		"period":     "7d",
		"metrics":    "visitors",
		"dimensions": "time:day",
	})

	tests := []struct {
		name           string
		url            string
		setupMocks     func(tc *testutil.TestContext)
		expectedStatus int
		validate       func(t *testing.T, tc *testutil.TestContext)
	}{
		{
			name:           "DefaultsShouldQueryLastSevenDaysByDay",
			url:            "/api/plausible/timeseries?site_id=example.com",
			expectedStatus: http.StatusOK,
			setupMocks: func(tc *testutil.TestContext) {
				tc.ExpectCacheGet(defaultKey, data.CachedData{}, false).Times(1)
				tc.MockPlausible.EXPECT().
					Timeseries(gomock.Any(), testutil.TestAPIKey, plausible.TimeseriesQuery{
						SiteID:     "example.com",
						DateRange:  plausible.DateRange{Period: "7d"},
						Metrics:    []string{"visitors"},
						Dimensions: []string{"time:day"},
					}).
					Return(&plausible.QueryResult{Results: []byte(`[{"dimensions":["2024-01-01"],"metrics":[3]}]`)}, nil).
					Times(1)
				tc.ExpectCacheSet(defaultKey, 5*time.Minute).Times(1)
			},
			validate: func(t *testing.T, tc *testutil.TestContext) {
				tc.AssertHeader(t, CacheHeader, "MISS")
				tc.AssertJSONObject(t, "params", map[string]interface{}{
					"period":     "7d",
					"metrics":    "visitors",
					"dimensions": "time:day",
				})
			},
		},
		{
			name:           "CustomPeriodShouldSendDateRange",
			url:            "/api/plausible/timeseries?site_id=example.com&period=custom&date=2024-01-01,2024-01-31&metrics=visitors,pageviews",
			expectedStatus: http.StatusOK,
			setupMocks: func(tc *testutil.TestContext) {
				tc.MockCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(data.CachedData{}, false).Times(1)
				tc.MockPlausible.EXPECT().
					Timeseries(gomock.Any(), testutil.TestAPIKey, plausible.TimeseriesQuery{
						SiteID:     "example.com",
						DateRange:  plausible.DateRange{Period: "custom", From: "2024-01-01", To: "2024-01-31"},
						Metrics:    []string{"visitors", "pageviews"},
						Dimensions: []string{"time:day"},
					}).
					Return(&plausible.QueryResult{Results: []byte(`[]`)}, nil).
					Times(1)
				tc.MockCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), 5*time.Minute).Return(nil).Times(1)
			},
			validate: func(t *testing.T, tc *testutil.TestContext) {
				tc.AssertJSONObject(t, "params", map[string]interface{}{"date": "2024-01-01,2024-01-31"})
			},
		},
		{
			name:           "CustomPeriodWithoutDateShouldFailBeforeUpstream",
			url:            "/api/plausible/timeseries?site_id=example.com&period=custom",
			expectedStatus: http.StatusBadRequest,
			setupMocks:     func(tc *testutil.TestContext) {},
			validate: func(t *testing.T, tc *testutil.TestContext) {
				tc.AssertJSONString(t, "message", "date is required when period is custom")
				tc.AssertJSONObject(t, "details", map[string]interface{}{"field": "date"})
			},
		},
		{
			name:           "UnknownMetricShouldFailValidation",
			url:            "/api/plausible/timeseries?site_id=example.com&metrics=visitors,clicks",
			expectedStatus: http.StatusBadRequest,
			setupMocks:     func(tc *testutil.TestContext) {},
			validate: func(t *testing.T, tc *testutil.TestContext) {
				tc.AssertJSONObject(t, "details", map[string]interface{}{"field": "metrics"})
			},
		},
		{
			name:           "CacheWriteFailureShouldStillAnswer",
			url:            "/api/plausible/timeseries?site_id=example.com",
			expectedStatus: http.StatusOK,
			setupMocks: func(tc *testutil.TestContext) {
				tc.ExpectCacheGet(defaultKey, data.CachedData{}, false).Times(1)
				tc.MockPlausible.EXPECT().
					Timeseries(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&plausible.QueryResult{Results: []byte(`[]`)}, nil).
					Times(1)
				tc.MockCache.EXPECT().Set(gomock.Any(), defaultKey, gomock.Any(), 5*time.Minute).Return(errors.New("redis down")).Times(1)
			},
			validate: func(t *testing.T, tc *testutil.TestContext) {
				tc.AssertJSONBool(t, "success", true)
				tc.AssertLogContains(t, slog.LevelWarn, "failed to cache result")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.NewTestContextWithURL(t, http.MethodGet, tt.url)
			tt.setupMocks(tc)

			tc.CallHandler(GetTimeseries)

			tc.AssertStatus(t, tt.expectedStatus)
			if tt.validate != nil {
				tt.validate(t, tc)
			}
		})
	}
}
