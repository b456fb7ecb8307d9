package plausible

import (
	"analytics-proxy/internal/config"
	"analytics-proxy/internal/metrics"
	"analytics-proxy/internal/version"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

//go:generate mockgen -source=client.go -destination=../mocks/plausible.go -package=mocks

// Client talks to the Plausible stats API on behalf of a caller's API key.
type Client interface {
	Realtime(ctx context.Context, apiKey, siteID string) (*RealtimeResult, error)
	Timeseries(ctx context.Context, apiKey string, query TimeseriesQuery) (*QueryResult, error)
	Breakdown(ctx context.Context, apiKey string, query BreakdownQuery) (*QueryResult, error)
	Aggregate(ctx context.Context, apiKey string, query AggregateQuery) (*QueryResult, error)
	// TestConnection reports whether apiKey can read siteID. It never fails.
	TestConnection(ctx context.Context, apiKey, siteID string) bool
}

const maxResponseBytes = 10 << 20

type HTTPClient struct {
	baseURL    string
	apiVersion string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg config.PlausibleConfig, logger *slog.Logger) *HTTPClient {
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = version.UserAgent()
	}

	timeout := time.Duration(cfg.Timeout)
	if timeout <= 0 {
		timeout = time.Duration(config.DefaultPlausibleConfig.Timeout)
	}

	return &HTTPClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiVersion: cfg.APIVersion,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &BearerAuthTransport{
				UserAgent: userAgent,
				Proxied:   http.DefaultTransport,
			},
		},
		logger: logger,
	}
}

func (c *HTTPClient) Realtime(ctx context.Context, apiKey, siteID string) (*RealtimeResult, error) {
	var visitors int
	if err := c.realtimeVisitors(ctx, metrics.QueryTypeRealtime, apiKey, siteID, &visitors); err != nil {
		c.logger.Error("plausible realtime query failed", "site_id", siteID, "error", err)
		return nil, err
	}

	c.logger.Info("plausible realtime query succeeded", "site_id", siteID, "visitors", visitors)

	return &RealtimeResult{
		Visitors:  visitors,
		SiteID:    siteID,
		Timestamp: time.Now().UTC(),
	}, nil
}

func (c *HTTPClient) Timeseries(ctx context.Context, apiKey string, query TimeseriesQuery) (*QueryResult, error) {
	return c.query(ctx, metrics.QueryTypeTimeseries, apiKey, query.Body())
}

func (c *HTTPClient) Breakdown(ctx context.Context, apiKey string, query BreakdownQuery) (*QueryResult, error) {
	return c.query(ctx, metrics.QueryTypeBreakdown, apiKey, query.Body())
}

func (c *HTTPClient) Aggregate(ctx context.Context, apiKey string, query AggregateQuery) (*QueryResult, error) {
	return c.query(ctx, metrics.QueryTypeAggregate, apiKey, query.Body())
}

func (c *HTTPClient) TestConnection(ctx context.Context, apiKey, siteID string) bool {
	var visitors int
	if err := c.realtimeVisitors(ctx, metrics.QueryTypeTestConnection, apiKey, siteID, &visitors); err != nil {
		c.logger.Warn("plausible connection test failed", "site_id", siteID, "error", err)
		return false
	}

	c.logger.Info("plausible connection test succeeded", "site_id", siteID)
	return true
}

func (c *HTTPClient) realtimeVisitors(ctx context.Context, queryType, apiKey, siteID string, out *int) error {
	endpoint := fmt.Sprintf("%s/api/v1/stats/realtime/visitors?%s", c.baseURL, url.Values{"site_id": {siteID}}.Encode())

	req, err := http.NewRequestWithContext(WithAPIKey(ctx, apiKey), http.MethodGet, endpoint, nil)
	if err != nil {
		return configurationError(err)
	}

	return c.do(queryType, req, out)
}

func (c *HTTPClient) query(ctx context.Context, queryType, apiKey string, body QueryBody) (*QueryResult, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, configurationError(fmt.Errorf("failed to encode query: %w", err))
	}

	endpoint := fmt.Sprintf("%s/api/%s/query", c.baseURL, c.apiVersion)
	req, err := http.NewRequestWithContext(WithAPIKey(ctx, apiKey), http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, configurationError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	var response struct {
		Results json.RawMessage `json:"results"`
		Meta    json.RawMessage `json:"meta"`
	}
	if err := c.do(queryType, req, &response); err != nil {
		c.logger.Error("plausible query failed", "query_type", queryType, "site_id", body.SiteID, "error", err)
		return nil, err
	}

	c.logger.Info("plausible query succeeded", "query_type", queryType, "site_id", body.SiteID)

	return &QueryResult{
		Results: response.Results,
		Query:   body,
		Meta:    response.Meta,
	}, nil
}

// do sends req once and decodes a 2xx body into out. Failures are returned as *Error.
func (c *HTTPClient) do(queryType string, req *http.Request, out any) (err error) {
	start := time.Now()
	defer func() {
		metrics.UpstreamFetchDuration.WithLabelValues(queryType, metrics.DataSourceTypePlausible).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.UpstreamFetchErrors.WithLabelValues(queryType, metrics.DataSourceTypePlausible, string(KindOf(err))).Inc()
		}
	}()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var missingKey *missingAPIKeyError
		if errors.As(err, &missingKey) {
			return configurationError(missingKey)
		}
		return unreachableError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return unreachableError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &Error{
			Kind:       KindUpstream,
			StatusCode: resp.StatusCode,
			Message:    "unexpected response from the Plausible API (status " + strconv.Itoa(resp.StatusCode) + ")",
			Err:        err,
		}
	}

	return nil
}
