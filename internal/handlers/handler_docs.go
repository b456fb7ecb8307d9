package handlers

import (
	"analytics-proxy/internal/middlewares"
	"analytics-proxy/internal/validation"
	"analytics-proxy/internal/version"
	"net/http"
)

type RouteDoc struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Description string            `json:"description"`
	Auth        bool              `json:"auth"`
	Query       map[string]string `json:"query,omitempty"`
	Body        map[string]string `json:"body,omitempty"`
}

type APIDocs struct {
	Name    string     `json:"name"`
	Version string     `json:"version"`
	Auth    string     `json:"auth"`
	Routes  []RouteDoc `json:"routes"`
}

var periodDoc = "one of 12mo, 6mo, month, 30d, 7d, day, custom (default " + validation.DefaultPeriod + ")"

var routeDocs = []RouteDoc{
	{
		Method:      http.MethodGet,
		Path:        "/api/plausible/realtime",
		Description: "Current number of visitors on the site",
		Auth:        true,
		Query:       map[string]string{"site_id": "required"},
	},
	{
		Method:      http.MethodGet,
		Path:        "/api/plausible/timeseries",
		Description: "Metrics over time",
		Auth:        true,
		Query: map[string]string{
			"site_id":    "required",
			"period":     periodDoc,
			"metrics":    "comma separated metrics (default " + validation.DefaultTimeseriesMetrics + ")",
			"dimensions": "time:hour, time:day, time:week or time:month (default " + validation.DefaultTimeDimension + ")",
			"date":       "YYYY-MM-DD,YYYY-MM-DD, required when period is custom",
		},
	},
	{
		Method:      http.MethodGet,
		Path:        "/api/plausible/breakdown/{property}",
		Description: "Metrics broken down by a visit or event property",
		Auth:        true,
		Query: map[string]string{
			"site_id":  "required",
			"property": "visit:* or event:* property, when not given in the path (dimensions is accepted too)",
			"period":   periodDoc,
			"metrics":  "comma separated metrics (default " + validation.DefaultBreakdownMetrics + ")",
			"limit":    "1 to 100 (default 10)",
			"date":     "YYYY-MM-DD,YYYY-MM-DD, required when period is custom",
		},
	},
	{
		Method:      http.MethodGet,
		Path:        "/api/plausible/aggregate",
		Description: "Aggregated metrics for the period",
		Auth:        true,
		Query: map[string]string{
			"site_id": "required",
			"period":  periodDoc,
			"metrics": "comma separated metrics (default " + validation.DefaultAggregateMetrics + ")",
			"compare": "true to include the previous period",
			"filters": "JSON array of Plausible filters",
			"date":    "YYYY-MM-DD,YYYY-MM-DD, required when period is custom",
		},
	},
	{
		Method:      http.MethodPost,
		Path:        "/api/plausible/test-connection",
		Description: "Checks that an API key can read a site",
		Auth:        true,
		Body:        map[string]string{"api_key": "required", "site_id": "required"},
	},
	{
		Method:      http.MethodGet,
		Path:        "/health",
		Description: "Liveness probe",
	},
}

func GetDocs(ctx *middlewares.AppContext) {
	ctx.WriteJSON(http.StatusOK, APIDocs{
		Name:    "analytics-proxy",
		Version: version.GetVersion(),
		Auth:    "Authorization: Bearer <Plausible API key>",
		Routes:  routeDocs,
	})
}
