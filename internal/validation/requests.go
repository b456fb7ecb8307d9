package validation

import (
	"analytics-proxy/internal/plausible"
	"analytics-proxy/internal/utils"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

var Metrics = []string{
	"visitors", "visits", "pageviews", "views_per_visit", "bounce_rate", "visit_duration",
	"events", "scroll_depth", "percentage", "conversion_rate", "group_conversion_rate",
	"average_revenue", "total_revenue", "time_on_page",
}

var BreakdownProperties = []string{
	"visit:source", "visit:utm_source", "visit:utm_medium", "visit:utm_campaign",
	"visit:device", "visit:browser", "visit:os", "visit:country", "visit:region",
	"visit:city", "event:page", "event:name",
}

var TimeDimensions = []string{"time:hour", "time:day", "time:week", "time:month"}

var Periods = []string{"12mo", "6mo", "month", "30d", "7d", "day", plausible.PeriodCustom}

const (
	DefaultPeriod            = "7d"
	DefaultTimeseriesMetrics = "visitors"
	DefaultBreakdownMetrics  = "visitors"
	DefaultAggregateMetrics  = "visitors,pageviews,bounce_rate,visit_duration"
	DefaultTimeDimension     = "time:day"
	DefaultBreakdownLimit    = 10
)

type RealtimeRequest struct {
	SiteID string `query:"site_id" validate:"required"`
}

func ParseRealtimeRequest(values url.Values) (*RealtimeRequest, error) {
	req := &RealtimeRequest{
		SiteID: strings.TrimSpace(values.Get("site_id")),
	}

	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *RealtimeRequest) Params() map[string]string {
	return map[string]string{"site_id": r.SiteID}
}

type TimeseriesRequest struct {
	SiteID     string   `query:"site_id" validate:"required"`
	Period     string   `query:"period" validate:"required,oneof=12mo 6mo month 30d 7d day custom"`
	Metrics    []string `query:"metrics" validate:"required,min=1,dive,metric"`
	Dimensions []string `query:"dimensions" validate:"required,min=1,dive,time_dimension"`
	Date       string   `query:"date" validate:"required_if=Period custom,omitempty,daterange"`
}

// ParseTimeseriesRequest applies defaults to the query string and validates it. The legacy
// interval parameter (date or month) is accepted when dimensions is absent.
func ParseTimeseriesRequest(values url.Values) (*TimeseriesRequest, error) {
	dimensions := values.Get("dimensions")
	if dimensions == "" {
		switch interval := strings.TrimSpace(values.Get("interval")); interval {
		case "":
			dimensions = DefaultTimeDimension
		case "date":
			dimensions = "time:day"
		default:
			dimensions = "time:" + interval
		}
	}

	req := &TimeseriesRequest{
		SiteID:     strings.TrimSpace(values.Get("site_id")),
		Period:     valueOrDefault(values.Get("period"), DefaultPeriod),
		Metrics:    utils.SplitList(valueOrDefault(values.Get("metrics"), DefaultTimeseriesMetrics)),
		Dimensions: utils.SplitList(dimensions),
		Date:       strings.TrimSpace(values.Get("date")),
	}

	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *TimeseriesRequest) Query() plausible.TimeseriesQuery {
	return plausible.TimeseriesQuery{
		SiteID:     r.SiteID,
		DateRange:  dateRange(r.Period, r.Date),
		Metrics:    r.Metrics,
		Dimensions: r.Dimensions,
	}
}

func (r *TimeseriesRequest) Params() map[string]string {
	params := map[string]string{
		"site_id":    r.SiteID,
		"period":     r.Period,
		"metrics":    strings.Join(r.Metrics, ","),
		"dimensions": strings.Join(r.Dimensions, ","),
	}
	addDate(params, r.Period, r.Date)
	return params
}

type BreakdownRequest struct {
	SiteID   string   `query:"site_id" validate:"required"`
	Property []string `query:"property" validate:"required,min=1,dive,breakdown_property"`
	Period   string   `query:"period" validate:"required,oneof=12mo 6mo month 30d 7d day custom"`
	Metrics  []string `query:"metrics" validate:"required,min=1,dive,metric"`
	Limit    int      `query:"limit" validate:"min=1,max=100"`
	Date     string   `query:"date" validate:"required_if=Period custom,omitempty,daterange"`
}

// ParseBreakdownRequest validates a breakdown query. The property comes from the route path
// when present, then from the property or dimensions query parameters.
func ParseBreakdownRequest(values url.Values, pathProperty string) (*BreakdownRequest, error) {
	property := strings.TrimSpace(pathProperty)
	if property == "" {
		property = values.Get("property")
	}
	if property == "" {
		property = values.Get("dimensions")
	}

	limit := DefaultBreakdownLimit
	if rawLimit := strings.TrimSpace(values.Get("limit")); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil {
			return nil, NewFieldError("limit", "integer", rawLimit, "limit must be an integer between 1 and 100")
		}
		limit = parsed
	}

	req := &BreakdownRequest{
		SiteID:   strings.TrimSpace(values.Get("site_id")),
		Property: utils.SplitList(property),
		Period:   valueOrDefault(values.Get("period"), DefaultPeriod),
		Metrics:  utils.SplitList(valueOrDefault(values.Get("metrics"), DefaultBreakdownMetrics)),
		Limit:    limit,
		Date:     strings.TrimSpace(values.Get("date")),
	}

	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *BreakdownRequest) Query() plausible.BreakdownQuery {
	return plausible.BreakdownQuery{
		SiteID:     r.SiteID,
		DateRange:  dateRange(r.Period, r.Date),
		Metrics:    r.Metrics,
		Dimensions: r.Property,
		Limit:      r.Limit,
	}
}

func (r *BreakdownRequest) Params() map[string]string {
	params := map[string]string{
		"site_id":  r.SiteID,
		"property": strings.Join(r.Property, ","),
		"period":   r.Period,
		"metrics":  strings.Join(r.Metrics, ","),
		"limit":    strconv.Itoa(r.Limit),
	}
	addDate(params, r.Period, r.Date)
	return params
}

type AggregateRequest struct {
	SiteID  string   `query:"site_id" validate:"required"`
	Period  string   `query:"period" validate:"required,oneof=12mo 6mo month 30d 7d day custom"`
	Metrics []string `query:"metrics" validate:"required,min=1,dive,metric"`
	Compare bool     `query:"compare"`
	Filters string   `query:"filters" validate:"omitempty,json_array"`
	Date    string   `query:"date" validate:"required_if=Period custom,omitempty,daterange"`
}

func ParseAggregateRequest(values url.Values) (*AggregateRequest, error) {
	compare := false
	if rawCompare := strings.TrimSpace(values.Get("compare")); rawCompare != "" {
		parsed, err := strconv.ParseBool(rawCompare)
		if err != nil {
			return nil, NewFieldError("compare", "boolean", rawCompare, "compare must be a boolean")
		}
		compare = parsed
	}

	req := &AggregateRequest{
		SiteID:  strings.TrimSpace(values.Get("site_id")),
		Period:  valueOrDefault(values.Get("period"), DefaultPeriod),
		Metrics: utils.SplitList(valueOrDefault(values.Get("metrics"), DefaultAggregateMetrics)),
		Compare: compare,
		Filters: strings.TrimSpace(values.Get("filters")),
		Date:    strings.TrimSpace(values.Get("date")),
	}

	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *AggregateRequest) Query() plausible.AggregateQuery {
	query := plausible.AggregateQuery{
		SiteID:    r.SiteID,
		DateRange: dateRange(r.Period, r.Date),
		Metrics:   r.Metrics,
		Compare:   r.Compare,
	}
	if r.Filters != "" {
		query.Filters = json.RawMessage(r.Filters)
	}
	return query
}

func (r *AggregateRequest) Params() map[string]string {
	params := map[string]string{
		"site_id": r.SiteID,
		"period":  r.Period,
		"metrics": strings.Join(r.Metrics, ","),
		"compare": strconv.FormatBool(r.Compare),
	}
	if r.Filters != "" {
		params["filters"] = r.Filters
	}
	addDate(params, r.Period, r.Date)
	return params
}

type TestConnectionRequest struct {
	APIKey string `json:"api_key" validate:"required"`
	SiteID string `json:"site_id" validate:"required"`
}

// ParseTestConnectionRequest decodes and validates a connection test body.
func ParseTestConnectionRequest(body []byte) (*TestConnectionRequest, error) {
	req := &TestConnectionRequest{}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, req); err != nil {
			return nil, NewFieldError("body", "json", nil, "request body must be a JSON object")
		}
	}

	req.APIKey = strings.TrimSpace(req.APIKey)
	req.SiteID = strings.TrimSpace(req.SiteID)

	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	return req, nil
}

func valueOrDefault(value, def string) string {
	if value = strings.TrimSpace(value); value == "" {
		return def
	}
	return value
}

func dateRange(period, date string) plausible.DateRange {
	if period != plausible.PeriodCustom {
		return plausible.DateRange{Period: period}
	}

	from, to, _ := ParseDateRange(date)
	return plausible.DateRange{Period: period, From: from, To: to}
}

// addDate records the custom date, normalized, only when it affects the query.
func addDate(params map[string]string, period, date string) {
	if period == plausible.PeriodCustom {
		from, to, _ := ParseDateRange(date)
		params["date"] = from + "," + to
	}
}
