package plausible

import (
	"time"

	"github.com/goccy/go-json"
)

const PeriodCustom = "custom"

// DateRange is either a period token such as "7d" or, for custom periods, an explicit
// [from, to] pair of YYYY-MM-DD dates.
type DateRange struct {
	Period string
	From   string
	To     string
}

func (d DateRange) MarshalJSON() ([]byte, error) {
	if d.Period == PeriodCustom {
		return json.Marshal([]string{d.From, d.To})
	}
	return json.Marshal(d.Period)
}

func (d *DateRange) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err == nil && len(pair) == 2 {
		d.Period, d.From, d.To = PeriodCustom, pair[0], pair[1]
		return nil
	}
	return json.Unmarshal(data, &d.Period)
}

// QueryBody is the request body of the stats query endpoint.
type QueryBody struct {
	SiteID     string          `json:"site_id"`
	Metrics    []string        `json:"metrics"`
	DateRange  DateRange       `json:"date_range"`
	Dimensions []string        `json:"dimensions,omitempty"`
	Filters    json.RawMessage `json:"filters,omitempty"`
	Include    *Include        `json:"include,omitempty"`
	Pagination *Pagination     `json:"pagination,omitempty"`
}

type Include struct {
	Comparisons *Comparisons `json:"comparisons,omitempty"`
}

type Comparisons struct {
	Mode string `json:"mode"`
}

type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type TimeseriesQuery struct {
	SiteID     string
	DateRange  DateRange
	Metrics    []string
	Dimensions []string
}

func (q TimeseriesQuery) Body() QueryBody {
	return QueryBody{
		SiteID:     q.SiteID,
		Metrics:    q.Metrics,
		DateRange:  q.DateRange,
		Dimensions: q.Dimensions,
	}
}

type BreakdownQuery struct {
	SiteID     string
	DateRange  DateRange
	Metrics    []string
	Dimensions []string
	Limit      int
}

func (q BreakdownQuery) Body() QueryBody {
	body := QueryBody{
		SiteID:     q.SiteID,
		Metrics:    q.Metrics,
		DateRange:  q.DateRange,
		Dimensions: q.Dimensions,
	}
	if q.Limit > 0 {
		body.Pagination = &Pagination{Limit: q.Limit}
	}
	return body
}

type AggregateQuery struct {
	SiteID    string
	DateRange DateRange
	Metrics   []string
	Compare   bool
	Filters   json.RawMessage
}

func (q AggregateQuery) Body() QueryBody {
	body := QueryBody{
		SiteID:    q.SiteID,
		Metrics:   q.Metrics,
		DateRange: q.DateRange,
		Filters:   q.Filters,
	}
	if q.Compare {
		body.Include = &Include{Comparisons: &Comparisons{Mode: "previous_period"}}
	}
	return body
}

type RealtimeResult struct {
	Visitors  int       `json:"visitors"`
	SiteID    string    `json:"site_id"`
	Timestamp time.Time `json:"timestamp"`
}

// QueryResult carries the provider's rows untouched alongside the query that produced them.
type QueryResult struct {
	Results json.RawMessage `json:"results"`
	Query   QueryBody       `json:"query"`
	Meta    json.RawMessage `json:"meta,omitempty"`
}
