package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetValidator_Singleton(t *testing.T) {
	assert.Same(t, GetValidator(), GetValidator())
}

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		expectedFrom string
		expectedTo   string
		wantErr      bool
	}{
		{name: "valid range", value: "2024-01-01,2024-01-31", expectedFrom: "2024-01-01", expectedTo: "2024-01-31"},
		{name: "whitespace around dates", value: "2024-01-01 , 2024-01-31", expectedFrom: "2024-01-01", expectedTo: "2024-01-31"},
		{name: "single day", value: "2024-03-05,2024-03-05", expectedFrom: "2024-03-05", expectedTo: "2024-03-05"},
		{name: "missing separator", value: "2024-01-01", wantErr: true},
		{name: "bad start date", value: "01/01/2024,2024-01-31", wantErr: true},
		{name: "bad end date", value: "2024-01-01,2024-02-30", wantErr: true},
		{name: "end before start", value: "2024-02-01,2024-01-01", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := ParseDateRange(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedFrom, from)
			assert.Equal(t, tt.expectedTo, to)
		})
	}
}

func TestValidateStruct_FieldNames(t *testing.T) {
	req := &TimeseriesRequest{
		Period:     "7d",
		Metrics:    []string{"visitors", "bogus"},
		Dimensions: []string{"time:day"},
	}

	err := ValidateStruct(req)
	require.NotNil(t, err)
	require.Len(t, err.Errors(), 2)

	assert.Equal(t, "site_id", err.Errors()[0].Field())
	assert.Equal(t, "required", err.Errors()[0].Tag())
	assert.Equal(t, "site_id is required", err.Errors()[0].Error())

	assert.Equal(t, "metrics", err.Errors()[1].Field())
	assert.Equal(t, "metric", err.Errors()[1].Tag())
	assert.Equal(t, "bogus", err.Errors()[1].Value())
	assert.Contains(t, err.Errors()[1].Error(), `metrics contains unsupported metric "bogus"`)

	assert.Equal(t, "site_id", err.First().Field())
	assert.Contains(t, err.Error(), "; ")
}

func TestValidateStruct_Valid(t *testing.T) {
	req := &AggregateRequest{
		SiteID:  "example.com",
		Period:  "30d",
		Metrics: []string{"visitors"},
		Filters: `[["is","visit:country",["FR"]]]`,
	}

	assert.Nil(t, ValidateStruct(req))
}

func TestNewFieldError(t *testing.T) {
	err := NewFieldError("limit", "integer", "ten", "limit must be an integer between 1 and 100")

	require.NotNil(t, err.First())
	assert.Equal(t, "limit", err.First().Field())
	assert.Equal(t, "ten", err.First().Value())
	assert.Equal(t, "limit must be an integer between 1 and 100", err.Error())
}

func TestRequestValidationError_Empty(t *testing.T) {
	err := &RequestValidationError{}
	assert.Nil(t, err.First())
	assert.Equal(t, "validation failed", err.Error())
}
