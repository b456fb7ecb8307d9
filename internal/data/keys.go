package data

import (
	"net/url"
)

// BuildKey derives the cache key for a query. Parameters are encoded sorted by name so the
// same parameters always produce the same key, and values are escaped so no two distinct
// parameter sets collide.
func BuildKey(queryType string, params map[string]string) string {
	values := make(url.Values, len(params))
	for name, value := range params {
		values.Set(name, value)
	}

	return queryType + ":" + values.Encode()
}
