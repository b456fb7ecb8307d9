package utils

import (
	"testing"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected []string
	}{
		{
			name:     "empty string",
			value:    "",
			expected: nil,
		},
		{
			name:     "single value",
			value:    "visitors",
			expected: []string{"visitors"},
		},
		{
			name:     "multiple values keep order",
			value:    "visitors,pageviews,bounce_rate",
			expected: []string{"visitors", "pageviews", "bounce_rate"},
		},
		{
			name:     "whitespace is trimmed",
			value:    " visitors , pageviews ",
			expected: []string{"visitors", "pageviews"},
		},
		{
			name:     "empty items are dropped",
			value:    "visitors,,pageviews,",
			expected: []string{"visitors", "pageviews"},
		},
		{
			name:     "only separators",
			value:    ",,",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SplitList(tt.value)
			if len(result) != len(tt.expected) {
				t.Fatalf("SplitList(%q) = %v, expected %v", tt.value, result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("SplitList(%q)[%d] = %q, expected %q", tt.value, i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func BenchmarkSplitList(b *testing.B) {
	value := "visitors,visits,pageviews,views_per_visit,bounce_rate,visit_duration"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		SplitList(value)
	}
}
