package utils

import "strings"

// SplitList splits a comma separated query value, trimming whitespace and dropping empty items.
// Order is preserved.
func SplitList(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
