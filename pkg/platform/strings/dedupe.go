// Package strings holds small list helpers shared by the registries.
package strings

import (
	"strings"
)

// Dedupe trims every element, drops empty ones and removes duplicates.
// Order is preserved.
//
//	Dedupe([]string{"  Pune ", "Nashik", "Pune", ""})
//	// []string{"Pune", "Nashik"}
func Dedupe(values []string) []string {
	return dedupe(values, func(s string) string { return s })
}

// DedupeFold is Dedupe with case-insensitive comparison. The first spelling wins.
//
//	DedupeFold([]string{"Cattle", "cattle", "Goat"})
//	// []string{"Cattle", "Goat"}
func DedupeFold(values []string) []string {
	return dedupe(values, strings.ToLower)
}

// SplitList splits a comma separated form value and dedupes the parts.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return Dedupe(strings.Split(s, ","))
}

// ContainsFold reports whether values holds target, ignoring case.
func ContainsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}

func dedupe(values []string, key func(string) string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		k := key(trimmed)
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}
