// Package strings holds small helpers for user-entered text.
package strings

import (
	"strings"
)

// NormalizeList trims each entry, collapses inner runs of whitespace and drops
// blanks and case-insensitive repeats. The first spelling of a repeated entry
// wins. Returns nil when nothing is left.
func NormalizeList(values []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		cleaned := strings.Join(strings.Fields(v), " ")
		if cleaned == "" {
			continue
		}
		key := strings.ToLower(cleaned)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, cleaned)
	}
	return out
}
