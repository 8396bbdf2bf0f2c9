// Package utils holds small helpers shared by the HTTP layer, the services and
// the command line.
package utils

import "strings"

// ParseList splits a comma-separated list, trimming blanks and dropping empty
// and repeated entries. Returns nil when nothing remains.
func ParseList(s string) []string {
	var result []string
	seen := make(map[string]struct{})
	for _, v := range strings.Split(s, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
