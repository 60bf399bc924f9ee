package store

import "strings"

// joinNames flattens a symbol list for storage. Empty slices become
// the empty string rather than a single empty element.
func joinNames(names []string) string {
	return strings.Join(names, ",")
}

// splitNames is the inverse of joinNames.
func splitNames(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
