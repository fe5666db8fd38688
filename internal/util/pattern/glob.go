package pattern

import "strings"

// MatchesGlob matches s against a pattern with a leading and/or trailing *
// wildcard, case-insensitively. Used to filter handler names.
func MatchesGlob(s, pattern string) bool {
	pattern = strings.ToLower(pattern)
	s = strings.ToLower(s)

	switch {
	case pattern == "" || pattern == "*":
		return true
	case strings.Contains(pattern, "*"):
		switch {
		case strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*"):
			return strings.Contains(s, strings.Trim(pattern, "*"))
		case strings.HasPrefix(pattern, "*"):
			return strings.HasSuffix(s, strings.TrimPrefix(pattern, "*"))
		case strings.HasSuffix(pattern, "*"):
			return strings.HasPrefix(s, strings.TrimSuffix(pattern, "*"))
		default:
			// a * in the middle isn't supported, treat it literally
			return s == pattern
		}
	default:
		return s == pattern
	}
}
