package catalog

import "strings"

const PathDelimiter = ">"

// SplitPath turns "Tools > Hand Tools > Wrenches" into its trimmed,
// non-empty segments, parent first.
func SplitPath(raw string) []string {
	parts := strings.Split(raw, PathDelimiter)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Leaf returns the most specific segment, or "" for an empty path.
func Leaf(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}
