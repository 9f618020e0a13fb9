package tree

import "strings"

// Separator divides the segments of a path template.
const Separator = "/"

var sanitizer = strings.NewReplacer("{", "_param_", "}", "")

// Sanitize makes a path segment usable as a directory name and an accessor key:
// every "{" becomes "_param_" and every "}" is dropped, so "{id}" becomes "_param_id".
func Sanitize(segment string) string {
	return sanitizer.Replace(segment)
}

// Split strips one leading separator from path and splits the rest into segments.
// "/" and "" both yield a single empty segment.
func Split(path string) []string {
	return strings.Split(strings.TrimPrefix(path, Separator), Separator)
}

// SanitizeAll sanitizes every segment.
func SanitizeAll(segments []string) []string {
	out := make([]string, len(segments))
	for i, s := range segments {
		out[i] = Sanitize(s)
	}
	return out
}
