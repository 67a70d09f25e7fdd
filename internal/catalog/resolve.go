package catalog

import "strings"

// absoluteSchemes are passed through ResolveURL untouched apart from
// backslash normalization elsewhere in the record.
var absoluteSchemes = []string{"http://", "https://", "file://"}

// ResolveURL joins a base URL and a relative path into one usable URL.
// Already-absolute relatives pass through unchanged, backslashes become
// forward slashes, and exactly one slash separates the two halves.
func ResolveURL(base, relative string) string {
	relative = strings.ReplaceAll(relative, "\\", "/")

	lowerRel := strings.ToLower(relative)
	for _, scheme := range absoluteSchemes {
		if strings.HasPrefix(lowerRel, scheme) {
			return relative
		}
	}

	if base == "" {
		return relative
	}
	if relative == "" {
		return base
	}

	base = strings.TrimRight(base, "/") + "/"
	relative = strings.TrimLeft(relative, "/")
	return base + relative
}
