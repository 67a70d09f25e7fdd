package catalog

import (
	"regexp"
	"strings"
)

// ExtractArrayByKey locates the first `"key":` token (case-insensitive)
// followed by an array and returns the bracket-balanced array substring.
// Depth is tracked with an explicit counter so nested arrays survive;
// string literals are skipped so brackets inside values don't skew it.
func ExtractArrayByKey(text, key string) (string, bool) {
	if text == "" || key == "" {
		return "", false
	}

	lower := strings.ToLower(text)
	needle := `"` + strings.ToLower(key) + `"`
	idx := strings.Index(lower, needle)
	if idx < 0 {
		return "", false
	}

	pos := idx + len(needle)
	colon := strings.IndexByte(text[pos:], ':')
	if colon < 0 {
		return "", false
	}
	pos += colon + 1

	for pos < len(text) && isJSONSpace(text[pos]) {
		pos++
	}
	if pos >= len(text) || text[pos] != '[' {
		return "", false
	}

	start := pos
	depth := 0
	inString := false
	escaped := false
	for ; pos < len(text); pos++ {
		ch := text[pos]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return text[start : pos+1], true
			}
		}
	}
	return "", false
}

func isJSONSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

// Last-resort recovery: every flat brace-delimited object carrying a
// non-empty "path" value becomes a record, with each remaining field
// matched independently. Records recovered here may lack an id.
var (
	recordObjectPattern = regexp.MustCompile(`\{[^{}]*"path"\s*:\s*"[^"]+"[^{}]*\}`)

	idFieldPattern          = regexp.MustCompile(`"_id"\s*:\s*"([^"]+)"`)
	titleFieldPattern       = regexp.MustCompile(`"title"\s*:\s*"([^"]*)"`)
	descriptionFieldPattern = regexp.MustCompile(`"description"\s*:\s*"([^"]*)"`)
	typeFieldPattern        = regexp.MustCompile(`"type"\s*:\s*"([^"]*)"`)
	pathFieldPattern        = regexp.MustCompile(`"path"\s*:\s*"([^"]+)"`)
	thumbnailFieldPattern   = regexp.MustCompile(`"thumbnail"\s*:\s*"([^"]+)"`)
	createdAtFieldPattern   = regexp.MustCompile(`"createdAt"\s*:\s*"([^"]+)"`)
	updatedAtFieldPattern   = regexp.MustCompile(`"updatedAt"\s*:\s*"([^"]+)"`)
	sizeFieldPattern        = regexp.MustCompile(`"size"\s*:\s*(\d+)`)
)

func recoverRecords(text string) Catalog {
	var out Catalog
	for _, obj := range recordObjectPattern.FindAllString(text, -1) {
		rec := Record{
			ID:                    firstGroup(idFieldPattern, obj),
			Title:                 firstGroup(titleFieldPattern, obj),
			Description:           firstGroup(descriptionFieldPattern, obj),
			MimeType:              firstGroup(typeFieldPattern, obj),
			SizeBytes:             firstGroupInt(sizeFieldPattern, obj),
			RelativePath:          firstGroup(pathFieldPattern, obj),
			RelativeThumbnailPath: firstGroup(thumbnailFieldPattern, obj),
			CreatedAt:             firstGroup(createdAtFieldPattern, obj),
			UpdatedAt:             firstGroup(updatedAtFieldPattern, obj),
		}
		if rec.RelativePath == "" {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func firstGroup(pattern *regexp.Regexp, text string) string {
	m := pattern.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

func firstGroupInt(pattern *regexp.Regexp, text string) int64 {
	m := pattern.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0
	}
	var value int64
	for _, ch := range m[1] {
		if ch < '0' || ch > '9' {
			return 0
		}
		value = value*10 + int64(ch-'0')
	}
	return value
}
