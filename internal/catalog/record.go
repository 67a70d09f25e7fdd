package catalog

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Record is one media item in a catalog snapshot.
//
// ID may be empty for records recovered by the pattern fallback; such
// records are present but unaddressable by id. ResolvedURL and
// ResolvedThumbnailURL are derived from the base URLs at filter time and
// are never taken from backend input.
type Record struct {
	ID                    string `json:"_id,omitempty"`
	Title                 string `json:"title,omitempty"`
	Description           string `json:"description,omitempty"`
	MimeType              string `json:"type,omitempty"`
	SizeBytes             int64  `json:"size,omitempty"`
	RelativePath          string `json:"path,omitempty"`
	RelativeThumbnailPath string `json:"thumbnail,omitempty"`
	ResolvedURL           string `json:"url,omitempty"`
	ResolvedThumbnailURL  string `json:"thumbUrl,omitempty"`
	CreatedAt             string `json:"createdAt,omitempty"`
	UpdatedAt             string `json:"updatedAt,omitempty"`
}

// Catalog is an ordered sequence of records. Order follows the source
// payload and carries no meaning beyond determinism.
type Catalog []Record

var displayCaser = cases.Title(language.Und)

// DisplayTitle returns the record title, deriving one from the path stem
// when the backend supplied none.
func (r Record) DisplayTitle() string {
	if title := strings.TrimSpace(r.Title); title != "" {
		return title
	}
	normalized := strings.ReplaceAll(r.RelativePath, "\\", "/")
	base := path.Base(normalized)
	base = strings.TrimSuffix(base, path.Ext(base))

	cleaned := strings.Builder{}
	prevSpace := false
	for _, ch := range base {
		switch {
		case unicode.IsLetter(ch) || unicode.IsNumber(ch):
			cleaned.WriteRune(ch)
			prevSpace = false
		case unicode.IsSpace(ch) || ch == '-' || ch == '_' || ch == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Untitled"
	}
	return displayCaser.String(title)
}
