package catalog

import "strings"

// Criteria selects the records a deployment cares about and carries the
// base URLs used to resolve survivors.
type Criteria struct {
	// PathMarker must appear in the record path, case-insensitive.
	PathMarker string
	// MimePrefix restricts the record mime type when non-empty.
	MimePrefix string

	BaseURL      string
	ThumbBaseURL string
}

// Matches reports whether a single record satisfies the criteria. Records
// without a path never match.
func (c Criteria) Matches(rec Record) bool {
	if rec.RelativePath == "" {
		return false
	}
	if c.PathMarker != "" {
		if !strings.Contains(strings.ToLower(rec.RelativePath), strings.ToLower(c.PathMarker)) {
			return false
		}
	}
	if c.MimePrefix != "" {
		if !strings.HasPrefix(strings.ToLower(rec.MimeType), strings.ToLower(c.MimePrefix)) {
			return false
		}
	}
	return true
}

// Filter returns the records matching the criteria with their URLs
// resolved. The input catalog is not modified and survivor order is
// preserved. URLs are resolved only for survivors.
func Filter(cat Catalog, crit Criteria) Catalog {
	out := make(Catalog, 0, len(cat))
	for _, rec := range cat {
		if !crit.Matches(rec) {
			continue
		}
		rec.ResolvedURL = ResolveURL(crit.BaseURL, rec.RelativePath)
		if rec.RelativeThumbnailPath != "" {
			rec.ResolvedThumbnailURL = ResolveURL(crit.ThumbBaseURL, rec.RelativeThumbnailPath)
		}
		out = append(out, rec)
	}
	return out
}

// FilterByIDs returns the subset of the catalog whose ids appear in the
// given list, resolved against the base URLs. Catalog order is preserved
// and unknown ids are ignored.
func FilterByIDs(cat Catalog, ids []string, baseURL, thumbBaseURL string) Catalog {
	if len(ids) == 0 {
		return Catalog{}
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			wanted[id] = struct{}{}
		}
	}

	out := make(Catalog, 0, len(wanted))
	for _, rec := range cat {
		if rec.ID == "" {
			continue
		}
		if _, ok := wanted[rec.ID]; !ok {
			continue
		}
		rec.ResolvedURL = ResolveURL(baseURL, rec.RelativePath)
		if rec.RelativeThumbnailPath != "" {
			rec.ResolvedThumbnailURL = ResolveURL(thumbBaseURL, rec.RelativeThumbnailPath)
		}
		out = append(out, rec)
	}
	return out
}
