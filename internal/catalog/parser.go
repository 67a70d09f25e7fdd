package catalog

import (
	"encoding/json"
	"strconv"
	"strings"
)

// envelopeKeys lists the wrapper-key names the backend has been observed
// to use, in priority order.
var envelopeKeys = []string{"items", "data", "result", "records", "rows", "list"}

// Parse turns arbitrary raw JSON bytes into a normalized catalog. It never
// fails; when every recovery strategy comes up empty it returns an empty
// catalog and the caller treats "zero records" as a valid outcome.
//
// The fallback chain, first success wins:
//  1. bare array payload
//  2. known envelope keys, each tried as a direct decode and then as a
//     bracket-balanced structural extraction
//  3. per-field pattern recovery over flat objects containing "path"
func Parse(raw []byte) Catalog {
	trimmed := strings.TrimLeft(string(raw), "\uFEFF \t\r\n")
	if trimmed == "" {
		return Catalog{}
	}

	if strings.HasPrefix(trimmed, "[") {
		if recs := parseRecordArray(trimmed); len(recs) > 0 {
			return recs
		}
	}

	if strings.HasPrefix(trimmed, "{") {
		var envelope map[string]json.RawMessage
		_ = json.Unmarshal([]byte(trimmed), &envelope)

		for _, key := range envelopeKeys {
			if rawArr, ok := envelope[key]; ok {
				if recs := parseRecordArray(string(rawArr)); len(recs) > 0 {
					return recs
				}
			}
			if arr, ok := ExtractArrayByKey(trimmed, key); ok {
				if recs := parseRecordArray(arr); len(recs) > 0 {
					return recs
				}
			}
		}
	}

	if recs := recoverRecords(trimmed); len(recs) > 0 {
		return recs
	}

	return Catalog{}
}

// wireRecord mirrors the backend's loose record shape. Resolved URL fields
// are deliberately absent: they are derived, never loaded from input.
type wireRecord struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	MimeType    string   `json:"type"`
	Size        flexSize `json:"size"`
	Path        string   `json:"path"`
	Thumbnail   string   `json:"thumbnail"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

func (w wireRecord) toRecord() Record {
	size := int64(w.Size)
	if size < 0 {
		size = 0
	}
	return Record{
		ID:                    w.ID,
		Title:                 w.Title,
		Description:           w.Description,
		MimeType:              w.MimeType,
		SizeBytes:             size,
		RelativePath:          w.Path,
		RelativeThumbnailPath: w.Thumbnail,
		CreatedAt:             w.CreatedAt,
		UpdatedAt:             w.UpdatedAt,
	}
}

func parseRecordArray(arrayJSON string) Catalog {
	var wires []wireRecord
	if err := json.Unmarshal([]byte(arrayJSON), &wires); err != nil {
		return nil
	}
	if len(wires) == 0 {
		return nil
	}
	out := make(Catalog, 0, len(wires))
	for _, w := range wires {
		out = append(out, w.toRecord())
	}
	return out
}

// flexSize decodes a size field that the backend sends as a number, a
// quoted number, or occasionally something else entirely. Unparsable
// values decode to zero instead of failing the record.
type flexSize int64

func (f *flexSize) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	text = strings.Trim(text, `"`)
	if text == "" || text == "null" {
		*f = 0
		return nil
	}
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexSize(value)
	return nil
}
