package event

import "testing"

func TestExtractStreamingID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare object", `{"_id":"ev1","streaming":"vid9"}`, "vid9"},
		{"data envelope object", `{"data":{"_id":"ev1","streaming":"vid2"}}`, "vid2"},
		{"data envelope array", `{"data":[{"_id":"ev1","streaming":"vid3"}]}`, "vid3"},
		{"pattern fallback", `broken { "streaming" : "vid4" trailing`, "vid4"},
		{"absent pointer", `{"_id":"ev1"}`, ""},
		{"empty pointer", `{"_id":"ev1","streaming":""}`, ""},
		{"empty payload", "", ""},
		{"null", "null", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractStreamingID([]byte(tt.raw)); got != tt.want {
				t.Errorf("ExtractStreamingID = %q, want %q", got, tt.want)
			}
		})
	}
}
