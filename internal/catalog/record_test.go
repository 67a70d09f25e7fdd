package catalog

import "testing"

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{"explicit title wins", Record{Title: "Coral Reef", RelativePath: "x/y.mp4"}, "Coral Reef"},
		{"derived from path stem", Record{RelativePath: "vr360/deep_sea-dive.mp4"}, "Deep Sea Dive"},
		{"backslash path", Record{RelativePath: `vr360\arctic.mp4`}, "Arctic"},
		{"empty everything", Record{}, "Untitled"},
		{"whitespace title falls through", Record{Title: "   ", RelativePath: "vr360/kelp.mp4"}, "Kelp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.DisplayTitle(); got != tt.want {
				t.Errorf("DisplayTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}
