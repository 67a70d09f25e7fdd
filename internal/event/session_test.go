package event

import "testing"

func TestParseSessionsBareArray(t *testing.T) {
	raw := []byte(`[{"_id":"ev1","title":"Launch","video_list":["a","b"],"streaming":"a","username":"crew","password":"pw"}]`)
	sessions := ParseSessions(raw)
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	s := sessions[0]
	if s.ID != "ev1" || len(s.VideoList) != 2 || s.Streaming != "a" {
		t.Errorf("unexpected session: %+v", s)
	}
}

func TestParseSessionsDataEnvelope(t *testing.T) {
	raw := []byte(`{"data":[{"_id":"ev2"}],"total":1}`)
	sessions := ParseSessions(raw)
	if len(sessions) != 1 || sessions[0].ID != "ev2" {
		t.Fatalf("got %+v", sessions)
	}
}

func TestParseSessionsEnvelopeWithTrailingGarbage(t *testing.T) {
	// Whole-document decode fails on the trailing junk, forcing the
	// bracket-balanced extraction path.
	raw := []byte(`{"data":[{"_id":"ev1","username":"crew","video_list":["a","b"]}]} trailing`)
	sessions := ParseSessions(raw)
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	if sessions[0].ID != "ev1" || len(sessions[0].VideoList) != 2 {
		t.Errorf("unexpected session: %+v", sessions[0])
	}
}

func TestParseSessionsGarbage(t *testing.T) {
	for _, raw := range []string{"", "garbage", `{"total":0}`} {
		sessions := ParseSessions([]byte(raw))
		if sessions == nil || len(sessions) != 0 {
			t.Errorf("%q: got %+v, want empty slice", raw, sessions)
		}
	}
}

func TestParseSessionsSkipsBOM(t *testing.T) {
	raw := []byte("\uFEFF" + `[{"_id":"ev1"}]`)
	sessions := ParseSessions(raw)
	if len(sessions) != 1 || sessions[0].ID != "ev1" {
		t.Fatalf("got %+v", sessions)
	}
}

func TestResolveLogin(t *testing.T) {
	sessions := []Session{
		{ID: "ev1", Username: "alpha", Password: "one"},
		{ID: "ev2", Username: " beta ", Password: "two"},
		{ID: "ev3", Username: "alpha", Password: "one"},
	}

	tests := []struct {
		name     string
		user     string
		pass     string
		wantID   string
		wantSeen bool
	}{
		{"exact match first wins", "alpha", "one", "ev1", true},
		{"input trimmed", "  alpha  ", " one ", "ev1", true},
		{"stored credentials trimmed", "beta", "two", "ev2", true},
		{"case sensitive", "Alpha", "one", "", false},
		{"wrong password", "alpha", "two", "", false},
		{"empty username", "   ", "one", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := ResolveLogin(sessions, tt.user, tt.pass)
			if ok != tt.wantSeen {
				t.Fatalf("ok = %v, want %v", ok, tt.wantSeen)
			}
			if s.ID != tt.wantID {
				t.Errorf("session = %q, want %q", s.ID, tt.wantID)
			}
		})
	}
}
