package event

import (
	"encoding/json"
	"strings"

	"vrsync/internal/catalog"
)

// Session is one backend event definition. VideoList names the catalog
// records the session exposes; Streaming points at the record currently
// featured, if any.
type Session struct {
	ID        string   `json:"_id"`
	Title     string   `json:"title,omitempty"`
	IntroID   string   `json:"intro,omitempty"`
	LogoID    string   `json:"logo,omitempty"`
	VideoList []string `json:"video_list,omitempty"`
	Streaming string   `json:"streaming,omitempty"`
	Username  string   `json:"username,omitempty"`
	Password  string   `json:"password,omitempty"`
	CreatedAt string   `json:"createdAt,omitempty"`
	UpdatedAt string   `json:"updatedAt,omitempty"`
}

// ParseSessions decodes a session list from loose backend JSON. Like the
// catalog parser it degrades instead of failing: a bare array, then a
// "data" envelope decode, then a bracket-balanced extraction of the
// "data" array, then nothing.
func ParseSessions(raw []byte) []Session {
	trimmed := strings.TrimLeft(string(raw), "\uFEFF \t\r\n")
	if trimmed == "" {
		return []Session{}
	}

	if strings.HasPrefix(trimmed, "[") {
		var sessions []Session
		if err := json.Unmarshal([]byte(trimmed), &sessions); err == nil {
			return sessions
		}
	}

	if strings.HasPrefix(trimmed, "{") {
		var envelope struct {
			Data []Session `json:"data"`
		}
		if err := json.Unmarshal([]byte(trimmed), &envelope); err == nil && len(envelope.Data) > 0 {
			return envelope.Data
		}
		if arr, ok := catalog.ExtractArrayByKey(trimmed, "data"); ok {
			var sessions []Session
			if err := json.Unmarshal([]byte(arr), &sessions); err == nil && len(sessions) > 0 {
				return sessions
			}
		}
	}

	return []Session{}
}

// ResolveLogin returns the first session whose credentials match the
// supplied pair. Inputs are trimmed of surrounding whitespace and
// compared case-sensitively. The second return is false when no session
// matches or the trimmed username is empty.
func ResolveLogin(sessions []Session, username, password string) (Session, bool) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" {
		return Session{}, false
	}
	for _, s := range sessions {
		if strings.TrimSpace(s.Username) == username && strings.TrimSpace(s.Password) == password {
			return s, true
		}
	}
	return Session{}, false
}
