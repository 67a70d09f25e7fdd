package appstate

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"sync"
	"time"

	"vrsync/internal/fileutil"
	"vrsync/internal/services"
)

// State is the persisted device state. UpdatedAtUnix tracks the last
// mutation in seconds since the epoch.
type State struct {
	CurrentEventID   string `json:"currentEventId"`
	StreamingVideoID string `json:"streamingVideoId"`
	UpdatedAtUnix    int64  `json:"updatedAtUnix"`
}

// Store owns the state file. All reads and writes go through its mutex;
// mutations persist before returning.
type Store struct {
	mu    sync.Mutex
	path  string
	state State
	now   func() time.Time
}

// Open loads existing state from path or starts empty when the file is
// missing. A corrupt file is an error; callers decide whether to reset.
func Open(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, services.Wrap(services.ErrIO, "appstate", "open state", "read state file", err)
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		return nil, services.Wrap(services.ErrParse, "appstate", "open state", "decode state file", err)
	}
	return s, nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// EventID returns the current session id.
func (s *Store) EventID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentEventID
}

// StreamingVideoID returns the current streaming pointer.
func (s *Store) StreamingVideoID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.StreamingVideoID
}

// SetEventID records a new current session and persists immediately.
func (s *Store) SetEventID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentEventID = id
	return s.persistLocked()
}

// SetStreamingVideoID records a new streaming pointer and persists
// immediately.
func (s *Store) SetStreamingVideoID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.StreamingVideoID = id
	return s.persistLocked()
}

// Reset clears both pointers and persists the empty state.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentEventID = ""
	s.state.StreamingVideoID = ""
	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	s.state.UpdatedAtUnix = s.now().Unix()
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrIO, "appstate", "persist state", "encode state", err)
	}
	if err := fileutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return services.Wrap(services.ErrIO, "appstate", "persist state", "write state file", err)
	}
	return nil
}
