package watcher

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"vrsync/internal/appstate"
)

type scriptedDetailer struct {
	payloads []string
	calls    int
}

func (s *scriptedDetailer) FetchSessionDetail(ctx context.Context, eventID string) ([]byte, error) {
	idx := s.calls
	if idx >= len(s.payloads) {
		idx = len(s.payloads) - 1
	}
	s.calls++
	return []byte(s.payloads[idx]), nil
}

func newTestState(t *testing.T) *appstate.Store {
	t.Helper()
	s, err := appstate.Open(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("open state: %v", err)
	}
	return s
}

func TestPollTriggersOncePerPointerValue(t *testing.T) {
	state := newTestState(t)
	state.SetEventID("ev1")

	fetcher := &scriptedDetailer{payloads: []string{
		`{"_id":"ev1","streaming":""}`,
		`{"_id":"ev1","streaming":"v1"}`,
		`{"_id":"ev1","streaming":"v1"}`,
		`{"_id":"ev1","streaming":"v2"}`,
	}}

	var triggered []string
	w := New(fetcher, state,
		func(id string) string { return "http://local/" + id },
		func(ctx context.Context, videoID, url string) { triggered = append(triggered, videoID) },
		time.Second, time.Second, nil)

	for i := 0; i < 4; i++ {
		w.poll(context.Background())
	}

	if len(triggered) != 2 || triggered[0] != "v1" || triggered[1] != "v2" {
		t.Errorf("triggered = %v, want [v1 v2]", triggered)
	}
	if got := state.StreamingVideoID(); got != "v2" {
		t.Errorf("persisted pointer = %q, want v2", got)
	}
}

func TestPollEmptyEventIDResetsMarkers(t *testing.T) {
	state := newTestState(t)
	state.SetEventID("ev1")

	fetcher := &scriptedDetailer{payloads: []string{`{"_id":"ev1","streaming":"v1"}`}}
	var triggers int
	w := New(fetcher, state,
		func(id string) string { return "http://local/" + id },
		func(ctx context.Context, videoID, url string) { triggers++ },
		time.Second, time.Second, nil)

	w.poll(context.Background())
	if triggers != 1 {
		t.Fatalf("triggers = %d, want 1", triggers)
	}

	// Session cleared: markers reset, no fetch happens.
	state.SetEventID("")
	w.poll(context.Background())
	if fetcher.calls != 1 {
		t.Errorf("fetch calls = %d, want 1", fetcher.calls)
	}

	// Same session returns: the same pointer fires again.
	state.SetEventID("ev1")
	w.poll(context.Background())
	if triggers != 2 {
		t.Errorf("triggers = %d, want 2 after reset", triggers)
	}
}

func TestPollEventChangeResetsPointer(t *testing.T) {
	state := newTestState(t)
	state.SetEventID("ev1")

	fetcher := &scriptedDetailer{payloads: []string{
		`{"streaming":"v1"}`,
		`{"streaming":"v1"}`,
	}}
	var triggers int
	w := New(fetcher, state,
		func(id string) string { return "http://local/" + id },
		func(ctx context.Context, videoID, url string) { triggers++ },
		time.Second, time.Second, nil)

	w.poll(context.Background())
	state.SetEventID("ev2")
	w.poll(context.Background())

	if triggers != 2 {
		t.Errorf("triggers = %d, want 2 (pointer refires for new session)", triggers)
	}
}

func TestPollUnresolvablePointerNotRetried(t *testing.T) {
	state := newTestState(t)
	state.SetEventID("ev1")

	fetcher := &scriptedDetailer{payloads: []string{`{"streaming":"ghost"}`}}
	var triggers int
	w := New(fetcher, state,
		func(id string) string { return "" },
		func(ctx context.Context, videoID, url string) { triggers++ },
		time.Second, time.Second, nil)

	w.poll(context.Background())
	w.poll(context.Background())

	if triggers != 0 {
		t.Errorf("triggers = %d, want 0", triggers)
	}
	// The pointer is still persisted even though it never resolved.
	if got := state.StreamingVideoID(); got != "ghost" {
		t.Errorf("persisted pointer = %q, want ghost", got)
	}
}

func TestStartStopLifecycle(t *testing.T) {
	state := newTestState(t)
	fetcher := &scriptedDetailer{payloads: []string{`{}`}}
	w := New(fetcher, state, nil, nil, 10*time.Millisecond, time.Second, nil)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := w.Start(context.Background()); err == nil {
		t.Error("second Start should fail while running")
	}
	w.Stop()
	// Stop again is a no-op.
	w.Stop()

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("restart: %v", err)
	}
	w.Stop()
}
