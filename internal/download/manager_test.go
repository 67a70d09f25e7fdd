package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"vrsync/internal/testsupport"
)

var payload = strings.Repeat("x", 4096)

func newFileServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEnsureDownloadsAndFinalizes(t *testing.T) {
	srv := newFileServer(t, nil)
	dir := t.TempDir()
	m := NewManager(time.Second, 1024)

	path, err := m.Ensure(context.Background(), dir, "clip.mp4", srv.URL+"/clip.mp4")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if path != filepath.Join(dir, "clip.mp4") {
		t.Errorf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != payload {
		t.Error("downloaded content mismatch")
	}
	if _, err := os.Stat(path + partSuffix); !os.IsNotExist(err) {
		t.Error("staging file left behind")
	}
}

func TestEnsureIdempotent(t *testing.T) {
	var hits atomic.Int64
	srv := newFileServer(t, &hits)
	dir := t.TempDir()
	m := NewManager(time.Second, 1024)

	for i := 0; i < 3; i++ {
		if _, err := m.Ensure(context.Background(), dir, "clip.mp4", srv.URL); err != nil {
			t.Fatalf("Ensure #%d: %v", i, err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}
}

func TestEnsureSkipsExistingValidFile(t *testing.T) {
	var hits atomic.Int64
	srv := newFileServer(t, &hits)
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "clip.mp4"), 2048)

	// A fresh manager has no in-flight memory; the skip must come from
	// the size check against the file on disk.
	m := NewManager(time.Second, 1024)
	if _, err := m.Ensure(context.Background(), dir, "clip.mp4", srv.URL); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if hits.Load() != 0 {
		t.Errorf("server hit %d times, want 0", hits.Load())
	}
}

func TestEnsureRefetchesUndersizedFile(t *testing.T) {
	var hits atomic.Int64
	srv := newFileServer(t, &hits)
	dir := t.TempDir()
	// Simulate a truncated remnant below the validity threshold.
	if err := os.WriteFile(filepath.Join(dir, "clip.mp4"), []byte("tiny"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(time.Second, 1024)
	path, err := m.Ensure(context.Background(), dir, "clip.mp4", srv.URL)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}
	info, _ := os.Stat(path)
	if info.Size() != int64(len(payload)) {
		t.Errorf("size = %d, want %d", info.Size(), len(payload))
	}
}

func TestEnsureRejectsTooSmallResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("stub"))
	}))
	defer srv.Close()
	dir := t.TempDir()

	m := NewManager(time.Second, 1024)
	if _, err := m.Ensure(context.Background(), dir, "clip.mp4", srv.URL); err == nil {
		t.Fatal("expected error for undersized response")
	}
	if _, err := os.Stat(filepath.Join(dir, "clip.mp4")); !os.IsNotExist(err) {
		t.Error("undersized response reached the final path")
	}
	if _, err := os.Stat(filepath.Join(dir, "clip.mp4"+partSuffix)); !os.IsNotExist(err) {
		t.Error("staging file left behind after rejection")
	}
}

func TestEnsureCleansUpFailedTransfer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	dir := t.TempDir()

	m := NewManager(time.Second, 1024)
	if _, err := m.Ensure(context.Background(), dir, "clip.mp4", srv.URL); err == nil {
		t.Fatal("expected error for 500 response")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("directory not clean after failure: %v", entries)
	}
}

func TestEnsureCleansUpInterruptedTransfer(t *testing.T) {
	// The handler promises more bytes than it writes, then drops the
	// connection, so the copy fails mid-body with a partial staging file.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "4096")
		w.Write([]byte(payload[:1500]))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		panic(http.ErrAbortHandler)
	}))
	defer srv.Close()
	dir := t.TempDir()

	m := NewManager(time.Second, 1024)
	if _, err := m.Ensure(context.Background(), dir, "clip.mp4", srv.URL); err == nil {
		t.Fatal("expected error for interrupted body")
	}
	if _, err := os.Stat(filepath.Join(dir, "clip.mp4")); !os.IsNotExist(err) {
		t.Error("interrupted transfer reached the final path")
	}
	if _, err := os.Stat(filepath.Join(dir, "clip.mp4"+partSuffix)); !os.IsNotExist(err) {
		t.Error("staging file left behind after interruption")
	}
}

func TestEnsureRemovesStalePartFile(t *testing.T) {
	srv := newFileServer(t, nil)
	dir := t.TempDir()
	stale := filepath.Join(dir, "clip.mp4"+partSuffix)
	if err := os.WriteFile(stale, []byte("leftover from crash"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(time.Second, 1024)
	path, err := m.Ensure(context.Background(), dir, "clip.mp4", srv.URL)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != payload {
		t.Error("stale staging data leaked into final file")
	}
}

func TestEnsureConcurrentSameKeySharesTransfer(t *testing.T) {
	var hits atomic.Int64
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.Write([]byte(payload))
	}))
	defer srv.Close()
	dir := t.TempDir()
	m := NewManager(5*time.Second, 1024)

	const callers = 4
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = m.Ensure(context.Background(), dir, "clip.mp4", srv.URL)
		}(i)
	}

	// Give every caller time to reach the in-flight gate, then let the
	// single transfer proceed.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("caller %d: %v", i, err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}
}

func TestEnsureRejectsPathyKey(t *testing.T) {
	m := NewManager(time.Second, 1024)
	if _, err := m.Ensure(context.Background(), t.TempDir(), "../escape.mp4", "http://host/x"); err == nil {
		t.Fatal("expected error for key with path separators")
	}
}
