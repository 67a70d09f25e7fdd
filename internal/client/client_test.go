package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vrsync/internal/services"
)

func TestFetchCatalogParsesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"_id":"a","path":"vr360/a.mp4","type":"video/mp4"}]}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, "", "", time.Second, WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cat, err := c.FetchCatalog(context.Background())
	if err != nil {
		t.Fatalf("FetchCatalog: %v", err)
	}
	if len(cat) != 1 || cat[0].ID != "a" {
		t.Errorf("catalog = %+v", cat)
	}
}

func TestFetchCatalogGarbageYieldsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer srv.Close()

	c, _ := New(srv.URL, "", "", time.Second)
	cat, err := c.FetchCatalog(context.Background())
	if err != nil {
		t.Fatalf("FetchCatalog: %v", err)
	}
	if len(cat) != 0 {
		t.Errorf("got %d records, want 0", len(cat))
	}
}

func TestFetchCatalogStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, _ := New(srv.URL, "", "", time.Second)
	_, err := c.FetchCatalog(context.Background())
	if err == nil {
		t.Fatal("expected error for 502")
	}
	if !errors.Is(err, services.ErrFetch) {
		t.Errorf("error %v not marked as fetch failure", err)
	}
}

func TestFetchSessionDetailJoinsEventID(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"_id":"ev1","streaming":"vid1"}`))
	}))
	defer srv.Close()

	c, _ := New(srv.URL+"/media", srv.URL+"/events", srv.URL+"/events", time.Second)
	raw, err := c.FetchSessionDetail(context.Background(), "ev1")
	if err != nil {
		t.Fatalf("FetchSessionDetail: %v", err)
	}
	if gotPath != "/events/ev1" {
		t.Errorf("request path = %q", gotPath)
	}
	if len(raw) == 0 {
		t.Error("expected raw payload")
	}
}

func TestFetchSessionDetailRequiresID(t *testing.T) {
	c, _ := New("http://unused", "http://unused", "http://unused", time.Second)
	if _, err := c.FetchSessionDetail(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty event id")
	}
}

func TestFetchSessionsWithoutEndpoint(t *testing.T) {
	c, _ := New("http://unused", "", "", time.Second)
	if _, err := c.FetchSessions(context.Background()); err == nil {
		t.Fatal("expected error when event endpoint unset")
	}
}

func TestNewRequiresMediaEndpoint(t *testing.T) {
	if _, err := New("  ", "", "", time.Second); err == nil {
		t.Fatal("expected error for empty media endpoint")
	}
}
