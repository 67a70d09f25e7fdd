package services

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrFetch, "client", "media list", "GET failed", cause)

	if !errors.Is(err, ErrFetch) {
		t.Fatalf("expected wrapped error to match ErrFetch, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped error to retain cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "client: media list: GET failed") {
		t.Fatalf("unexpected detail: %v", err)
	}
}

func TestWrapNilMarkerDefaultsToFetch(t *testing.T) {
	err := Wrap(nil, "client", "", "", nil)
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("nil marker should default to ErrFetch, got %v", err)
	}
}

func TestWrapEmptyDetail(t *testing.T) {
	err := Wrap(ErrIO, "", "", "", nil)
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %v", err)
	}
}
