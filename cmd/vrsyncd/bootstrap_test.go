package main

import (
	"testing"

	"vrsync/internal/logging"
	"vrsync/internal/testsupport"
)

func TestBootstrapWiresDaemon(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	d, cleanup, err := bootstrap(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer cleanup()

	if d == nil {
		t.Fatal("expected daemon")
	}
	if status := d.Status(); status.Running {
		t.Error("daemon reports running before Start")
	}
}

func TestBootstrapWiresWatcherWithJournal(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithBackend("http://backend:8080"),
		testsupport.WithJournal(),
	)

	d, cleanup, err := bootstrap(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer cleanup()

	if d == nil {
		t.Fatal("expected daemon")
	}
}
