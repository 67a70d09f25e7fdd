// Package services defines the shared error taxonomy and context helpers
// used across the sync components.
//
// Every failure surfaced by the catalog, client, store, and download
// packages is tagged with one of the sentinel markers so callers can
// classify failures without string matching. Context helpers carry correlation
// identifiers from the CLI and watcher into client requests.
package services
