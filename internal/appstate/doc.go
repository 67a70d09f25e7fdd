// Package appstate maintains the small device state file that records
// which session and streaming video are current. Every mutation is
// written through to disk under a lock so concurrent tick and CLI
// updates serialize cleanly.
package appstate
