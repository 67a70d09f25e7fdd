// Package logging configures slog output for the CLI and daemon.
//
// Two handler formats are supported: a compact console format for
// interactive use and JSON for log shipping. Helper constructors keep
// attribute keys consistent across components.
package logging
