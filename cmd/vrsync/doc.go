// Command vrsync is the CLI for the media sync service: it fetches and
// filters the backend catalog, resolves logins, downloads media, and
// inspects local state.
package main
