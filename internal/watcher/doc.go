// Package watcher polls the backend for the session's streaming pointer
// and fires a trigger when it moves. Tick failures are logged and the
// next tick retries from scratch; a pointer that cannot be resolved to a
// local URL is recorded but not retried until it changes again.
package watcher
