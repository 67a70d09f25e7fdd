// Package daemon coordinates the long-running sync process.
//
// It wires configuration, the backend client, the download manager, the
// state store, and the streaming watcher into a single lifecycle with
// flock-based locking to prevent multiple instances. Individual pipeline
// steps live in their own packages; the daemon focuses on startup,
// shutdown, and the periodic full sync.
package daemon
