// Package journal records completed and failed download attempts in a
// SQLite ledger. The ledger is advisory: sync correctness never depends
// on it, so journal failures are logged and swallowed by callers.
package journal
