// Package event models backend sessions and the credential resolution
// that maps a login to its session-scoped media subset.
package event
