// Package store persists catalog bundles as JSON files. A bundle pairs
// an optional session header with the records it covers; writes replace
// the whole file so readers never observe a partial snapshot mid-decode.
package store
