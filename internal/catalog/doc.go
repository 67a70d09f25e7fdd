// Package catalog normalizes loosely-shaped backend JSON into media records
// and applies the domain filters that select relevant entries.
//
// The backend does not honor a stable response contract, so Parse degrades
// through decreasingly structured recovery strategies (bare array, known
// envelope keys, bracket-balanced extraction, per-field pattern recovery)
// and never returns an error: total unparsability yields an empty catalog.
package catalog
