// Package download moves remote media onto local disk. Files are named
// deterministically from the record id or the URL digest so repeated
// syncs converge, transfers stage through a .part file so an interrupted
// run never leaves a truncated final file, and an in-flight set keeps
// concurrent requests for the same key from racing each other.
package download
