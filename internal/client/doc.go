// Package client talks to the catalog backend over HTTP. It fetches raw
// payloads and hands them to the tolerant parsers; transport failures are
// wrapped with the fetch marker so callers can classify them.
package client
