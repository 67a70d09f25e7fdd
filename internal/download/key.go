package download

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"path"
	"strings"
)

const defaultExtension = ".mp4"

// KeyForURL derives a stable local file name from a URL: the MD5 hex of
// the full URL plus the extension found in its path, defaulting to .mp4
// when the path carries none.
func KeyForURL(rawURL string) string {
	sum := md5.Sum([]byte(rawURL))
	return hex.EncodeToString(sum[:]) + extensionFromURL(rawURL)
}

// KeyForID derives a local file name from a record id, keeping the
// extension of the URL the record resolves to.
func KeyForID(id, rawURL string) string {
	if id == "" {
		return KeyForURL(rawURL)
	}
	return id + extensionFromURL(rawURL)
}

// IntroKey names the per-session intro asset.
func IntroKey(eventID, rawURL string) string {
	return eventID + "_intro" + extensionFromURL(rawURL)
}

func extensionFromURL(rawURL string) string {
	candidate := rawURL
	if parsed, err := url.Parse(rawURL); err == nil && parsed.Path != "" {
		candidate = parsed.Path
	}
	ext := path.Ext(candidate)
	if ext == "" || len(ext) > 8 || strings.ContainsAny(ext, "/\\") {
		return defaultExtension
	}
	return strings.ToLower(ext)
}
