package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"vrsync/internal/catalog"
	"vrsync/internal/event"
	"vrsync/internal/fileutil"
	"vrsync/internal/services"
)

// Bundle is one persisted catalog snapshot. EventInfo is nil for the
// aggregate list; per-session and per-user bundles carry the session it
// was derived from.
type Bundle struct {
	EventInfo *event.Session  `json:"eventInfo,omitempty"`
	Items     catalog.Catalog `json:"items"`
}

// Save writes the bundle to path, creating parent directories as needed.
// The file is written whole with indented JSON so it stays inspectable.
func Save(path string, bundle Bundle) error {
	if bundle.Items == nil {
		bundle.Items = catalog.Catalog{}
	}
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrIO, "store", "save bundle", "encode bundle", err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return services.Wrap(services.ErrIO, "store", "save bundle", "write bundle file", err)
	}
	return nil
}

// Load reads a bundle back from disk. A missing file maps to the
// not-found marker so callers can distinguish absence from corruption.
func Load(path string) (Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Bundle{}, services.Wrap(services.ErrNotFound, "store", "load bundle", "bundle file missing", err)
		}
		return Bundle{}, services.Wrap(services.ErrIO, "store", "load bundle", "read bundle file", err)
	}
	var bundle Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return Bundle{}, services.Wrap(services.ErrParse, "store", "load bundle", "decode bundle file", err)
	}
	if bundle.Items == nil {
		bundle.Items = catalog.Catalog{}
	}
	return bundle, nil
}

// FindURLByID returns the resolved URL for the record with the given id,
// or empty when the bundle has no such record.
func (b Bundle) FindURLByID(id string) string {
	if id == "" {
		return ""
	}
	for _, rec := range b.Items {
		if rec.ID == id {
			return rec.ResolvedURL
		}
	}
	return ""
}

// EnumerateBundles lists the JSON bundle files directly under dir,
// skipping any base name in exclude. Results are absolute paths in
// directory order; a missing directory yields an empty list.
func EnumerateBundles(dir string, exclude ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, services.Wrap(services.ErrIO, "store", "enumerate bundles", "read bundle directory", err)
	}

	excluded := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		excluded[name] = struct{}{}
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".json") {
			continue
		}
		if _, skip := excluded[name]; skip {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}
