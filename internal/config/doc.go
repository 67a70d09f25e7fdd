// Package config loads, normalizes, and validates vrsync configuration.
//
// Configuration lives in a TOML file (default ~/.config/vrsync/config.toml)
// and is split into sections mirroring the subsystems: paths, api, fetch,
// download, watcher, journal, and logging. Load applies defaults first, so a
// missing file yields a usable configuration for local experimentation.
package config
