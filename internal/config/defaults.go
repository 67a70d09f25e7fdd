package config

const (
	defaultStorageDir     = "~/.local/share/vrsync"
	defaultLogDir         = "~/.local/share/vrsync/logs"
	defaultRequestTimeout = 20
	defaultOutputFile     = "vr360_list.json"
	defaultPathMarker     = "vr360"
	defaultMimePrefix     = "video/"
	defaultDownloadSubDir = "vr360"
	defaultThumbDir       = "thumbs"
	defaultDownloadTime   = 60
	defaultMinValidBytes  = 1024
	defaultWatchInterval  = 5
	defaultDetailTimeout  = 15
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StorageDir: defaultStorageDir,
			LogDir:     defaultLogDir,
		},
		API: API{
			RequestTimeout: defaultRequestTimeout,
		},
		Fetch: Fetch{
			OutputFile: defaultOutputFile,
			PathMarker: defaultPathMarker,
			MimePrefix: defaultMimePrefix,
		},
		Download: Download{
			SubDir:        defaultDownloadSubDir,
			ThumbDir:      defaultThumbDir,
			Timeout:       defaultDownloadTime,
			MinValidBytes: defaultMinValidBytes,
		},
		Watcher: Watcher{
			Interval:      defaultWatchInterval,
			DetailTimeout: defaultDetailTimeout,
		},
		Journal: Journal{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
