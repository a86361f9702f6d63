package config

const (
	defaultDataDir           = "~/.local/share/lectern"
	defaultSourcesDir        = "~/.local/share/lectern/exports"
	defaultLogDir            = "~/.local/share/lectern/logs"
	defaultStoreBackend      = "sqlite"
	defaultSQLiteFile        = "speakers.db"
	defaultBatchSize         = 1000
	defaultMatchThreshold    = 90.0
	defaultLocationThreshold = 85.0
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultLogRetentionDays  = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			SourcesDir: defaultSourcesDir,
			LogDir:     defaultLogDir,
		},
		Store: Store{
			Backend: defaultStoreBackend,
		},
		Ingest: Ingest{
			BatchSize: defaultBatchSize,
		},
		Matching: Matching{
			MatchThreshold:    defaultMatchThreshold,
			LocationThreshold: defaultLocationThreshold,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
