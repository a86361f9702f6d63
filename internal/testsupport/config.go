package testsupport

import (
	"path/filepath"
	"testing"

	"lectern/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.SourcesDir = filepath.Join(base, "exports")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Store.SQLitePath = filepath.Join(base, "data", "speakers.db")

	for _, opt := range opts {
		opt(&cfgVal)
	}

	return &cfgVal
}

// WithBatchSize sets the ingest batch size on the test config.
func WithBatchSize(size int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Ingest.BatchSize = size
	}
}

// WithThresholds overrides the match and location thresholds on the test config.
func WithThresholds(match, location float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Matching.MatchThreshold = match
		cfg.Matching.LocationThreshold = location
	}
}
