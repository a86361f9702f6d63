package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateIngest(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case "sqlite":
		if c.Store.SQLitePath == "" {
			return errors.New("store.sqlite_path must be set when store.backend is sqlite")
		}
	case "postgres":
		if c.Store.PostgresDSN == "" {
			return errors.New("store.postgres_dsn must be set when store.backend is postgres (or set LECTERN_POSTGRES_DSN)")
		}
	default:
		return fmt.Errorf("store.backend must be sqlite or postgres, got %q", c.Store.Backend)
	}
	return nil
}

func (c *Config) validateIngest() error {
	if c.Ingest.BatchSize <= 0 {
		return errors.New("ingest.batch_size must be positive")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.MatchThreshold <= 0 || c.Matching.MatchThreshold > 100 {
		return errors.New("matching.match_threshold must be between 0 and 100")
	}
	if c.Matching.LocationThreshold <= 0 || c.Matching.LocationThreshold > 100 {
		return errors.New("matching.location_threshold must be between 0 and 100")
	}
	if c.Matching.LocationThreshold > c.Matching.MatchThreshold {
		return errors.New("matching.location_threshold must not exceed matching.match_threshold")
	}
	return nil
}
