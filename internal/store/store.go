package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lectern/internal/config"
	"lectern/internal/speaker"
)

// Op selects how a batched write is applied.
type Op string

const (
	// OpInsert creates a new profile. Replaying an insert for an id that
	// already exists leaves the stored row untouched.
	OpInsert Op = "insert"
	// OpUpdate replaces a merged profile. created_at is never rewritten.
	OpUpdate Op = "update"
)

// Write pairs a profile with the action the ingest run decided for it.
type Write struct {
	Op      Op
	Speaker speaker.Profile
}

// SourceCount is one row of the per-source distribution.
type SourceCount struct {
	Source string
	Count  int64
}

// TopicCount is one row of a topic frequency ranking.
type TopicCount struct {
	Topic string
	Count int64
}

// Coverage counts profiles carrying the fields the verify report tracks.
type Coverage struct {
	Total     int64
	Biography int64
	City      int64
	Topics    int64
	Image     int64
}

// Store provides profile persistence regardless of SQLite or PostgreSQL backing.
type Store interface {
	Get(ctx context.Context, id string) (*speaker.Profile, error)
	UpsertBatch(ctx context.Context, writes []Write) error
	ScanIdentities(ctx context.Context, fn func(id, name, city string) error) error
	Count(ctx context.Context) (int64, error)
	CountBySource(ctx context.Context) ([]SourceCount, error)
	FieldCoverage(ctx context.Context) (Coverage, error)
	TopTopics(ctx context.Context, limit int) ([]TopicCount, error)
	TopUnmapped(ctx context.Context, limit int) ([]TopicCount, error)
	Samples(ctx context.Context, limit int) ([]speaker.Profile, error)
	LastWriteTime(ctx context.Context) (time.Time, error)
	Ping(ctx context.Context) error
	Close() error
}

// Open connects to the backend selected by the configuration.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Store.Backend {
	case "postgres":
		return OpenPostgres(cfg.Store.PostgresDSN)
	case "sqlite":
		return OpenSQLite(cfg)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// speakerRow is a profile flattened into the column values both backends
// write. Timestamps stay as time.Time; each backend formats them itself.
type speakerRow struct {
	id        string
	name      string
	city      string
	source    string
	topics    string
	unmapped  string
	document  string
	createdAt time.Time
	updatedAt time.Time
}

func newSpeakerRow(profile speaker.Profile) (speakerRow, error) {
	if profile.ID == "" {
		return speakerRow{}, errors.New("speaker id is empty")
	}
	document, err := json.Marshal(profile)
	if err != nil {
		return speakerRow{}, fmt.Errorf("marshal speaker %s: %w", profile.ID, err)
	}
	return speakerRow{
		id:        profile.ID,
		name:      profile.Name,
		city:      profile.Location.City,
		source:    profile.SourceInfo.OriginalSource,
		topics:    marshalStringArray(profile.Topics),
		unmapped:  marshalStringArray(profile.TopicsUnmapped),
		document:  string(document),
		createdAt: profile.CreatedAt.UTC(),
		updatedAt: profile.UpdatedAt.UTC(),
	}, nil
}

// marshalStringArray always yields a JSON array so the topic columns stay
// queryable with json_each even for profiles without topics.
func marshalStringArray(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	encoded, _ := json.Marshal(values)
	return string(encoded)
}

func decodeProfile(document string) (speaker.Profile, error) {
	var profile speaker.Profile
	if err := json.Unmarshal([]byte(document), &profile); err != nil {
		return speaker.Profile{}, fmt.Errorf("decode speaker document: %w", err)
	}
	return profile, nil
}
