package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"lectern/internal/config"
	"lectern/internal/speaker"
)

type sqliteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite initializes or connects to the speaker database at the
// configured path and applies the schema.
func OpenSQLite(cfg *config.Config) (Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.Store.SQLitePath
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	s := &sqliteStore{db: db, path: dbPath}
	if err := s.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Get fetches a profile by id, decoded from its stored document.
// Returns nil without error when the id is unknown.
func (s *sqliteStore) Get(ctx context.Context, id string) (*speaker.Profile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT document FROM speakers WHERE id = ?`, id)
	var document string
	if err := row.Scan(&document); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get speaker: %w", err)
	}
	profile, err := decodeProfile(document)
	if err != nil {
		return nil, fmt.Errorf("speaker %s: %w", id, err)
	}
	return &profile, nil
}

// UpsertBatch applies a batch of writes in one transaction. Inserts for ids
// that already exist leave the stored row untouched; updates never rewrite
// original_source or created_at.
func (s *sqliteStore) UpsertBatch(ctx context.Context, writes []Write) error {
	if len(writes) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insert, err := tx.PrepareContext(
		ctx,
		`INSERT INTO speakers (
            id, name, city, original_source, topics, topics_unmapped,
            document, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO NOTHING`,
	)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer insert.Close()

	update, err := tx.PrepareContext(
		ctx,
		`UPDATE speakers
         SET name = ?, city = ?, topics = ?, topics_unmapped = ?,
             document = ?, updated_at = ?
         WHERE id = ?`,
	)
	if err != nil {
		return fmt.Errorf("prepare update: %w", err)
	}
	defer update.Close()

	for _, write := range writes {
		row, err := newSpeakerRow(write.Speaker)
		if err != nil {
			return err
		}
		switch write.Op {
		case OpInsert:
			_, err = insert.ExecContext(
				ctx,
				row.id,
				row.name,
				row.city,
				row.source,
				row.topics,
				row.unmapped,
				row.document,
				row.createdAt.Format(time.RFC3339Nano),
				row.updatedAt.Format(time.RFC3339Nano),
			)
		case OpUpdate:
			_, err = update.ExecContext(
				ctx,
				row.name,
				row.city,
				row.topics,
				row.unmapped,
				row.document,
				row.updatedAt.Format(time.RFC3339Nano),
				row.id,
			)
		default:
			err = fmt.Errorf("unknown write op %q", write.Op)
		}
		if err != nil {
			return fmt.Errorf("write speaker %s: %w", row.id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// ScanIdentities streams id, name, and city for every stored profile in
// insertion order, which keeps candidate ranking stable across runs.
func (s *sqliteStore) ScanIdentities(ctx context.Context, fn func(id, name, city string) error) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, city FROM speakers ORDER BY rowid`)
	if err != nil {
		return fmt.Errorf("scan identities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name, city string
		if err := rows.Scan(&id, &name, &city); err != nil {
			return fmt.Errorf("scan identity row: %w", err)
		}
		if err := fn(id, name, city); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *sqliteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM speakers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count speakers: %w", err)
	}
	return count, nil
}

func (s *sqliteStore) CountBySource(ctx context.Context) ([]SourceCount, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT original_source, COUNT(1) AS n FROM speakers GROUP BY original_source ORDER BY n DESC, original_source`,
	)
	if err != nil {
		return nil, fmt.Errorf("count by source: %w", err)
	}
	defer rows.Close()

	var counts []SourceCount
	for rows.Next() {
		var sc SourceCount
		if err := rows.Scan(&sc.Source, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan source count: %w", err)
		}
		counts = append(counts, sc)
	}
	return counts, rows.Err()
}

func (s *sqliteStore) FieldCoverage(ctx context.Context) (Coverage, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT
            COUNT(1),
            COUNT(1) FILTER (WHERE TRIM(COALESCE(json_extract(document, '$.biography'), '')) <> ''),
            COUNT(1) FILTER (WHERE TRIM(city) <> ''),
            COUNT(1) FILTER (WHERE json_array_length(topics) > 0),
            COUNT(1) FILTER (WHERE TRIM(COALESCE(json_extract(document, '$.media.profile_image'), '')) <> '')
        FROM speakers`,
	)
	var cov Coverage
	if err := row.Scan(&cov.Total, &cov.Biography, &cov.City, &cov.Topics, &cov.Image); err != nil {
		return Coverage{}, fmt.Errorf("field coverage: %w", err)
	}
	return cov, nil
}

func (s *sqliteStore) TopTopics(ctx context.Context, limit int) ([]TopicCount, error) {
	return s.topValues(ctx, "topics", limit)
}

func (s *sqliteStore) TopUnmapped(ctx context.Context, limit int) ([]TopicCount, error) {
	return s.topValues(ctx, "topics_unmapped", limit)
}

// topValues ranks the elements of one of the JSON array columns by
// frequency, ties broken alphabetically so output is deterministic.
func (s *sqliteStore) topValues(ctx context.Context, column string, limit int) ([]TopicCount, error) {
	if limit <= 0 {
		return nil, nil
	}
	query := `SELECT value, COUNT(1) AS n FROM speakers, json_each(speakers.` + column + `)
        GROUP BY value ORDER BY n DESC, value LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("top %s: %w", column, err)
	}
	defer rows.Close()

	var counts []TopicCount
	for rows.Next() {
		var tc TopicCount
		if err := rows.Scan(&tc.Topic, &tc.Count); err != nil {
			return nil, fmt.Errorf("scan topic count: %w", err)
		}
		counts = append(counts, tc)
	}
	return counts, rows.Err()
}

func (s *sqliteStore) Samples(ctx context.Context, limit int) ([]speaker.Profile, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `SELECT document FROM speakers ORDER BY rowid LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("sample speakers: %w", err)
	}
	defer rows.Close()

	var profiles []speaker.Profile
	for rows.Next() {
		var document string
		if err := rows.Scan(&document); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		profile, err := decodeProfile(document)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

// LastWriteTime returns the most recent updated_at across all profiles,
// falling back to created_at when the newest row predates update stamping.
// The zero time means the store is empty.
func (s *sqliteStore) LastWriteTime(ctx context.Context) (time.Time, error) {
	row := s.db.QueryRowContext(ctx, `SELECT updated_at, created_at FROM speakers ORDER BY updated_at DESC LIMIT 1`)
	var updatedRaw, createdRaw string
	if err := row.Scan(&updatedRaw, &createdRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("last write time: %w", err)
	}
	if t, err := parseTimeString(updatedRaw); err == nil {
		return t, nil
	}
	if t, err := parseTimeString(createdRaw); err == nil {
		return t, nil
	}
	return time.Time{}, nil
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
