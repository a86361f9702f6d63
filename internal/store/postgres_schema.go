package store

// postgresSchema is the base PostgreSQL schema. Every statement is
// idempotent so it can be applied on each startup.
//
// seq records insertion order; reports and identity scans sort on it the
// way the SQLite backend sorts on rowid.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS speakers (
    seq BIGSERIAL,
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    city TEXT NOT NULL DEFAULT '',
    original_source TEXT NOT NULL DEFAULT '',
    topics JSONB NOT NULL DEFAULT '[]'::jsonb,
    topics_unmapped JSONB NOT NULL DEFAULT '[]'::jsonb,
    document JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_speakers_seq ON speakers (seq);
CREATE INDEX IF NOT EXISTS idx_speakers_source ON speakers (original_source);
CREATE INDEX IF NOT EXISTS idx_speakers_updated_at ON speakers (updated_at);
`
