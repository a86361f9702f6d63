package store_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"

	"lectern/internal/store"
)

// postgresTestDSN returns the DSN for the integration database. Tests are
// skipped when LECTERN_TEST_POSTGRES_DSN is not set.
func postgresTestDSN(t *testing.T) string {
	t.Helper()

	dsn := os.Getenv("LECTERN_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("LECTERN_TEST_POSTGRES_DSN not set; skipping PostgreSQL integration tests")
	}
	return dsn
}

func truncateSpeakers(t *testing.T, dsn string) {
	t.Helper()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec("TRUNCATE speakers"); err != nil {
		t.Fatalf("truncate speakers: %v", err)
	}
}

func TestPostgresRoundTrip(t *testing.T) {
	dsn := postgresTestDSN(t)

	st, err := store.OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("OpenPostgres failed: %v", err)
	}
	defer st.Close()
	truncateSpeakers(t, dsn)

	ctx := context.Background()
	profile := testProfile("pg-1", "Jane Smith", "London", "a_speakers", "Leadership")
	profile.Biography = "Keynote speaker"
	// timestamptz stores microseconds; align expectations with the column.
	profile.CreatedAt = profile.CreatedAt.Truncate(time.Microsecond)
	profile.UpdatedAt = profile.UpdatedAt.Truncate(time.Microsecond)
	mustUpsert(t, st, store.Write{Op: store.OpInsert, Speaker: profile})

	fetched, err := st.Get(ctx, "pg-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched == nil || fetched.Name != "Jane Smith" {
		t.Fatalf("unexpected fetched profile: %#v", fetched)
	}

	merged := *fetched
	merged.Topics = append(merged.Topics, "Innovation")
	merged.UpdatedAt = merged.UpdatedAt.Add(time.Hour)
	mustUpsert(t, st, store.Write{Op: store.OpUpdate, Speaker: merged})

	count, err := st.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 profile, got %d", count)
	}

	cov, err := st.FieldCoverage(ctx)
	if err != nil {
		t.Fatalf("FieldCoverage failed: %v", err)
	}
	if cov.Total != 1 || cov.Biography != 1 || cov.City != 1 || cov.Topics != 1 || cov.Image != 0 {
		t.Fatalf("unexpected coverage: %+v", cov)
	}

	topics, err := st.TopTopics(ctx, 5)
	if err != nil {
		t.Fatalf("TopTopics failed: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("expected 2 ranked topics, got %+v", topics)
	}

	var ids []string
	err = st.ScanIdentities(ctx, func(id, name, city string) error {
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		t.Fatalf("ScanIdentities failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != "pg-1" {
		t.Fatalf("unexpected identities: %v", ids)
	}

	when, err := st.LastWriteTime(ctx)
	if err != nil {
		t.Fatalf("LastWriteTime failed: %v", err)
	}
	if !when.Equal(merged.UpdatedAt) {
		t.Fatalf("expected last write %v, got %v", merged.UpdatedAt, when)
	}
}
