package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lectern/internal/config"
	"lectern/internal/dedupe"
	"lectern/internal/logging"
	"lectern/internal/store"
	"lectern/internal/topics"
)

// Runner executes deduplicating ingestion runs against a speaker store.
// It is single-use state for one process: the match index accumulates every
// decision, so concurrent Runs on one Runner are not supported.
type Runner struct {
	cfg     *config.Config
	store   store.Store
	catalog *topics.Catalog
	logger  *slog.Logger
	matcher *dedupe.Matcher
	index   *dedupe.Index
	sampler *logging.ProgressSampler

	batchSize int

	pending      []store.Write
	pendingByID  map[string]int
	writtenTotal int

	indexReady bool
}

// New constructs a runner wired to the given store and topic catalog.
func New(cfg *config.Config, st store.Store, catalog *topics.Catalog, logger *slog.Logger) *Runner {
	batchSize := cfg.Ingest.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &Runner{
		cfg:     cfg,
		store:   st,
		catalog: catalog,
		logger:  logging.NewComponentLogger(logger, "ingest"),
		matcher: dedupe.NewMatcher(dedupe.Policy{
			MatchThreshold:    cfg.Matching.MatchThreshold,
			LocationThreshold: cfg.Matching.LocationThreshold,
		}),
		index:       dedupe.NewIndex(),
		sampler:     logging.NewProgressSampler(0),
		batchSize:   batchSize,
		pendingByID: make(map[string]int),
	}
}

// RebuildIndex loads every persisted identity into the in-memory match index.
// Run triggers this automatically; calling it first only matters to callers
// that want the rebuild reported as its own step. Subsequent calls are no-ops
// because the live index already reflects later insertions.
func (r *Runner) RebuildIndex(ctx context.Context) error {
	if r.indexReady {
		return nil
	}
	start := time.Now()
	count := 0
	err := r.store.ScanIdentities(ctx, func(id, name, city string) error {
		r.index.Register(dedupe.Fingerprint(name), id, name, city)
		count++
		return nil
	})
	if err != nil {
		return fmt.Errorf("rebuild match index: %w", err)
	}
	r.indexReady = true
	r.logger.Info("match index ready",
		logging.Int("identities", count),
		logging.Int("buckets", r.index.Buckets()),
		logging.Duration("elapsed", time.Since(start).Round(time.Millisecond)),
	)
	return nil
}
