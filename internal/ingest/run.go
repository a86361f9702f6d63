package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"lectern/internal/dedupe"
	"lectern/internal/logging"
	"lectern/internal/sources"
	"lectern/internal/speaker"
	"lectern/internal/store"
)

// Run ingests the selected sources in their fixed processing order. With no
// selection every registered source runs. Unknown keys fail before any
// document is read. The returned summary covers whatever completed, also on
// error.
func (r *Runner) Run(ctx context.Context, only ...string) (Summary, error) {
	selected, err := selectSources(only)
	if err != nil {
		return Summary{}, err
	}
	r.logger.Info("run started",
		logging.Int("sources", len(selected)),
		logging.Float64("match_threshold", r.matcher.Policy().MatchThreshold),
		logging.Float64("location_threshold", r.matcher.Policy().LocationThreshold),
	)
	if err := r.RebuildIndex(ctx); err != nil {
		return Summary{}, err
	}

	summary := Summary{Started: time.Now().UTC()}
	for _, src := range selected {
		result, err := r.runSource(ctx, src)
		summary.Sources = append(summary.Sources, result)
		if err != nil {
			return summary, fmt.Errorf("source %s: %w", src.Key, err)
		}
	}
	summary.Finished = time.Now().UTC()
	return summary, nil
}

// selectSources resolves the requested keys against the registry, keeping the
// registry's processing order regardless of how the selection was spelled.
func selectSources(only []string) ([]sources.Source, error) {
	all := sources.All()
	if len(only) == 0 {
		return all, nil
	}
	want := make(map[string]struct{}, len(only))
	for _, key := range only {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, ok := sources.ByKey(key); !ok {
			return nil, fmt.Errorf("unknown source %q (known: %s)", key, strings.Join(sources.Keys(), ", "))
		}
		want[key] = struct{}{}
	}
	selected := make([]sources.Source, 0, len(want))
	for _, src := range all {
		if _, ok := want[src.Key]; ok {
			selected = append(selected, src)
		}
	}
	return selected, nil
}

func (r *Runner) runSource(ctx context.Context, src sources.Source) (SourceResult, error) {
	result := SourceResult{Source: src.Key}
	path := sources.ExportPath(r.cfg.Paths.SourcesDir, src)
	logger := logging.WithContext(logging.WithSource(ctx, src.Key), r.logger)

	r.sampler.Reset()
	logger.Info("source started", logging.String("path", path))

	err := sources.ReadExport(path, func(line int, raw json.RawMessage) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		result.Read++
		profile, err := src.Normalize(r.catalog, raw)
		if err != nil {
			result.Skipped++
			logging.WarnWithContext(logger, "record skipped", "record_invalid",
				logging.Int("line", line),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "inspect the export line and the scraper output"),
				logging.String(logging.FieldImpact, "one record dropped from this run"),
			)
			return nil
		}
		merged, err := r.ingest(ctx, profile)
		if err != nil {
			return err
		}
		result.Ingested++
		if merged {
			result.Updated++
		} else {
			result.New++
		}
		if r.sampler.ShouldLog(result.Read) {
			logger.Info("source progress",
				logging.Int("read", result.Read),
				logging.Int("new", result.New),
				logging.Int("updated", result.Updated),
				logging.Int("skipped", result.Skipped),
			)
		}
		return nil
	})
	if err != nil {
		return result, err
	}
	if err := r.flush(ctx); err != nil {
		return result, err
	}

	logger.Info("source complete",
		logging.Int("read", result.Read),
		logging.Int("ingested", result.Ingested),
		logging.Int("new", result.New),
		logging.Int("updated", result.Updated),
		logging.Int("skipped", result.Skipped),
	)
	return result, nil
}

// ingest matches one normalized profile against every identity seen so far
// and queues the resulting write. It reports whether the profile merged into
// an existing identity rather than founding a new one.
func (r *Runner) ingest(ctx context.Context, incoming speaker.Profile) (bool, error) {
	now := time.Now().UTC()
	id, matched := r.matcher.FindDuplicate(r.index, incoming.Name, incoming.Location.City)
	if matched {
		if err := r.mergeInto(ctx, id, incoming, now); err != nil {
			return false, err
		}
	} else {
		incoming.CreatedAt = now
		incoming.UpdatedAt = now
		r.enqueue(store.Write{Op: store.OpInsert, Speaker: incoming})
		r.index.Register(dedupe.Fingerprint(incoming.Name), incoming.ID, incoming.Name, incoming.Location.City)
	}
	if len(r.pending) >= r.batchSize {
		if err := r.flush(ctx); err != nil {
			return matched, err
		}
	}
	return matched, nil
}

// mergeInto folds incoming into the profile stored under id. A pending write
// for the same id is merged in place, keeping its op: the first write decides
// insert versus update, later same-batch duplicates only add fields.
func (r *Runner) mergeInto(ctx context.Context, id string, incoming speaker.Profile, now time.Time) error {
	if pos, ok := r.pendingByID[id]; ok {
		r.pending[pos].Speaker = speaker.Merge(r.pending[pos].Speaker, incoming, now)
		return nil
	}
	existing, err := r.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load speaker %s: %w", id, err)
	}
	if existing == nil {
		return fmt.Errorf("match index references speaker %s missing from store", id)
	}
	r.enqueue(store.Write{Op: store.OpUpdate, Speaker: speaker.Merge(*existing, incoming, now)})
	return nil
}

func (r *Runner) enqueue(w store.Write) {
	r.pendingByID[w.Speaker.ID] = len(r.pending)
	r.pending = append(r.pending, w)
}

// flush writes the pending batch to the store. A failed flush aborts the run.
func (r *Runner) flush(ctx context.Context) error {
	if len(r.pending) == 0 {
		return nil
	}
	batch := len(r.pending)
	if err := r.store.UpsertBatch(ctx, r.pending); err != nil {
		return fmt.Errorf("flush %d writes after %d written: %w", batch, r.writtenTotal, err)
	}
	r.writtenTotal += batch
	r.pending = r.pending[:0]
	clear(r.pendingByID)
	r.logger.Debug("batch flushed",
		logging.Int("writes", batch),
		logging.Int("written_total", r.writtenTotal),
	)
	return nil
}
