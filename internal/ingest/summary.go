package ingest

import "time"

// SourceResult tallies one source's ingestion outcomes. Read counts every
// document in the export; Ingested is Read minus Skipped and splits into New
// and Updated.
type SourceResult struct {
	Source   string
	Read     int
	Ingested int
	New      int
	Updated  int
	Skipped  int
}

// Summary aggregates a full ingestion run.
type Summary struct {
	Started  time.Time
	Finished time.Time
	Sources  []SourceResult
}

// Totals sums the per-source tallies.
func (s Summary) Totals() SourceResult {
	var total SourceResult
	for _, src := range s.Sources {
		total.Read += src.Read
		total.Ingested += src.Ingested
		total.New += src.New
		total.Updated += src.Updated
		total.Skipped += src.Skipped
	}
	return total
}

// Duration reports the wall-clock span of the run.
func (s Summary) Duration() time.Duration {
	if s.Started.IsZero() || s.Finished.IsZero() {
		return 0
	}
	return s.Finished.Sub(s.Started)
}
