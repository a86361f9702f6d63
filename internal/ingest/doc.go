// Package ingest drives a full deduplicating ingestion run over the scraper
// exports.
//
// The Runner walks the registered sources in their fixed processing order,
// normalizes each export document, matches it against every identity seen so
// far (persisted rows plus earlier records of the same run), and either merges
// it into the matched profile or inserts it as a new one. Writes accumulate
// into batches and flush to the store; a failed flush aborts the run.
//
// The match index lives in memory for the duration of a run and is rebuilt
// from the store at the start, so repeated runs over the same exports converge
// instead of multiplying profiles. Matching policy itself lives in the dedupe
// package; this package owns sequencing, batching, and bookkeeping.
package ingest
