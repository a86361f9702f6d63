// Package speaker defines the unified speaker profile, the deterministic
// identity hash, and the merge policy that combines a newly scraped candidate
// into an already-persisted profile.
//
// Merging favors information retention over recency: populated scalars are
// never overwritten, absent ones are filled, arrays grow by union, and
// provenance (source_info, created_at) always survives from the founding
// record. Sources vary wildly in completeness; a sparse late scrape must not
// clobber a rich early one.
package speaker
