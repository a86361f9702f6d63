// Package dedupe decides whether an incoming speaker candidate refers to an
// identity that is already persisted.
//
// The pipeline is fingerprint-bucketed fuzzy matching: a lossy name
// fingerprint narrows the comparison set to a handful of index entries, a
// string-similarity scorer ranks the candidate against each entry, and a
// two-tier threshold rule (plain match, or a lower bar corroborated by a
// shared city) makes the final call. Collisions inside a fingerprint bucket
// are expected; the bucket groups likely duplicates, the scorer disambiguates.
//
// A secondary phonetic bucket keyed on per-token Soundex codes catches
// spelling variants such as Smith/Smyth whose exact fingerprints differ.
//
// The Index is owned by the ingestion driver and mutated in step with its
// insert decisions, so a duplicate appearing later in the same run is matched
// against identities created moments earlier. Nothing in this package is safe
// for concurrent use.
package dedupe
