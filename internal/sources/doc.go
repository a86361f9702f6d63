// Package sources normalizes raw scraper exports into unified speaker
// profiles.
//
// Each supported scraper has a registered Source describing its export
// file, its identity prefix, and a normalizer that maps the scraper's
// document shape onto speaker.Profile. Normalizers also clean display
// names, parse free-form locations, and canonicalize topic labels so
// downstream matching works on consistent input. The registry order is
// fixed and is part of the ingestion contract: when the same person
// appears in several exports, the earliest-processed source wins the
// initial insert and later sources merge into it.
package sources
