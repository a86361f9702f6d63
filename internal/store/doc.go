// Package store persists unified speaker profiles and answers the
// aggregate queries the report commands need.
//
// Two backends implement the same Store interface: SQLite for the default
// single-file deployment and PostgreSQL for shared installations. Both keep
// the full profile as a JSON document alongside the handful of columns the
// dedup index and the reports read, so the document stays the source of
// truth and the columns stay cheap to query.
package store
