// Package report builds the pre-run data check and the post-run verification
// summaries over the speaker store, and renders the closing summary of an
// ingestion run.
//
// Both reports separate gathering from rendering: Build* walks the exports
// and store queries into a plain struct, Render writes the human-readable
// form. Rendering is table-based with optional ANSI color when the target is
// a terminal; callers that want the raw numbers use the structs directly.
package report
