package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"lectern/internal/config"
	"lectern/internal/sources"
	"lectern/internal/store"
)

// sampleFieldLimit caps how many top-level keys of a sample document the
// check report shows per export.
const sampleFieldLimit = 5

// CheckSource describes one registered export as the data check found it.
type CheckSource struct {
	Key          string
	Description  string
	Path         string
	Found        bool
	Documents    int64
	SampleFields []string
}

// OtherExport is a .jsonl file in the sources directory that no registered
// source claims. These usually mean a misnamed scraper export.
type OtherExport struct {
	Name      string
	Documents int64
}

// CheckReport is the snapshot rendered by lectern check. It covers the
// scraper exports on disk and the state of the unified store.
type CheckReport struct {
	SourcesDir     string
	Sources        []CheckSource
	FoundSources   int
	TotalDocuments int64
	OtherExports   []OtherExport
	Backend        string
	StoreError     string
	StoreCount     int64
	LastUpdate     time.Time
}

// BuildCheck inspects the export files under the configured sources
// directory and queries the store for its current state. A store that
// cannot be reached is reported, not fatal, so the export half of the
// check still runs before the first database exists.
func BuildCheck(ctx context.Context, cfg *config.Config, st store.Store) (CheckReport, error) {
	rep := CheckReport{
		SourcesDir: cfg.Paths.SourcesDir,
		Backend:    cfg.Store.Backend,
	}

	claimed := make(map[string]struct{})
	for _, src := range sources.All() {
		claimed[src.Key+".jsonl"] = struct{}{}
		entry := CheckSource{
			Key:         src.Key,
			Description: src.Description,
			Path:        sources.ExportPath(cfg.Paths.SourcesDir, src),
		}
		if _, err := os.Stat(entry.Path); err == nil {
			entry.Found = true
			docs, fields, err := scanExport(ctx, entry.Path)
			if err != nil {
				return CheckReport{}, fmt.Errorf("scan export %s: %w", src.Key, err)
			}
			entry.Documents = docs
			entry.SampleFields = fields
			rep.FoundSources++
			rep.TotalDocuments += docs
		}
		rep.Sources = append(rep.Sources, entry)
	}

	others, err := findOtherExports(ctx, cfg.Paths.SourcesDir, claimed)
	if err != nil {
		return CheckReport{}, err
	}
	rep.OtherExports = others

	if err := st.Ping(ctx); err != nil {
		rep.StoreError = err.Error()
		return rep, nil
	}
	count, err := st.Count(ctx)
	if err != nil {
		return CheckReport{}, fmt.Errorf("count speakers: %w", err)
	}
	rep.StoreCount = count
	if count > 0 {
		last, err := st.LastWriteTime(ctx)
		if err != nil {
			return CheckReport{}, fmt.Errorf("load last write time: %w", err)
		}
		rep.LastUpdate = last
	}
	return rep, nil
}

// scanExport counts the documents in one export and captures the leading
// keys of the first document as a shape hint.
func scanExport(ctx context.Context, path string) (int64, []string, error) {
	var docs int64
	var fields []string
	err := sources.ReadExport(path, func(line int, raw json.RawMessage) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		docs++
		if docs == 1 {
			fields = sampleFields(raw, sampleFieldLimit)
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return docs, fields, nil
}

// sampleFields returns up to limit top-level keys of a JSON object in
// document order. Anything that is not an object yields no fields.
func sampleFields(raw json.RawMessage, limit int) []string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil
	}
	fields := make([]string, 0, limit)
	for dec.More() && len(fields) < limit {
		keyTok, err := dec.Token()
		if err != nil {
			break
		}
		key, ok := keyTok.(string)
		if !ok {
			break
		}
		fields = append(fields, key)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			break
		}
	}
	return fields
}

func findOtherExports(ctx context.Context, dir string, claimed map[string]struct{}) ([]OtherExport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read sources directory: %w", err)
	}
	var others []OtherExport
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".jsonl" {
			continue
		}
		if _, ok := claimed[entry.Name()]; ok {
			continue
		}
		docs, _, err := scanExport(ctx, filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("scan export %s: %w", entry.Name(), err)
		}
		others = append(others, OtherExport{Name: entry.Name(), Documents: docs})
	}
	return others, nil
}

// RenderCheck writes the human-readable form of a check report.
func RenderCheck(w io.Writer, rep CheckReport, colorize bool) {
	for _, line := range renderSectionHeader("Source Exports", colorize) {
		fmt.Fprintln(w, line)
	}
	for _, src := range rep.Sources {
		if !src.Found {
			fmt.Fprintln(w, renderStatusLine(src.Key, statusWarn, fmt.Sprintf("export missing (%s)", src.Description), colorize))
			continue
		}
		kind := statusOK
		if src.Documents == 0 {
			kind = statusWarn
		}
		message := fmt.Sprintf("%s documents (%s)", humanize.Comma(src.Documents), src.Description)
		fmt.Fprintln(w, renderStatusLine(src.Key, kind, message, colorize))
		if len(src.SampleFields) > 0 {
			fmt.Fprintln(w, renderDetailLine("fields: "+strings.Join(src.SampleFields, ", ")))
		}
	}
	fmt.Fprintln(w)

	for _, line := range renderSectionHeader("Summary", colorize) {
		fmt.Fprintln(w, line)
	}
	foundKind := statusOK
	if rep.FoundSources < len(rep.Sources) {
		foundKind = statusWarn
	}
	fmt.Fprintln(w, renderStatusLine("Expected exports", foundKind, fmt.Sprintf("%d/%d found", rep.FoundSources, len(rep.Sources)), colorize))
	fmt.Fprintln(w, renderStatusLine("Source documents", statusInfo, fmt.Sprintf("%s total", humanize.Comma(rep.TotalDocuments)), colorize))
	for _, other := range rep.OtherExports {
		fmt.Fprintln(w, renderStatusLine("Unclaimed export", statusWarn, fmt.Sprintf("%s (%s documents)", other.Name, humanize.Comma(other.Documents)), colorize))
	}
	fmt.Fprintln(w)

	for _, line := range renderSectionHeader("Unified Store", colorize) {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, renderStatusLine("Backend", statusInfo, rep.Backend, colorize))
	if rep.StoreError != "" {
		fmt.Fprintln(w, renderStatusLine("Connection", statusError, rep.StoreError, colorize))
		return
	}
	fmt.Fprintln(w, renderStatusLine("Connection", statusOK, "reachable", colorize))
	if rep.StoreCount == 0 {
		fmt.Fprintln(w, renderStatusLine("Speakers", statusWarn, "not populated yet (run 'lectern run')", colorize))
		return
	}
	fmt.Fprintln(w, renderStatusLine("Speakers", statusOK, fmt.Sprintf("%s unified profiles", humanize.Comma(rep.StoreCount)), colorize))
	fmt.Fprintln(w, renderStatusLine("Last update", statusInfo, formatLastUpdate(rep.LastUpdate), colorize))
}

// renderDetailLine aligns a follow-on detail under the message column of
// the status line above it.
func renderDetailLine(detail string) string {
	return fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "", detail)
}

func formatLastUpdate(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return fmt.Sprintf("%s (%s)", t.Local().Format("2006-01-02 15:04:05"), humanize.Time(t))
}
