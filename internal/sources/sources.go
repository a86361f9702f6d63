package sources

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lectern/internal/speaker"
	"lectern/internal/topics"
)

// NormalizeFunc converts one raw export document into a unified profile.
// Implementations return an error when the document cannot yield a usable
// identity; callers decide whether to skip or abort.
type NormalizeFunc func(catalog *topics.Catalog, raw json.RawMessage) (speaker.Profile, error)

// Source describes one scraper export and how to normalize it.
type Source struct {
	// Key names the source in configuration, logs, and export filenames.
	Key string
	// IDPrefix namespaces identity hashes so local ids from different
	// scrapers can never collide.
	IDPrefix string
	// Provenance is the value recorded in source_info.original_source.
	Provenance string
	// Description is a short human label used by reports.
	Description string
	// Normalize maps the scraper's document shape onto speaker.Profile.
	Normalize NormalizeFunc
}

// All returns the supported sources in their fixed processing order.
// The order is part of the dedup contract: same-run duplicates resolve
// toward whichever source is processed first, so it must not change
// between runs.
func All() []Source {
	return []Source{
		{
			Key:         "a_speakers",
			IDPrefix:    "a_speakers",
			Provenance:  "a_speakers",
			Description: "A-Speakers.com data",
			Normalize:   normalizeASpeakers,
		},
		{
			Key:         "allamericanspeakers",
			IDPrefix:    "allamerican",
			Provenance:  "allamericanspeakers",
			Description: "AllAmericanSpeakers.com data",
			Normalize:   normalizeAllAmerican,
		},
		{
			Key:         "bigspeak_scraper",
			IDPrefix:    "bigspeak",
			Provenance:  "bigspeak",
			Description: "BigSpeak.com data",
			Normalize:   normalizeBigSpeak,
		},
		{
			Key:         "eventraptor",
			IDPrefix:    "eventraptor",
			Provenance:  "eventraptor",
			Description: "EventRaptor.com data",
			Normalize:   normalizeEventRaptor,
		},
		{
			Key:         "freespeakerbureau_scraper",
			IDPrefix:    "freespeaker",
			Provenance:  "freespeakerbureau",
			Description: "FreeSpeakerBureau.com data",
			Normalize:   normalizeFreeSpeakerBureau,
		},
		{
			Key:         "leading_authorities",
			IDPrefix:    "leadingauth",
			Provenance:  "leadingauthorities",
			Description: "LeadingAuthorities.com data",
			Normalize:   normalizeLeadingAuthorities,
		},
		{
			Key:         "sessionize_scraper",
			IDPrefix:    "sessionize",
			Provenance:  "sessionize",
			Description: "Sessionize.com data",
			Normalize:   normalizeSessionize,
		},
		{
			Key:         "speakerhub_scraper",
			IDPrefix:    "speakerhub",
			Provenance:  "speakerhub",
			Description: "SpeakerHub.com data",
			Normalize:   normalizeSpeakerHub,
		},
		{
			Key:         "thespeakerhandbook_scraper",
			IDPrefix:    "tsh",
			Provenance:  "thespeakerhandbook",
			Description: "TheSpeakerHandbook.com data",
			Normalize:   normalizeSpeakerHandbook,
		},
	}
}

// ByKey returns the source registered under key.
func ByKey(key string) (Source, bool) {
	for _, src := range All() {
		if src.Key == key {
			return src, true
		}
	}
	return Source{}, false
}

// Keys returns the registered source keys in processing order.
func Keys() []string {
	all := All()
	keys := make([]string, 0, len(all))
	for _, src := range all {
		keys = append(keys, src.Key)
	}
	return keys
}

// ExportPath returns the JSONL export file for src under dir.
func ExportPath(dir string, src Source) string {
	return filepath.Join(dir, src.Key+".jsonl")
}

// maxDocumentSize bounds a single export line. Biographies and review
// lists run long, but anything past this is a corrupt export.
const maxDocumentSize = 16 << 20

// ReadExport streams the documents in a JSONL export file to fn in file
// order. Blank lines are skipped. A missing file is not an error: the
// source simply has no documents, matching runs where a scraper has not
// produced an export yet.
func ReadExport(path string, fn func(line int, raw json.RawMessage) error) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open export: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxDocumentSize)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		doc := make(json.RawMessage, len(raw))
		copy(doc, raw)
		if err := fn(line, doc); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read export line %d: %w", line+1, err)
	}
	return nil
}

// firstNonEmpty returns the first value that is not the empty string.
func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

// joinNonEmpty joins the non-empty values with sep.
func joinNonEmpty(sep string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, sep)
}
