package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
	"testing"
	"time"

	"lectern/internal/ingest"
	"lectern/internal/speaker"
	"lectern/internal/store"
	"lectern/internal/testsupport"
)

func seedProfile(id, name, city, source string, topics ...string) speaker.Profile {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return speaker.Profile{
		ID:     id,
		Name:   name,
		Topics: topics,
		Location: speaker.Location{
			City: city,
		},
		SourceInfo: speaker.SourceInfo{
			OriginalSource: source,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func mustSeed(t *testing.T, st store.Store, profiles ...speaker.Profile) {
	t.Helper()
	writes := make([]store.Write, 0, len(profiles))
	for _, profile := range profiles {
		writes = append(writes, store.Write{Op: store.OpInsert, Speaker: profile})
	}
	if err := st.UpsertBatch(context.Background(), writes); err != nil {
		t.Fatalf("UpsertBatch failed: %v", err)
	}
}

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("a_speakers", statusOK, "1,234 documents", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "a_speakers:", "[OK] 1,234 documents")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Connection", statusWarn, "slow", true)
	if !strings.HasPrefix(got, ansiYellow) {
		t.Fatalf("expected yellow prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if ShouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestSampleFields(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "caps at limit in document order",
			raw:  `{"_id":"1","name":"A","title":"T","bio":"B","topics":[],"url":"u"}`,
			want: []string{"_id", "name", "title", "bio", "topics"},
		},
		{
			name: "skips nested values",
			raw:  `{"a":{"x":1},"b":[1,2],"c":"s"}`,
			want: []string{"a", "b", "c"},
		},
		{
			name: "array yields nothing",
			raw:  `[1,2,3]`,
			want: nil,
		},
		{
			name: "scalar yields nothing",
			raw:  `"just text"`,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sampleFields(json.RawMessage(tt.raw), sampleFieldLimit)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("sampleFields = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCoveragePercent(t *testing.T) {
	tests := []struct {
		count, total int64
		want         string
	}{
		{0, 0, "0.0%"},
		{1, 2, "50.0%"},
		{1, 3, "33.3%"},
		{5, 5, "100.0%"},
	}
	for _, tt := range tests {
		if got := coveragePercent(tt.count, tt.total); got != tt.want {
			t.Fatalf("coveragePercent(%d, %d) = %q, want %q", tt.count, tt.total, got, tt.want)
		}
	}
}

func TestBuildCheckCountsExportsAndStore(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.WriteExport(t, cfg, "a_speakers",
		`{"_id":"a1","name":"Jane Smith","title":"CEO","topics":["Leadership"],"url":"https://example.com/jane","extra":"x"}`,
		`{"_id":"a2","name":"John Doe"}`,
	)
	testsupport.WriteExport(t, cfg, "bigspeak_scraper",
		`{"speaker_id":"b1","name":"Ann Lee"}`,
	)
	testsupport.WriteExport(t, cfg, "legacy_dump", `{"name":"Old Export"}`)

	seeded := seedProfile("id-1", "Jane Smith", "Austin", "a_speakers", "Leadership")
	mustSeed(t, st, seeded)

	rep, err := BuildCheck(ctx, cfg, st)
	if err != nil {
		t.Fatalf("BuildCheck failed: %v", err)
	}

	if len(rep.Sources) != 9 {
		t.Fatalf("expected all 9 registered sources, got %d", len(rep.Sources))
	}
	if rep.FoundSources != 2 {
		t.Fatalf("expected 2 found exports, got %d", rep.FoundSources)
	}
	if rep.TotalDocuments != 3 {
		t.Fatalf("expected 3 total documents, got %d", rep.TotalDocuments)
	}

	first := rep.Sources[0]
	if first.Key != "a_speakers" || !first.Found || first.Documents != 2 {
		t.Fatalf("unexpected first source entry: %+v", first)
	}
	wantFields := []string{"_id", "name", "title", "topics", "url"}
	if !reflect.DeepEqual(first.SampleFields, wantFields) {
		t.Fatalf("sample fields = %v, want %v", first.SampleFields, wantFields)
	}

	missing := rep.Sources[1]
	if missing.Key != "allamericanspeakers" || missing.Found || missing.Documents != 0 {
		t.Fatalf("unexpected missing source entry: %+v", missing)
	}

	if len(rep.OtherExports) != 1 {
		t.Fatalf("expected 1 unclaimed export, got %+v", rep.OtherExports)
	}
	if rep.OtherExports[0].Name != "legacy_dump.jsonl" || rep.OtherExports[0].Documents != 1 {
		t.Fatalf("unexpected unclaimed export: %+v", rep.OtherExports[0])
	}

	if rep.Backend != "sqlite" {
		t.Fatalf("expected sqlite backend, got %q", rep.Backend)
	}
	if rep.StoreError != "" {
		t.Fatalf("unexpected store error: %q", rep.StoreError)
	}
	if rep.StoreCount != 1 {
		t.Fatalf("expected store count 1, got %d", rep.StoreCount)
	}
	if !rep.LastUpdate.Equal(seeded.UpdatedAt) {
		t.Fatalf("last update = %v, want %v", rep.LastUpdate, seeded.UpdatedAt)
	}
}

func TestBuildCheckWithoutSourcesDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	rep, err := BuildCheck(context.Background(), cfg, st)
	if err != nil {
		t.Fatalf("BuildCheck failed: %v", err)
	}
	if rep.FoundSources != 0 || rep.TotalDocuments != 0 {
		t.Fatalf("expected nothing found, got %d sources and %d documents", rep.FoundSources, rep.TotalDocuments)
	}
	for _, src := range rep.Sources {
		if src.Found {
			t.Fatalf("source %s reported found without an export", src.Key)
		}
	}
	if len(rep.OtherExports) != 0 {
		t.Fatalf("expected no unclaimed exports, got %+v", rep.OtherExports)
	}
}

func TestBuildCheckReportsStoreErrorWithoutFailing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.WriteExport(t, cfg, "a_speakers", `{"_id":"a1","name":"Jane Smith"}`)

	// The export half of the check must still run against a dead store.
	if err := st.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	rep, err := BuildCheck(context.Background(), cfg, st)
	if err != nil {
		t.Fatalf("BuildCheck failed: %v", err)
	}
	if rep.StoreError == "" {
		t.Fatal("expected store error to be recorded")
	}
	if rep.StoreCount != 0 {
		t.Fatalf("expected no store count, got %d", rep.StoreCount)
	}
	if rep.FoundSources != 1 || rep.TotalDocuments != 1 {
		t.Fatalf("expected export scan to survive, got %d sources and %d documents", rep.FoundSources, rep.TotalDocuments)
	}
}

func TestRenderCheckOutput(t *testing.T) {
	rep := CheckReport{
		Sources: []CheckSource{
			{Key: "a_speakers", Description: "A-Speakers.com data", Found: true, Documents: 1234, SampleFields: []string{"_id", "name"}},
			{Key: "eventraptor", Description: "EventRaptor.com data", Found: false},
		},
		FoundSources:   1,
		TotalDocuments: 1234,
		OtherExports:   []OtherExport{{Name: "legacy.jsonl", Documents: 7}},
		Backend:        "sqlite",
		StoreCount:     9876,
		LastUpdate:     time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	RenderCheck(&buf, rep, false)
	out := buf.String()

	for _, want := range []string{
		"== Source Exports ==",
		"[OK] 1,234 documents (A-Speakers.com data)",
		"fields: _id, name",
		"[WARN] export missing (EventRaptor.com data)",
		"[WARN] 1/2 found",
		"1,234 total",
		"legacy.jsonl (7 documents)",
		"== Unified Store ==",
		"[INFO] sqlite",
		"[OK] reachable",
		"9,876 unified profiles",
		"Last update:",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no ANSI escapes without colorize:\n%s", out)
	}
}

func TestRenderCheckStoreStates(t *testing.T) {
	var buf bytes.Buffer
	RenderCheck(&buf, CheckReport{Backend: "postgres", StoreError: "connection refused"}, false)
	out := buf.String()
	if !strings.Contains(out, "[ERROR] connection refused") {
		t.Fatalf("expected store error line:\n%s", out)
	}
	if strings.Contains(out, "Speakers:") {
		t.Fatalf("expected no speaker count after store error:\n%s", out)
	}

	buf.Reset()
	RenderCheck(&buf, CheckReport{Backend: "sqlite"}, false)
	out = buf.String()
	if !strings.Contains(out, "not populated yet") {
		t.Fatalf("expected empty-store warning:\n%s", out)
	}
}

func TestBuildVerifyQueriesStore(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	rich := seedProfile("id-1", "Jane Smith", "Austin", "a_speakers", "Leadership", "Innovation")
	rich.Biography = "Keynote veteran"
	rich.TopicsUnmapped = []string{"Synergy Facilitation"}
	mustSeed(t, st,
		rich,
		seedProfile("id-2", "John Doe", "", "a_speakers", "Leadership"),
		seedProfile("id-3", "Ann Lee", "Oslo", "bigspeak"),
	)

	rep, err := BuildVerify(ctx, st)
	if err != nil {
		t.Fatalf("BuildVerify failed: %v", err)
	}
	if rep.Total != 3 {
		t.Fatalf("expected total 3, got %d", rep.Total)
	}
	if len(rep.Sources) != 2 || rep.Sources[0].Source != "a_speakers" || rep.Sources[0].Count != 2 {
		t.Fatalf("unexpected source distribution: %+v", rep.Sources)
	}
	if rep.Coverage.Total != 3 || rep.Coverage.Biography != 1 || rep.Coverage.City != 2 {
		t.Fatalf("unexpected coverage: %+v", rep.Coverage)
	}
	if len(rep.TopTopics) == 0 || rep.TopTopics[0].Topic != "Leadership" || rep.TopTopics[0].Count != 2 {
		t.Fatalf("unexpected topic ranking: %+v", rep.TopTopics)
	}
	if len(rep.Unmapped) != 1 || rep.Unmapped[0].Topic != "Synergy Facilitation" {
		t.Fatalf("unexpected unmapped ranking: %+v", rep.Unmapped)
	}
	if len(rep.Samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(rep.Samples))
	}
}

func TestBuildVerifyEmptyStore(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	rep, err := BuildVerify(context.Background(), st)
	if err != nil {
		t.Fatalf("BuildVerify failed: %v", err)
	}
	if rep.Total != 0 || rep.Sources != nil || rep.Samples != nil {
		t.Fatalf("expected empty report, got %+v", rep)
	}
}

func TestRenderVerifyEmptyStore(t *testing.T) {
	var buf bytes.Buffer
	RenderVerify(&buf, VerifyReport{}, false)
	out := buf.String()
	if !strings.Contains(out, "store is empty") {
		t.Fatalf("expected empty-store warning:\n%s", out)
	}
	if strings.Contains(out, "Source Distribution") {
		t.Fatalf("expected no distribution section for empty store:\n%s", out)
	}
}

func TestRenderRunSummary(t *testing.T) {
	summary := ingest.Summary{
		Sources: []ingest.SourceResult{
			{Source: "a_speakers", Read: 1200, Ingested: 1150, New: 1000, Updated: 150, Skipped: 50},
			{Source: "bigspeak_scraper", Read: 300, Ingested: 300, New: 100, Updated: 200},
		},
	}

	var buf bytes.Buffer
	RenderRun(&buf, summary, 4321, false)
	out := buf.String()

	for _, want := range []string{
		"== Run Complete ==",
		"a_speakers",
		"1,200",
		"Ingested  : 1,450",
		"New       : 1,100",
		"Updated   : 350",
		"Total now : 4,321",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderVerifyOutput(t *testing.T) {
	rep := VerifyReport{
		Total: 12345,
		Sources: []store.SourceCount{
			{Source: "a_speakers", Count: 9000},
			{Source: "bigspeak", Count: 3345},
		},
		Coverage: store.Coverage{
			Total:     12345,
			Biography: 6172,
			City:      12345,
			Topics:    9876,
			Image:     4,
		},
		TopTopics: []store.TopicCount{{Topic: "Leadership", Count: 4200}},
		Samples: []speaker.Profile{
			{
				Name:   "Jane Smith",
				Topics: []string{"One", "Two", "Three", "Four", "Five", "Six"},
				Location: speaker.Location{
					City:    "Austin",
					Country: "United States",
				},
				SourceInfo: speaker.SourceInfo{OriginalSource: "a_speakers"},
			},
			{Name: "John Doe"},
		},
	}

	var buf bytes.Buffer
	RenderVerify(&buf, rep, false)
	out := buf.String()

	for _, want := range []string{
		"[OK] 12,345 profiles",
		"== Source Distribution ==",
		"a_speakers",
		"9,000",
		"== Field Coverage ==",
		"50.0%",
		"100.0%",
		"== Top Topics ==",
		"Leadership",
		"4,200",
		"== Unmapped Topics ==",
		"none recorded",
		"== Sample Speakers ==",
		"1. Jane Smith",
		"Source: a_speakers",
		"Topics: One, Two, Three, Four, Five",
		"Location: Austin, United States",
		"2. John Doe",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Six") {
		t.Fatalf("expected sample topics capped at %d:\n%s", sampleTopicLimit, out)
	}
	if got := strings.Count(out, "Location:"); got != 1 {
		t.Fatalf("expected exactly 1 location line, got %d:\n%s", got, out)
	}
}
