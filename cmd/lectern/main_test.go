package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"lectern/internal/config"
	"lectern/internal/speaker"
	"lectern/internal/testsupport"
)

func writeTestConfig(t *testing.T, base string) (string, *config.Config) {
	t.Helper()

	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.SourcesDir = filepath.Join(base, "exports")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Store.SQLitePath = filepath.Join(base, "data", "speakers.db")

	content := fmt.Sprintf(`[paths]
data_dir = %q
sources_dir = %q
log_dir = %q

[store]
backend = "sqlite"
sqlite_path = %q
`, cfgVal.Paths.DataDir, cfgVal.Paths.SourcesDir, cfgVal.Paths.LogDir, cfgVal.Store.SQLitePath)

	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path, &cfgVal
}

func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func TestCLIRunIngestsExports(t *testing.T) {
	base := t.TempDir()
	configPath, cfg := writeTestConfig(t, base)

	testsupport.WriteExport(t, cfg, "a_speakers",
		`{"_id":"a1","name":"Jane Smith","location":"Austin, USA","topics":["Leadership"],"url":"https://www.a-speakers.com/jane"}`,
		`{"_id":"a2","name":"John Doe","url":"https://www.a-speakers.com/john"}`,
	)

	out, err := runCLI(t, configPath, "run")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{
		"== Run Complete ==",
		"a_speakers",
		"Ingested  : 2",
		"New       : 2",
		"Updated   : 0",
		"Total now : 2",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("run output missing %q:\n%s", want, out)
		}
	}

	st := testsupport.MustOpenStore(t, cfg)
	count, err := st.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 stored profiles, got %d", count)
	}

	perRun, err := filepath.Glob(filepath.Join(cfg.Paths.LogDir, "lectern-*.log"))
	if err != nil || len(perRun) == 0 {
		t.Fatalf("expected a per-run log file, got %v (err %v)", perRun, err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.LogDir, "lectern.log")); err != nil {
		t.Fatalf("expected lectern.log pointer: %v", err)
	}
}

func TestCLIRunUsesCustomTopicMapping(t *testing.T) {
	base := t.TempDir()
	configPath, cfg := writeTestConfig(t, base)

	mappingPath := filepath.Join(base, "topics.json")
	if err := os.WriteFile(mappingPath, []byte(`{"Futurism": ["future trends"]}`), 0o644); err != nil {
		t.Fatalf("write mapping: %v", err)
	}
	extra := fmt.Sprintf("\n[topics]\nmapping_path = %q\n", mappingPath)
	f, err := os.OpenFile(configPath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open config: %v", err)
	}
	if _, err := f.WriteString(extra); err != nil {
		t.Fatalf("append topics section: %v", err)
	}
	f.Close()

	testsupport.WriteExport(t, cfg, "a_speakers",
		`{"_id":"a1","name":"Jane Smith","topics":["future trends","Leadership"],"url":"https://www.a-speakers.com/jane"}`,
	)

	if _, err := runCLI(t, configPath, "run"); err != nil {
		t.Fatalf("run: %v", err)
	}

	st := testsupport.MustOpenStore(t, cfg)
	profile, err := st.Get(context.Background(), speaker.ID("a_speakers", "a1"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if profile == nil {
		t.Fatal("ingested profile not found in store")
	}
	if len(profile.Topics) != 2 || profile.Topics[0] != "Futurism" || profile.Topics[1] != "Leadership" {
		t.Fatalf("expected topics [Futurism Leadership], got %v", profile.Topics)
	}
	// Leadership is canonical in the embedded catalog but unknown to the
	// override, so it passes through as unmapped.
	if len(profile.TopicsUnmapped) != 1 || profile.TopicsUnmapped[0] != "Leadership" {
		t.Fatalf("expected unmapped [Leadership], got %v", profile.TopicsUnmapped)
	}
}

func TestCLIRunRejectsUnknownSource(t *testing.T) {
	base := t.TempDir()
	configPath, _ := writeTestConfig(t, base)

	_, err := runCLI(t, configPath, "run", "--source", "myspace")
	if err == nil || !strings.Contains(err.Error(), `unknown source "myspace"`) {
		t.Fatalf("expected unknown source error, got %v", err)
	}
}

func TestCLIRunBlockedByActiveLock(t *testing.T) {
	base := t.TempDir()
	configPath, cfg := writeTestConfig(t, base)
	if err := os.MkdirAll(cfg.Paths.DataDir, 0o755); err != nil {
		t.Fatalf("mkdir data dir: %v", err)
	}

	held := flock.New(cfg.LockPath())
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("acquire test lock: locked=%v err=%v", locked, err)
	}
	defer held.Unlock()

	_, err = runCLI(t, configPath, "run")
	if !errors.Is(err, errRunActive) {
		t.Fatalf("expected active-run error, got %v", err)
	}
}

func TestCLICheckReportsExports(t *testing.T) {
	base := t.TempDir()
	configPath, cfg := writeTestConfig(t, base)
	testsupport.WriteExport(t, cfg, "a_speakers", `{"_id":"a1","name":"Jane Smith"}`)

	out, err := runCLI(t, configPath, "check")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	for _, want := range []string{
		"== Source Exports ==",
		"1 documents (A-Speakers.com data)",
		"export missing",
		"1/9 found",
		"not populated yet",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("check output missing %q:\n%s", want, out)
		}
	}
}

func TestCLIVerifyEmptyStore(t *testing.T) {
	base := t.TempDir()
	configPath, _ := writeTestConfig(t, base)

	out, err := runCLI(t, configPath, "verify")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !strings.Contains(out, "store is empty") {
		t.Fatalf("expected empty-store warning:\n%s", out)
	}
}

func TestCLIVerifyAfterRun(t *testing.T) {
	base := t.TempDir()
	configPath, cfg := writeTestConfig(t, base)
	testsupport.WriteExport(t, cfg, "a_speakers",
		`{"_id":"a1","name":"Jane Smith","location":"Austin, USA","topics":["Leadership"],"url":"https://www.a-speakers.com/jane"}`,
	)

	if _, err := runCLI(t, configPath, "run"); err != nil {
		t.Fatalf("run: %v", err)
	}
	out, err := runCLI(t, configPath, "verify")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	for _, want := range []string{
		"1 profiles",
		"a_speakers",
		"Leadership",
		"1. Jane Smith",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("verify output missing %q:\n%s", want, out)
		}
	}
}
