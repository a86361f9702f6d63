package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lectern/internal/config"
)

// WriteExport writes one JSON document per line to the named source's export
// file under the configured sources directory and returns the path.
func WriteExport(t testing.TB, cfg *config.Config, sourceKey string, docs ...string) string {
	t.Helper()

	path := filepath.Join(cfg.Paths.SourcesDir, sourceKey+".jsonl")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	var content string
	if len(docs) > 0 {
		content = strings.Join(docs, "\n") + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
