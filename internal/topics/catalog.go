package topics

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

//go:embed topic_mapping.json
var defaultMapping []byte

// Catalog resolves raw topic strings to canonical vocabulary terms.
type Catalog struct {
	reverse map[string]string
}

// Default returns the catalog built from the embedded mapping.
func Default() (*Catalog, error) {
	return parse(defaultMapping)
}

// Load reads a mapping file of the same shape as the embedded one:
// {"Canonical Term": ["raw synonym", ...], ...}.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read topic mapping: %w", err)
	}
	catalog, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse topic mapping %s: %w", path, err)
	}
	return catalog, nil
}

func parse(data []byte) (*Catalog, error) {
	var mapping map[string][]string
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("decode topic mapping: %w", err)
	}

	reverse := make(map[string]string, len(mapping)*4)
	// Sorted canonical order keeps the winner deterministic when one raw
	// synonym appears under two canonical terms.
	canonicals := make([]string, 0, len(mapping))
	for canonical := range mapping {
		canonicals = append(canonicals, canonical)
	}
	sort.Strings(canonicals)
	for _, canonical := range canonicals {
		reverse[clean(canonical)] = canonical
		for _, raw := range mapping[canonical] {
			if cleaned := clean(raw); cleaned != "" {
				reverse[cleaned] = canonical
			}
		}
	}
	return &Catalog{reverse: reverse}, nil
}

// Normalize converts raw topic labels into the canonical list plus the list
// of terms the catalog does not know. Unknown terms appear in both outputs,
// cleaned; both outputs are sorted and duplicate-free.
func (c *Catalog) Normalize(raw []string) (canonical, unmapped []string) {
	canonSet := make(map[string]struct{})
	unmappedSet := make(map[string]struct{})
	for _, label := range raw {
		cleaned := clean(label)
		if cleaned == "" {
			continue
		}
		if target, ok := c.reverse[cleaned]; ok {
			canonSet[target] = struct{}{}
			continue
		}
		canonSet[cleaned] = struct{}{}
		unmappedSet[cleaned] = struct{}{}
	}
	return sortedKeys(canonSet), sortedKeys(unmappedSet)
}

// Lookup resolves one cleaned label, reporting whether the catalog knows it.
func (c *Catalog) Lookup(label string) (string, bool) {
	target, ok := c.reverse[clean(label)]
	return target, ok
}

// Terms reports the number of raw labels the catalog can resolve.
func (c *Catalog) Terms() int {
	return len(c.reverse)
}

// clean collapses internal whitespace and trims.
func clean(label string) string {
	return strings.Join(strings.Fields(label), " ")
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return []string{}
	}
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
