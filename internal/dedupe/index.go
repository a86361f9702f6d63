package dedupe

// Entry is one identity reference held by the index: the persisted id plus
// the name and city the scorer needs to rank an incoming candidate against it.
type Entry struct {
	ID   string
	Name string
	City string
}

// Index buckets every known identity by name fingerprint, with a secondary
// phonetic bucket for spelling variants. It is rebuilt from the persisted
// store at the start of a run and updated as new identities are inserted, so
// it always reflects every prior decision of the current run.
//
// Multiple distinct people may share a bucket (common names); grouping them
// is the point, deciding between them is the scorer's job. The index is not
// persisted and not safe for concurrent use.
type Index struct {
	exact    map[string][]Entry
	phonetic map[string][]Entry
	entries  int
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		exact:    make(map[string][]Entry),
		phonetic: make(map[string][]Entry),
	}
}

// Register appends an identity under its fingerprint and the name's phonetic
// key. Entries keep insertion order. Registering the empty fingerprint is a
// no-op; records without a fingerprint never participate in matching.
func (ix *Index) Register(fingerprint, id, name, city string) {
	if fingerprint == "" {
		return
	}
	entry := Entry{ID: id, Name: name, City: city}
	ix.exact[fingerprint] = append(ix.exact[fingerprint], entry)
	if key := PhoneticKey(name); key != "" {
		ix.phonetic[key] = append(ix.phonetic[key], entry)
	}
	ix.entries++
}

// Lookup returns the entries sharing an exact fingerprint, in insertion
// order. The returned slice is the index's own; callers must not mutate it.
func (ix *Index) Lookup(fingerprint string) []Entry {
	if fingerprint == "" {
		return nil
	}
	return ix.exact[fingerprint]
}

// Candidates returns the entries an incoming name must be scored against:
// the exact fingerprint bucket first, then phonetic-bucket entries not
// already listed. Each group preserves insertion order, so the first-match
// decision rule stays deterministic.
func (ix *Index) Candidates(fingerprint, name string) []Entry {
	if fingerprint == "" {
		return nil
	}
	exact := ix.exact[fingerprint]
	key := PhoneticKey(name)
	if key == "" {
		return exact
	}
	phonetic := ix.phonetic[key]
	if len(phonetic) == 0 {
		return exact
	}

	seen := make(map[string]struct{}, len(exact))
	merged := make([]Entry, 0, len(exact)+len(phonetic))
	for _, entry := range exact {
		seen[entry.ID] = struct{}{}
		merged = append(merged, entry)
	}
	for _, entry := range phonetic {
		if _, ok := seen[entry.ID]; ok {
			continue
		}
		merged = append(merged, entry)
	}
	return merged
}

// Len reports the number of registered identity references.
func (ix *Index) Len() int {
	return ix.entries
}

// Buckets reports the number of distinct exact fingerprints.
func (ix *Index) Buckets() int {
	return len(ix.exact)
}
