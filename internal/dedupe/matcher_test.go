package dedupe

import "testing"

func TestQualifiesThresholds(t *testing.T) {
	m := NewMatcher(DefaultPolicy())

	tests := []struct {
		name          string
		score         float64
		candidateCity string
		entryCity     string
		want          bool
	}{
		{"well above match bar", 95, "", "", true},
		{"exactly 91", 91, "", "", true},
		{"exactly 90 is not a plain match", 90, "", "", false},
		{"exactly 90 with shared city", 90, "Austin", "Austin", true},
		{"86 with shared city", 86, "New York", "New York", true},
		{"86 with shared city ignoring case and trim", 86, " new york ", "New York", true},
		{"86 with differing cities", 86, "New York", "Boston", false},
		{"86 with one city missing", 86, "New York", "", false},
		{"exactly 85 never qualifies", 85, "Austin", "Austin", false},
		{"low score with shared city", 50, "Austin", "Austin", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.qualifies(tt.score, tt.candidateCity, tt.entryCity)
			if got != tt.want {
				t.Errorf("qualifies(%v, %q, %q) = %v, want %v",
					tt.score, tt.candidateCity, tt.entryCity, got, tt.want)
			}
		})
	}
}

func TestMatcherPolicyNormalization(t *testing.T) {
	m := NewMatcher(Policy{MatchThreshold: -5, LocationThreshold: 400})
	d := DefaultPolicy()
	if m.policy.MatchThreshold != d.MatchThreshold {
		t.Errorf("MatchThreshold = %v, want default %v", m.policy.MatchThreshold, d.MatchThreshold)
	}
	if m.policy.LocationThreshold != d.LocationThreshold {
		t.Errorf("LocationThreshold = %v, want default %v", m.policy.LocationThreshold, d.LocationThreshold)
	}
}

func TestFindDuplicateEmptyName(t *testing.T) {
	m := NewMatcher(DefaultPolicy())
	idx := NewIndex()
	idx.Register("janesmith", "id-1", "Jane Smith", "")

	if id, ok := m.FindDuplicate(idx, "", ""); ok {
		t.Errorf("FindDuplicate(empty name) matched %s, want none", id)
	}
	if id, ok := m.FindDuplicate(idx, "?!--", ""); ok {
		t.Errorf("FindDuplicate(punctuation-only name) matched %s, want none", id)
	}
}

func TestFindDuplicateExactName(t *testing.T) {
	m := NewMatcher(DefaultPolicy())
	idx := NewIndex()
	idx.Register("janesmith", "id-1", "Jane Smith", "New York")

	id, ok := m.FindDuplicate(idx, "Jane Smith", "")
	if !ok || id != "id-1" {
		t.Fatalf("FindDuplicate = (%s, %v), want (id-1, true)", id, ok)
	}
}

func TestFindDuplicateSpellingVariant(t *testing.T) {
	m := NewMatcher(DefaultPolicy())
	idx := NewIndex()
	idx.Register("janesmith", "id-1", "Jane Smith", "")

	// Different exact fingerprint; reached through the phonetic bucket and
	// accepted on the plain threshold.
	id, ok := m.FindDuplicate(idx, "Jane Smyth", "")
	if !ok || id != "id-1" {
		t.Fatalf("FindDuplicate(Jane Smyth) = (%s, %v), want (id-1, true)", id, ok)
	}
}

func TestFindDuplicateCityCorroboration(t *testing.T) {
	m := NewMatcher(DefaultPolicy())
	idx := NewIndex()
	idx.Register("janesmith", "id-1", "Jane Smith", "Austin")

	// John/Jane Smith score between the two thresholds, so the shared city
	// decides.
	if id, ok := m.FindDuplicate(idx, "John Smith", "Austin"); !ok || id != "id-1" {
		t.Errorf("FindDuplicate(same city) = (%s, %v), want (id-1, true)", id, ok)
	}
	if id, ok := m.FindDuplicate(idx, "John Smith", "Dallas"); ok {
		t.Errorf("FindDuplicate(different city) matched %s, want none", id)
	}
	if id, ok := m.FindDuplicate(idx, "John Smith", ""); ok {
		t.Errorf("FindDuplicate(no city) matched %s, want none", id)
	}
}

func TestFindDuplicateRejectsDissimilarNames(t *testing.T) {
	m := NewMatcher(DefaultPolicy())
	idx := NewIndex()
	idx.Register("rupertlaw", "id-1", "Rupert Law", "Austin")

	// Shares the phonetic bucket but scores under both thresholds; even a
	// shared city must not rescue it.
	if id, ok := m.FindDuplicate(idx, "Robert Lee", "Austin"); ok {
		t.Errorf("FindDuplicate(Robert Lee) matched %s, want none", id)
	}
}

func TestFindDuplicateFirstMatchWins(t *testing.T) {
	m := NewMatcher(DefaultPolicy())
	idx := NewIndex()
	idx.Register("janesmith", "id-first", "Jane Smith", "")
	idx.Register("janesmith", "id-second", "Jane Smith", "")

	id, ok := m.FindDuplicate(idx, "Jane Smith", "")
	if !ok || id != "id-first" {
		t.Fatalf("FindDuplicate = (%s, %v), want earliest registered (id-first, true)", id, ok)
	}
}

func TestFindDuplicateEmptyIndex(t *testing.T) {
	m := NewMatcher(DefaultPolicy())
	idx := NewIndex()

	if id, ok := m.FindDuplicate(idx, "Jane Smith", "New York"); ok {
		t.Errorf("FindDuplicate on empty index matched %s, want none", id)
	}
}
