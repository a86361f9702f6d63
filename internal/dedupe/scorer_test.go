package dedupe

import (
	"math"
	"testing"
)

func TestSimilarityIdentical(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
	}{
		{"exact", "Jane Smith", "Jane Smith"},
		{"case differs", "Jane Smith", "JANE SMITH"},
		{"surrounding space", "  Jane Smith ", "Jane Smith"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similarity(tt.a, tt.b); got != 100 {
				t.Errorf("Similarity(%q, %q) = %v, want 100", tt.a, tt.b, got)
			}
		})
	}
}

func TestSimilarityEmpty(t *testing.T) {
	if got := Similarity("", "Jane Smith"); got != 0 {
		t.Errorf("Similarity(empty, name) = %v, want 0", got)
	}
	if got := Similarity("Jane Smith", "   "); got != 0 {
		t.Errorf("Similarity(name, blank) = %v, want 0", got)
	}
}

func TestSimilaritySpellingVariantAboveMatchBar(t *testing.T) {
	// One-letter surname variants must clear the plain 90 threshold; the
	// Winkler prefix bonus carries them past the bare edit-distance ratio.
	got := Similarity("Jane Smith", "Jane Smyth")
	if got <= 90 {
		t.Errorf("Similarity(Smith, Smyth) = %v, want > 90", got)
	}
}

func TestSimilarityDifferentNamesStayLow(t *testing.T) {
	got := Similarity("Robert Lee", "Rupert Law")
	if got > 85 {
		t.Errorf("Similarity(Robert Lee, Rupert Law) = %v, want <= 85", got)
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"Jane Smith", "Jane Smyth"},
		{"John Smith", "Jane Smith"},
		{"Maria Garcia", "Mario Garcia"},
	}
	for _, pair := range pairs {
		ab := Similarity(pair[0], pair[1])
		ba := Similarity(pair[1], pair[0])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("Similarity not symmetric for %q/%q: %v vs %v", pair[0], pair[1], ab, ba)
		}
	}
}

func TestLevenshteinRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "jane smith", "jane smith", 1},
		{"one edit in ten", "jane smith", "jane smyth", 0.9},
		{"disjoint", "abc", "xyz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := levenshteinRatio(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("levenshteinRatio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestJaroWinkler(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "jane", "jane", 1},
		{"empty side", "", "jane", 0},
		{"no shared letters", "abc", "xyz", 0},
		// jaro 0.93333 with a full four-rune prefix bonus.
		{"surname variant", "jane smith", "jane smyth", 0.96},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := jaroWinkler(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-4 {
				t.Errorf("jaroWinkler(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
