package dedupe

import "testing"

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Jane Smith", "janesmith"},
		{"shouting with punctuation", "JANE   smith!!", "janesmith"},
		{"hyphenated", "jane-smith", "janesmith"},
		{"honorific left in", "Dr. Jane Smith", "drjanesmith"},
		{"digits kept", "Agent 99", "agent99"},
		{"accents fold", "José García", "josegarcia"},
		{"umlaut folds", "Björk Guðmundsdóttir", "bjorkgumundsdottir"},
		{"empty", "", ""},
		{"punctuation only", "?!, --", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fingerprint(tt.input)
			if got != tt.want {
				t.Errorf("Fingerprint(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	inputs := []string{"Jane Smith", "José García", "O'Brien, Patrick Jr."}
	for _, input := range inputs {
		first := Fingerprint(input)
		for i := 0; i < 3; i++ {
			if got := Fingerprint(input); got != first {
				t.Fatalf("Fingerprint(%q) changed between calls: %q then %q", input, first, got)
			}
		}
	}
}
