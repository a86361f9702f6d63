package speaker

import "testing"

func TestID(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		localID string
		want    string
	}{
		{"numeric local id", "a_speakers", "123", "d63f7f83f462d598fc24e808298d507f1572c84e"},
		{"short prefix", "tsh", "abc", "934bf458cbd73b7fe45bd4ed62a1efd943b24389"},
		{"username local id", "sessionize", "jane_smith", "70b7aaa93a1c958d5281bc62822b3d8b83117a99"},
		{"both empty", "", "", "3eb416223e9e69e6bb8ee19793911ad1ad2027d8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ID(tt.prefix, tt.localID)
			if got != tt.want {
				t.Errorf("ID(%q, %q) = %q, want %q", tt.prefix, tt.localID, got, tt.want)
			}
		})
	}
}

func TestIDDistinguishesSources(t *testing.T) {
	if ID("a_speakers", "123") == ID("allamerican", "123") {
		t.Error("same local id under different prefixes must hash differently")
	}
	if ID("a_speakers", "123") == ID("a_speakers", "124") {
		t.Error("different local ids under one prefix must hash differently")
	}
}
