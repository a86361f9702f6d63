package dedupe

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fingerprint reduces a person's name to a lossy lowercase comparison key:
// accents fold to their base letters, everything that is not a letter or
// digit is dropped. "Jane Smith", "JANE   smith!!", and "jane-smith" all
// produce "janesmith".
//
// The empty string is the reserved no-fingerprint value; callers route
// records without one straight to insert-as-new.
func Fingerprint(name string) string {
	folded := foldASCII(name)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// foldASCII strips combining marks so accented letters compare by their base
// form ("José" folds to "Jose"). Transformers carry state, so the chain is
// built per call.
func foldASCII(value string) string {
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(chain, value)
	if err != nil {
		return value
	}
	return folded
}
