package dedupe

import "strings"

// soundexCodes maps consonants to their Soundex digit. Unmapped letters
// (vowels, h, w, y) break a run of repeated codes.
var soundexCodes = map[rune]rune{
	'B': '1', 'F': '1', 'P': '1', 'V': '1',
	'C': '2', 'G': '2', 'J': '2', 'K': '2', 'Q': '2', 'S': '2', 'X': '2', 'Z': '2',
	'D': '3', 'T': '3',
	'L': '4',
	'M': '5', 'N': '5',
	'R': '6',
}

// PhoneticKey derives a secondary bucket key from a name: one Soundex code
// per token, joined with dashes. Names that sound alike but are spelled
// differently ("Jane Smith"/"Jane Smyth" -> "J500-S530") share a key even
// though their exact fingerprints differ. Returns "" when the name carries
// no letters.
func PhoneticKey(name string) string {
	folded := foldASCII(name)
	tokens := strings.FieldsFunc(folded, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= 'A' && r <= 'Z':
			return false
		default:
			return true
		}
	})
	if len(tokens) == 0 {
		return ""
	}
	codes := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if code := soundex(token); code != "" {
			codes = append(codes, code)
		}
	}
	return strings.Join(codes, "-")
}

// soundex encodes a single token as the classic four-character code: the
// first letter followed by consonant digits, adjacent duplicates collapsed,
// zero-padded to length four.
func soundex(token string) string {
	token = strings.ToUpper(token)
	if token == "" {
		return ""
	}
	result := []rune{rune(token[0])}
	var prev rune
	for _, r := range token[1:] {
		code, ok := soundexCodes[r]
		if !ok {
			prev = 0
			continue
		}
		if code != prev {
			result = append(result, code)
			prev = code
		}
		if len(result) >= 4 {
			break
		}
	}
	for len(result) < 4 {
		result = append(result, '0')
	}
	return string(result[:4])
}
