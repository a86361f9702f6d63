package sources

import "strings"

// honorificPrefixes are leading title tokens stripped from speaker names.
var honorificPrefixes = map[string]struct{}{
	"mr":        {},
	"mrs":       {},
	"ms":        {},
	"miss":      {},
	"dr":        {},
	"prof":      {},
	"professor": {},
	"sir":       {},
	"dame":      {},
	"lord":      {},
	"lady":      {},
	"rev":       {},
}

// credentialSuffixes are trailing credential tokens stripped from
// speaker names.
var credentialSuffixes = map[string]struct{}{
	"jr":  {},
	"sr":  {},
	"ii":  {},
	"iii": {},
	"iv":  {},
	"phd": {},
	"md":  {},
	"mba": {},
	"esq": {},
	"cpa": {},
	"dds": {},
	"jd":  {},
}

// CleanName strips honorific prefixes and credential suffixes from a
// raw speaker name and collapses internal whitespace. The display form
// keeps the original text; the cleaned form feeds fingerprinting and
// similarity so "Dr. Jane Smith, PhD" and "Jane Smith" resolve to the
// same person.
//
// Stripping never consumes the final token: a name that is nothing but
// a title is left alone rather than reduced to nothing.
func CleanName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}

	// Comma-separated tails that consist entirely of credentials are
	// dropped: "Jane Smith, PhD, MBA" keeps only "Jane Smith".
	parts := strings.Split(name, ",")
	kept := parts[:1]
	for _, part := range parts[1:] {
		if isCredentialRun(part) {
			continue
		}
		kept = append(kept, part)
	}
	name = strings.TrimSpace(strings.Join(kept, ","))

	tokens := strings.Fields(name)
	for len(tokens) > 1 {
		if _, ok := honorificPrefixes[nameToken(tokens[0])]; !ok {
			break
		}
		tokens = tokens[1:]
	}
	for len(tokens) > 1 {
		if _, ok := credentialSuffixes[nameToken(tokens[len(tokens)-1])]; !ok {
			break
		}
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}

// isCredentialRun reports whether every token in part is a credential
// suffix. An empty part counts so stray trailing commas disappear.
func isCredentialRun(part string) bool {
	for _, token := range strings.Fields(part) {
		if _, ok := credentialSuffixes[nameToken(token)]; !ok {
			return false
		}
	}
	return true
}

// nameToken normalizes one name token for set lookups. Periods go so
// "Ph.D." and "PhD" compare equal, as does the trailing punctuation a
// raw scrape drags along.
func nameToken(token string) string {
	token = strings.ReplaceAll(token, ".", "")
	token = strings.Trim(token, ",;:")
	return strings.ToLower(token)
}
