package dedupe

import "strings"

// Matcher applies the duplicate-decision rule to index candidates.
type Matcher struct {
	policy Policy
}

// NewMatcher builds a matcher, replacing out-of-range policy values with
// defaults.
func NewMatcher(policy Policy) *Matcher {
	return &Matcher{policy: policy.normalized()}
}

// Policy returns the effective thresholds after normalization.
func (m *Matcher) Policy() Policy {
	return m.policy
}

// FindDuplicate decides whether the named candidate refers to an identity
// already in the index. Entries sharing the candidate's fingerprint or
// phonetic key are scored in retrieval order and the first qualifying entry
// wins; when near-duplicate identities already exist in the store this masks
// all but the earliest, a documented limitation rather than a repair this
// layer attempts.
//
// A name with an empty fingerprint never matches.
func (m *Matcher) FindDuplicate(idx *Index, name, city string) (string, bool) {
	fingerprint := Fingerprint(name)
	if fingerprint == "" {
		return "", false
	}
	for _, entry := range idx.Candidates(fingerprint, name) {
		if m.qualifies(Similarity(name, entry.Name), city, entry.City) {
			return entry.ID, true
		}
	}
	return "", false
}

// qualifies is the two-tier acceptance rule: above the match threshold, or
// above the location threshold with a corroborating shared city.
func (m *Matcher) qualifies(score float64, candidateCity, entryCity string) bool {
	if score > m.policy.MatchThreshold {
		return true
	}
	return score > m.policy.LocationThreshold && sameCity(candidateCity, entryCity)
}

// sameCity reports whether both city values are present and equal after
// trimming, ignoring case. Missing cities never corroborate.
func sameCity(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}
