package dedupe

// Policy centralizes the duplicate-decision thresholds. Scores are
// percentages in [0, 100]; both comparisons are strict.
type Policy struct {
	// MatchThreshold is the plain acceptance bar: similarity above it is a
	// match regardless of location.
	MatchThreshold float64
	// LocationThreshold is the lowered bar that applies only when both
	// records name the same city.
	LocationThreshold float64
}

// DefaultPolicy returns the production thresholds. They were tuned against
// live scrape corpora; do not change them without evidence.
func DefaultPolicy() Policy {
	return Policy{
		MatchThreshold:    90,
		LocationThreshold: 85,
	}
}

func (p Policy) normalized() Policy {
	d := DefaultPolicy()

	if p.MatchThreshold <= 0 || p.MatchThreshold > 100 {
		p.MatchThreshold = d.MatchThreshold
	}
	if p.LocationThreshold <= 0 || p.LocationThreshold > 100 {
		p.LocationThreshold = d.LocationThreshold
	}
	if p.LocationThreshold > p.MatchThreshold {
		p.LocationThreshold = p.MatchThreshold
	}

	return p
}
