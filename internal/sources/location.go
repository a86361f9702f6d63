package sources

import (
	"bytes"
	"encoding/json"
	"strings"

	"lectern/internal/speaker"
)

// ParseLocation splits a free-form "City, State, Country" display string
// into structured parts. Three comma parts map to city/state/country,
// two map to city/country, and anything else is treated as a bare
// country. The original text is always kept as the full location.
func ParseLocation(value string) speaker.Location {
	value = strings.TrimSpace(value)
	if value == "" {
		return speaker.Location{}
	}

	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	loc := speaker.Location{FullLocation: value}
	switch len(parts) {
	case 3:
		loc.City, loc.State, loc.Country = parts[0], parts[1], parts[2]
	case 2:
		loc.City, loc.Country = parts[0], parts[1]
	default:
		loc.Country = parts[0]
	}
	return loc
}

// rawLocation accepts the two location shapes scrapers emit: a display
// string or a structured object with city/state/country fields. Some
// exports switch shapes between records, so both must decode.
type rawLocation struct {
	display string

	structured bool
	City       string `json:"city"`
	State      string `json:"state"`
	Province   string `json:"state_province"`
	Country    string `json:"country"`
}

func (l *rawLocation) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &l.display)
	}
	type plain rawLocation
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil
	}
	*l = rawLocation(decoded)
	l.structured = true
	return nil
}

// Location converts the raw value to the unified shape. Structured
// objects keep their fields verbatim, with state_province standing in
// for a missing state; display strings go through ParseLocation.
func (l rawLocation) Location() speaker.Location {
	if !l.structured {
		return ParseLocation(l.display)
	}
	state := l.State
	if state == "" {
		state = l.Province
	}
	return speaker.Location{
		City:         l.City,
		State:        state,
		Country:      l.Country,
		FullLocation: joinNonEmpty(", ", l.City, state, l.Country),
	}
}
