package sources

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// flexString decodes JSON values that scrapers emit inconsistently.
// Strings pass through, numbers keep their literal form, and Mongo
// extended-JSON {"$oid": "..."} wrappers unwrap to the hex id. Anything
// else decodes to the empty string so a malformed field degrades to a
// missing one instead of failing the whole document.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	switch data[0] {
	case '"':
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*f = flexString(value)
	case '{':
		var wrapper struct {
			OID string `json:"$oid"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			*f = ""
			return nil
		}
		*f = flexString(wrapper.OID)
	default:
		var value json.Number
		if err := json.Unmarshal(data, &value); err != nil {
			*f = ""
			return nil
		}
		*f = flexString(value.String())
	}
	return nil
}

func (f flexString) String() string {
	return string(f)
}

// scrapeTimeLayouts covers the timestamp formats seen across exports.
var scrapeTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// flexTime decodes scraper timestamps. Scrapers disagree on formats and
// occasionally write garbage, so an unparseable value decodes to the
// zero time rather than failing the document.
type flexTime time.Time

func (f *flexTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = flexTime(time.Time{})
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		*f = flexTime(time.Time{})
		return nil
	}
	*f = flexTime(parseScrapeTime(value))
	return nil
}

func (f flexTime) Time() time.Time {
	return time.Time(f)
}

func parseScrapeTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range scrapeTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// rawValue passes a decoded JSON fragment through, dropping empty and
// null values so merge sees them as fillable rather than populated.
func rawValue(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return raw
}

// firstRawValue returns the first fragment that carries a real value.
func firstRawValue(values ...json.RawMessage) json.RawMessage {
	for _, value := range values {
		if v := rawValue(value); v != nil {
			return v
		}
	}
	return nil
}

// liveEventFees wraps a bare fee string in the unified fee_ranges shape.
func liveEventFees(feeRange string) json.RawMessage {
	if strings.TrimSpace(feeRange) == "" {
		return nil
	}
	encoded, _ := json.Marshal(map[string]string{"live_event": feeRange})
	return encoded
}

// ratingsDocument assembles the unified ratings object from the loose
// rating fields an export carries. Absent fields stay absent so the
// document remains fillable by richer sources.
func ratingsDocument(average, total json.RawMessage) json.RawMessage {
	fields := make(map[string]json.RawMessage, 2)
	if v := rawValue(average); v != nil {
		fields["average_rating"] = v
	}
	if v := rawValue(total); v != nil {
		fields["total_reviews"] = v
	}
	if len(fields) == 0 {
		return nil
	}
	encoded, _ := json.Marshal(fields)
	return encoded
}
