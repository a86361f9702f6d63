package speaker

import (
	"encoding/json"
	"strings"
	"time"
)

// Profile is the unified speaker document persisted in the target store.
// Every source normalizer converges on this shape. Field names follow the
// stored JSON document.
type Profile struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	DisplayName    string          `json:"display_name"`
	JobTitle       string          `json:"job_title"`
	Description    string          `json:"description"`
	Biography      string          `json:"biography"`
	Tagline        string          `json:"tagline"`
	Location       Location        `json:"location"`
	SpeakingInfo   SpeakingInfo    `json:"speaking_info"`
	Topics         []string        `json:"topics"`
	Categories     []string        `json:"categories"`
	TopicsUnmapped []string        `json:"topics_unmapped"`
	Keynotes       json.RawMessage `json:"keynotes,omitempty"`
	Reviews        json.RawMessage `json:"reviews,omitempty"`
	Ratings        json.RawMessage `json:"ratings,omitempty"`
	Books          json.RawMessage `json:"books,omitempty"`
	Media          Media           `json:"media"`
	Contact        Contact         `json:"contact"`
	SourceInfo     SourceInfo      `json:"source_info"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Location is the structured home/travel base of a speaker. full_location
// preserves the raw string the parts were split from.
type Location struct {
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
	FullLocation string `json:"full_location"`
}

// SpeakingInfo carries engagement terms. Fee structures differ per source
// (nested objects, plain strings), so fee_ranges stays free-form.
type SpeakingInfo struct {
	FeeRanges json.RawMessage `json:"fee_ranges,omitempty"`
	Languages []string        `json:"languages,omitempty"`
}

// Media groups image and video references.
type Media struct {
	ProfileImage string          `json:"profile_image"`
	Videos       json.RawMessage `json:"videos,omitempty"`
}

// Contact holds whatever public contact details a source exposed.
type Contact struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Website string `json:"website"`
}

// SourceInfo records where a profile's founding version came from. It is
// written at first insert and never touched by merges, so traceability
// always points at the founding source.
type SourceInfo struct {
	OriginalSource string    `json:"original_source"`
	SourceURL      string    `json:"source_url"`
	ScrapedAt      time.Time `json:"scraped_at"`
	SourceID       string    `json:"source_id"`
}

// IsZero reports whether the location carries no information.
func (l Location) IsZero() bool {
	return l.City == "" && l.State == "" && l.Country == "" && l.FullLocation == ""
}

// HasCity reports whether a non-blank city is present.
func (l Location) HasCity() bool {
	return strings.TrimSpace(l.City) != ""
}
