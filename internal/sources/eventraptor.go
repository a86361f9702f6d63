package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"lectern/internal/speaker"
	"lectern/internal/topics"
)

type rawEventRaptorDoc struct {
	SpeakerID     flexString `json:"speaker_id"`
	Name          string     `json:"name"`
	Tagline       string     `json:"tagline"`
	Biography     string     `json:"biography"`
	Email         string     `json:"email"`
	BusinessAreas []string   `json:"business_areas"`
	ProfileImage  string     `json:"profile_image"`
	URL           string     `json:"url"`
	ScrapedAt     flexTime   `json:"scraped_at"`
}

// normalizeEventRaptor maps EventRaptor documents. The export carries no
// location data, so profiles start with an empty location and pick one
// up from whichever source merges in later.
func normalizeEventRaptor(catalog *topics.Catalog, raw json.RawMessage) (speaker.Profile, error) {
	var doc rawEventRaptorDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return speaker.Profile{}, fmt.Errorf("decode eventraptor document: %w", err)
	}
	localID := doc.SpeakerID.String()
	if localID == "" {
		return speaker.Profile{}, errors.New("eventraptor document missing speaker_id")
	}

	mapped, unmapped := catalog.Normalize(doc.BusinessAreas)

	return speaker.Profile{
		ID:             speaker.ID("eventraptor", localID),
		Name:           CleanName(doc.Name),
		DisplayName:    strings.TrimSpace(doc.Name),
		Tagline:        doc.Tagline,
		Biography:      doc.Biography,
		Topics:         mapped,
		Categories:     mapped,
		TopicsUnmapped: unmapped,
		Contact: speaker.Contact{
			Email: doc.Email,
		},
		Media: speaker.Media{
			ProfileImage: doc.ProfileImage,
		},
		SourceInfo: speaker.SourceInfo{
			OriginalSource: "eventraptor",
			SourceURL:      doc.URL,
			ScrapedAt:      doc.ScrapedAt.Time(),
			SourceID:       localID,
		},
	}, nil
}
