package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"lectern/internal/speaker"
	"lectern/internal/topics"
)

type rawSpeakerHubDoc struct {
	ID                flexString      `json:"_id"`
	Name              string          `json:"name"`
	JobTitle          string          `json:"job_title"`
	ProfessionalTitle string          `json:"professional_title"`
	FullBio           string          `json:"full_bio"`
	BioSummary        string          `json:"bio_summary"`
	City              string          `json:"city"`
	StateProvince     string          `json:"state_province"`
	State             string          `json:"state"`
	Country           string          `json:"country"`
	SpeakerFees       json.RawMessage `json:"speaker_fees"`
	FeeRange          json.RawMessage `json:"fee_range"`
	TopicCategories   []string        `json:"topic_categories"`
	Topics            []string        `json:"topics"`
	ProfilePictureURL string          `json:"profile_picture_url"`
	ProfilePicture    string          `json:"profile_picture"`
	ProfileURL        string          `json:"profile_url"`
	ScrapedAt         flexTime        `json:"scraped_at"`
}

// normalizeSpeakerHub maps SpeakerHub documents. Location arrives as
// separate city/state/country columns and is rebuilt into the display
// string the shared parser expects.
func normalizeSpeakerHub(catalog *topics.Catalog, raw json.RawMessage) (speaker.Profile, error) {
	var doc rawSpeakerHubDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return speaker.Profile{}, fmt.Errorf("decode speakerhub document: %w", err)
	}
	if doc.ID.String() == "" {
		return speaker.Profile{}, errors.New("speakerhub document missing _id")
	}

	labels := append(append([]string(nil), doc.TopicCategories...), doc.Topics...)
	mapped, unmapped := catalog.Normalize(labels)

	location := joinNonEmpty(", ", doc.City, firstNonEmpty(doc.StateProvince, doc.State), doc.Country)

	return speaker.Profile{
		ID:          speaker.ID("speakerhub", doc.ID.String()),
		Name:        CleanName(doc.Name),
		DisplayName: strings.TrimSpace(doc.Name),
		JobTitle:    firstNonEmpty(doc.JobTitle, doc.ProfessionalTitle),
		Biography:   firstNonEmpty(doc.FullBio, doc.BioSummary),
		Location:    ParseLocation(location),
		SpeakingInfo: speaker.SpeakingInfo{
			FeeRanges: firstRawValue(doc.SpeakerFees, doc.FeeRange),
		},
		Topics:         mapped,
		Categories:     mapped,
		TopicsUnmapped: unmapped,
		Media: speaker.Media{
			ProfileImage: firstNonEmpty(doc.ProfilePictureURL, doc.ProfilePicture),
		},
		SourceInfo: speaker.SourceInfo{
			OriginalSource: "speakerhub",
			SourceURL:      doc.ProfileURL,
			ScrapedAt:      doc.ScrapedAt.Time(),
			SourceID:       doc.ID.String(),
		},
	}, nil
}
