package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"lectern/internal/speaker"
	"lectern/internal/topics"
)

type rawFreeSpeakerDoc struct {
	ID               flexString  `json:"_id"`
	Name             string      `json:"name"`
	Role             string      `json:"role"`
	Biography        string      `json:"biography"`
	Location         rawLocation `json:"location"`
	AreasOfExpertise []string    `json:"areas_of_expertise"`
	SpeakingTopics   []string    `json:"speaking_topics"`
	ImageURL         string      `json:"image_url"`
	ContactInfo      struct {
		Phone string `json:"phone"`
	} `json:"contact_info"`
	Website    string   `json:"website"`
	ProfileURL string   `json:"profile_url"`
	ScrapedAt  flexTime `json:"scraped_at"`
}

func normalizeFreeSpeakerBureau(catalog *topics.Catalog, raw json.RawMessage) (speaker.Profile, error) {
	var doc rawFreeSpeakerDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return speaker.Profile{}, fmt.Errorf("decode freespeakerbureau document: %w", err)
	}
	localID := doc.ID.String()
	if localID == "" {
		return speaker.Profile{}, errors.New("freespeakerbureau document missing _id")
	}

	labels := append(append([]string(nil), doc.AreasOfExpertise...), doc.SpeakingTopics...)
	mapped, unmapped := catalog.Normalize(labels)

	return speaker.Profile{
		ID:             speaker.ID("freespeaker", localID),
		Name:           CleanName(doc.Name),
		DisplayName:    strings.TrimSpace(doc.Name),
		JobTitle:       doc.Role,
		Biography:      doc.Biography,
		Location:       doc.Location.Location(),
		Topics:         mapped,
		Categories:     mapped,
		TopicsUnmapped: unmapped,
		Contact: speaker.Contact{
			Phone:   doc.ContactInfo.Phone,
			Website: doc.Website,
		},
		Media: speaker.Media{
			ProfileImage: doc.ImageURL,
		},
		SourceInfo: speaker.SourceInfo{
			OriginalSource: "freespeakerbureau",
			SourceURL:      doc.ProfileURL,
			ScrapedAt:      doc.ScrapedAt.Time(),
			SourceID:       localID,
		},
	}, nil
}
