package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"lectern/internal/speaker"
	"lectern/internal/topics"
)

type rawSpeakerHandbookDoc struct {
	ID          flexString `json:"_id"`
	SpeakerID   flexString `json:"speaker_id"`
	DisplayName string     `json:"display_name"`
	JobTitle    string     `json:"job_title"`
	Biography   string     `json:"biography"`
	TravelsFrom string     `json:"travels_from"`
	HomeCountry string     `json:"home_country"`
	Topics      []string   `json:"topics"`
	ImageURLHD  string     `json:"image_url_hd"`
	ImageURL    string     `json:"image_url"`
	ProfileURL  string     `json:"profile_url"`
	ScrapedAt   flexTime   `json:"scraped_at"`
}

func normalizeSpeakerHandbook(catalog *topics.Catalog, raw json.RawMessage) (speaker.Profile, error) {
	var doc rawSpeakerHandbookDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return speaker.Profile{}, fmt.Errorf("decode thespeakerhandbook document: %w", err)
	}

	localID := firstNonEmpty(doc.SpeakerID.String(), doc.ID.String())
	if localID == "" {
		return speaker.Profile{}, errors.New("thespeakerhandbook document missing speaker_id")
	}
	mapped, unmapped := catalog.Normalize(doc.Topics)

	return speaker.Profile{
		ID:             speaker.ID("tsh", localID),
		Name:           CleanName(doc.DisplayName),
		DisplayName:    strings.TrimSpace(doc.DisplayName),
		JobTitle:       doc.JobTitle,
		Biography:      doc.Biography,
		Location:       ParseLocation(firstNonEmpty(doc.TravelsFrom, doc.HomeCountry)),
		Topics:         mapped,
		Categories:     mapped,
		TopicsUnmapped: unmapped,
		Media: speaker.Media{
			ProfileImage: firstNonEmpty(doc.ImageURLHD, doc.ImageURL),
		},
		SourceInfo: speaker.SourceInfo{
			OriginalSource: "thespeakerhandbook",
			SourceURL:      doc.ProfileURL,
			ScrapedAt:      doc.ScrapedAt.Time(),
			SourceID:       localID,
		},
	}, nil
}
