package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"lectern/internal/speaker"
	"lectern/internal/topics"
)

type rawBigSpeakDoc struct {
	SpeakerID   flexString `json:"speaker_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Location    struct {
		TravelsFrom string `json:"travels_from"`
	} `json:"location"`
	FeeRange   flexString      `json:"fee_range"`
	Topics     []rawNamedTopic `json:"topics"`
	ImageURL   string          `json:"image_url"`
	ProfileURL string          `json:"profile_url"`
	ScrapedAt  flexTime        `json:"scraped_at"`
}

type rawNamedTopic struct {
	Name string `json:"name"`
}

func normalizeBigSpeak(catalog *topics.Catalog, raw json.RawMessage) (speaker.Profile, error) {
	var doc rawBigSpeakDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return speaker.Profile{}, fmt.Errorf("decode bigspeak document: %w", err)
	}
	localID := doc.SpeakerID.String()
	if localID == "" {
		return speaker.Profile{}, errors.New("bigspeak document missing speaker_id")
	}

	labels := make([]string, 0, len(doc.Topics))
	for _, topic := range doc.Topics {
		labels = append(labels, topic.Name)
	}
	mapped, unmapped := catalog.Normalize(labels)

	return speaker.Profile{
		ID:          speaker.ID("bigspeak", localID),
		Name:        CleanName(doc.Name),
		DisplayName: strings.TrimSpace(doc.Name),
		Description: doc.Description,
		Biography:   doc.Description,
		Location:    ParseLocation(doc.Location.TravelsFrom),
		SpeakingInfo: speaker.SpeakingInfo{
			FeeRanges: liveEventFees(doc.FeeRange.String()),
		},
		Topics:         mapped,
		Categories:     mapped,
		TopicsUnmapped: unmapped,
		Media: speaker.Media{
			ProfileImage: doc.ImageURL,
		},
		SourceInfo: speaker.SourceInfo{
			OriginalSource: "bigspeak",
			SourceURL:      doc.ProfileURL,
			ScrapedAt:      doc.ScrapedAt.Time(),
			SourceID:       localID,
		},
	}, nil
}
