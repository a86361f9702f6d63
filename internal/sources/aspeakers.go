package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"lectern/internal/speaker"
	"lectern/internal/topics"
)

type rawASpeakersDoc struct {
	ID            flexString      `json:"_id"`
	Name          string          `json:"name"`
	JobTitle      string          `json:"job_title"`
	Description   string          `json:"description"`
	FullBio       string          `json:"full_bio"`
	Location      rawLocation     `json:"location"`
	FeeRange      flexString      `json:"fee_range"`
	Languages     string          `json:"languages"`
	Topics        []string        `json:"topics"`
	Keynotes      json.RawMessage `json:"keynotes"`
	Reviews       json.RawMessage `json:"reviews"`
	AverageRating json.RawMessage `json:"average_rating"`
	TotalReviews  json.RawMessage `json:"total_reviews"`
	ImageURL      string          `json:"image_url"`
	Videos        json.RawMessage `json:"videos"`
	URL           string          `json:"url"`
	ScrapedAt     flexTime        `json:"scraped_at"`
}

func normalizeASpeakers(catalog *topics.Catalog, raw json.RawMessage) (speaker.Profile, error) {
	var doc rawASpeakersDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return speaker.Profile{}, fmt.Errorf("decode a_speakers document: %w", err)
	}
	localID := doc.ID.String()
	if localID == "" {
		return speaker.Profile{}, errors.New("a_speakers document missing _id")
	}

	mapped, unmapped := catalog.Normalize(doc.Topics)
	profile := speaker.Profile{
		ID:          speaker.ID("a_speakers", localID),
		Name:        CleanName(doc.Name),
		DisplayName: strings.TrimSpace(doc.Name),
		JobTitle:    doc.JobTitle,
		Description: doc.Description,
		Biography:   doc.FullBio,
		Location:    doc.Location.Location(),
		SpeakingInfo: speaker.SpeakingInfo{
			FeeRanges: liveEventFees(doc.FeeRange.String()),
		},
		Topics:         mapped,
		Categories:     mapped,
		TopicsUnmapped: unmapped,
		Keynotes:       rawValue(doc.Keynotes),
		Reviews:        rawValue(doc.Reviews),
		Ratings:        ratingsDocument(doc.AverageRating, doc.TotalReviews),
		Media: speaker.Media{
			ProfileImage: doc.ImageURL,
			Videos:       rawValue(doc.Videos),
		},
		SourceInfo: speaker.SourceInfo{
			OriginalSource: "a_speakers",
			SourceURL:      doc.URL,
			ScrapedAt:      doc.ScrapedAt.Time(),
			SourceID:       localID,
		},
	}
	if doc.Languages != "" {
		profile.SpeakingInfo.Languages = []string{doc.Languages}
	}
	return profile, nil
}
