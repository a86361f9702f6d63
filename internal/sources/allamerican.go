package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"lectern/internal/speaker"
	"lectern/internal/topics"
)

type rawAllAmericanDoc struct {
	SpeakerID      flexString      `json:"speaker_id"`
	Name           string          `json:"name"`
	JobTitle       string          `json:"job_title"`
	Biography      string          `json:"biography"`
	Location       rawLocation     `json:"location"`
	FeeRange       json.RawMessage `json:"fee_range"`
	Categories     []string        `json:"categories"`
	SpeakingTopics json.RawMessage `json:"speaking_topics"`
	Images         []rawImage      `json:"images"`
	Videos         json.RawMessage `json:"videos"`
	Rating         json.RawMessage `json:"rating"`
	Reviews        json.RawMessage `json:"reviews"`
	URL            string          `json:"url"`
	ScrapedAt      flexTime        `json:"scraped_at"`
}

type rawTitledTopic struct {
	Title string `json:"title"`
}

type rawImage struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

func normalizeAllAmerican(catalog *topics.Catalog, raw json.RawMessage) (speaker.Profile, error) {
	var doc rawAllAmericanDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return speaker.Profile{}, fmt.Errorf("decode allamericanspeakers document: %w", err)
	}
	localID := doc.SpeakerID.String()
	if localID == "" {
		return speaker.Profile{}, errors.New("allamericanspeakers document missing speaker_id")
	}

	// speaking_topics contributes its titles to the topic labels and
	// passes through whole as the keynote list.
	var speakingTopics []rawTitledTopic
	_ = json.Unmarshal(doc.SpeakingTopics, &speakingTopics)

	labels := append([]string(nil), doc.Categories...)
	for _, topic := range speakingTopics {
		labels = append(labels, topic.Title)
	}
	mapped, unmapped := catalog.Normalize(labels)

	profileImage := ""
	for _, image := range doc.Images {
		if image.Type == "profile" {
			profileImage = image.URL
			break
		}
	}

	return speaker.Profile{
		ID:          speaker.ID("allamerican", localID),
		Name:        CleanName(doc.Name),
		DisplayName: strings.TrimSpace(doc.Name),
		JobTitle:    doc.JobTitle,
		Biography:   doc.Biography,
		Location:    doc.Location.Location(),
		SpeakingInfo: speaker.SpeakingInfo{
			FeeRanges: rawValue(doc.FeeRange),
		},
		Topics:         mapped,
		Categories:     mapped,
		TopicsUnmapped: unmapped,
		Keynotes:       rawValue(doc.SpeakingTopics),
		Reviews:        rawValue(doc.Reviews),
		Ratings:        rawValue(doc.Rating),
		Media: speaker.Media{
			ProfileImage: profileImage,
			Videos:       rawValue(doc.Videos),
		},
		SourceInfo: speaker.SourceInfo{
			OriginalSource: "allamericanspeakers",
			SourceURL:      doc.URL,
			ScrapedAt:      doc.ScrapedAt.Time(),
			SourceID:       localID,
		},
	}, nil
}
