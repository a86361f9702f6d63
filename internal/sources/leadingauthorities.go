package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"lectern/internal/speaker"
	"lectern/internal/topics"
)

type rawLeadingAuthDoc struct {
	ID             flexString      `json:"_id"`
	Name           string          `json:"name"`
	JobTitle       string          `json:"job_title"`
	Description    string          `json:"description"`
	SpeakerFees    json.RawMessage `json:"speaker_fees"`
	TopicsAndTypes []rawNamedTopic `json:"topics_and_types"`
	Books          json.RawMessage `json:"books_and_publications"`
	ImageURL       string          `json:"speaker_image_url"`
	Videos         json.RawMessage `json:"videos"`
	PageURL        string          `json:"speaker_page_url"`
	ScrapedAt      flexTime        `json:"scraped_at"`
}

// normalizeLeadingAuthorities maps Leading Authorities documents. The
// profile page URL is the only stable local identity the export offers,
// so it doubles as the identity hash input.
func normalizeLeadingAuthorities(catalog *topics.Catalog, raw json.RawMessage) (speaker.Profile, error) {
	var doc rawLeadingAuthDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return speaker.Profile{}, fmt.Errorf("decode leadingauthorities document: %w", err)
	}
	if doc.PageURL == "" {
		return speaker.Profile{}, errors.New("leadingauthorities document missing speaker_page_url")
	}

	labels := make([]string, 0, len(doc.TopicsAndTypes))
	for _, topic := range doc.TopicsAndTypes {
		labels = append(labels, topic.Name)
	}
	mapped, unmapped := catalog.Normalize(labels)

	return speaker.Profile{
		ID:          speaker.ID("leadingauth", doc.PageURL),
		Name:        CleanName(doc.Name),
		DisplayName: strings.TrimSpace(doc.Name),
		JobTitle:    doc.JobTitle,
		Description: doc.Description,
		Biography:   doc.Description,
		SpeakingInfo: speaker.SpeakingInfo{
			FeeRanges: rawValue(doc.SpeakerFees),
		},
		Topics:         mapped,
		Categories:     mapped,
		TopicsUnmapped: unmapped,
		Books:          rawValue(doc.Books),
		Media: speaker.Media{
			ProfileImage: doc.ImageURL,
			Videos:       rawValue(doc.Videos),
		},
		SourceInfo: speaker.SourceInfo{
			OriginalSource: "leadingauthorities",
			SourceURL:      doc.PageURL,
			ScrapedAt:      doc.ScrapedAt.Time(),
			SourceID:       doc.ID.String(),
		},
	}, nil
}
