package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"lectern/internal/speaker"
	"lectern/internal/topics"
)

type rawSessionizeDoc struct {
	ID        flexString `json:"_id"`
	Username  string     `json:"username"`
	Name      string     `json:"name"`
	BasicInfo struct {
		Name           string `json:"name"`
		Tagline        string `json:"tagline"`
		Bio            string `json:"bio"`
		Location       string `json:"location"`
		ProfilePicture string `json:"profile_picture"`
		URL            string `json:"url"`
		Username       string `json:"username"`
	} `json:"basic_info"`
	ProfessionalInfo struct {
		Topics []string `json:"topics"`
	} `json:"professional_info"`
	Metadata struct {
		ScrapedAt flexTime `json:"scraped_at"`
	} `json:"metadata"`
}

// normalizeSessionize maps Sessionize documents. The username is the
// local identity, falling back through the top-level username and the
// raw _id for older export layouts.
func normalizeSessionize(catalog *topics.Catalog, raw json.RawMessage) (speaker.Profile, error) {
	var doc rawSessionizeDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return speaker.Profile{}, fmt.Errorf("decode sessionize document: %w", err)
	}

	username := firstNonEmpty(doc.BasicInfo.Username, doc.Username, doc.ID.String())
	if username == "" {
		return speaker.Profile{}, errors.New("sessionize document missing username")
	}
	name := firstNonEmpty(doc.BasicInfo.Name, doc.Name)
	mapped, unmapped := catalog.Normalize(doc.ProfessionalInfo.Topics)

	return speaker.Profile{
		ID:             speaker.ID("sessionize", username),
		Name:           CleanName(name),
		DisplayName:    strings.TrimSpace(name),
		Tagline:        doc.BasicInfo.Tagline,
		Biography:      doc.BasicInfo.Bio,
		Location:       ParseLocation(doc.BasicInfo.Location),
		Topics:         mapped,
		Categories:     mapped,
		TopicsUnmapped: unmapped,
		Media: speaker.Media{
			ProfileImage: doc.BasicInfo.ProfilePicture,
		},
		SourceInfo: speaker.SourceInfo{
			OriginalSource: "sessionize",
			SourceURL:      doc.BasicInfo.URL,
			ScrapedAt:      doc.Metadata.ScrapedAt.Time(),
			SourceID:       username,
		},
	}, nil
}
