package speaker

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Merge combines an incoming candidate into an existing profile and returns
// the merged value. Pure: neither argument is mutated, persistence is the
// caller's job.
//
// Policy, applied independently per field:
//   - scalars fill only when the existing value is empty; populated fields
//     are never overwritten
//   - string arrays union, existing order first, new unique items appended,
//     compared case- and whitespace-insensitively
//   - free-form JSON arrays (keynotes, reviews, books, videos) union by
//     element; non-array JSON (ratings, fee_ranges) fills empty only
//   - id, source_info, and created_at always survive from existing
//   - updated_at is set to now
func Merge(existing, incoming Profile, now time.Time) Profile {
	merged := existing

	merged.Name = fillString(existing.Name, incoming.Name)
	merged.DisplayName = fillString(existing.DisplayName, incoming.DisplayName)
	merged.JobTitle = fillString(existing.JobTitle, incoming.JobTitle)
	merged.Description = fillString(existing.Description, incoming.Description)
	merged.Biography = fillString(existing.Biography, incoming.Biography)
	merged.Tagline = fillString(existing.Tagline, incoming.Tagline)

	merged.Location.City = fillString(existing.Location.City, incoming.Location.City)
	merged.Location.State = fillString(existing.Location.State, incoming.Location.State)
	merged.Location.Country = fillString(existing.Location.Country, incoming.Location.Country)
	merged.Location.FullLocation = fillString(existing.Location.FullLocation, incoming.Location.FullLocation)

	merged.SpeakingInfo.FeeRanges = fillJSON(existing.SpeakingInfo.FeeRanges, incoming.SpeakingInfo.FeeRanges)
	merged.SpeakingInfo.Languages = unionStrings(existing.SpeakingInfo.Languages, incoming.SpeakingInfo.Languages)

	merged.Topics = unionStrings(existing.Topics, incoming.Topics)
	merged.Categories = unionStrings(existing.Categories, incoming.Categories)
	merged.TopicsUnmapped = unionStrings(existing.TopicsUnmapped, incoming.TopicsUnmapped)

	merged.Keynotes = unionJSON(existing.Keynotes, incoming.Keynotes)
	merged.Reviews = unionJSON(existing.Reviews, incoming.Reviews)
	merged.Books = unionJSON(existing.Books, incoming.Books)
	merged.Ratings = fillJSON(existing.Ratings, incoming.Ratings)

	merged.Media.ProfileImage = fillString(existing.Media.ProfileImage, incoming.Media.ProfileImage)
	merged.Media.Videos = unionJSON(existing.Media.Videos, incoming.Media.Videos)

	merged.Contact.Email = fillString(existing.Contact.Email, incoming.Contact.Email)
	merged.Contact.Phone = fillString(existing.Contact.Phone, incoming.Contact.Phone)
	merged.Contact.Website = fillString(existing.Contact.Website, incoming.Contact.Website)

	merged.UpdatedAt = now.UTC()

	return merged
}

// fillString keeps existing unless it is blank.
func fillString(existing, incoming string) string {
	if strings.TrimSpace(existing) == "" {
		return incoming
	}
	return existing
}

// unionStrings merges two string lists, deduplicating case- and
// whitespace-insensitively. Existing entries keep their position and their
// original spelling; new unique entries append in incoming order.
func unionStrings(existing, incoming []string) []string {
	if len(existing) == 0 && len(incoming) == 0 {
		return existing
	}
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	merged := make([]string, 0, len(existing)+len(incoming))
	for _, value := range existing {
		key := foldKey(value)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, value)
	}
	for _, value := range incoming {
		key := foldKey(value)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, value)
	}
	return merged
}

// foldKey is the duplicate-comparison key: whitespace collapsed, lowercased.
func foldKey(value string) string {
	return strings.ToLower(strings.Join(strings.Fields(value), " "))
}

// fillJSON keeps existing unless it carries no content.
func fillJSON(existing, incoming json.RawMessage) json.RawMessage {
	if emptyJSON(existing) {
		return incoming
	}
	return existing
}

// unionJSON merges two JSON arrays element-wise, existing first, new unique
// elements appended. Elements compare by their canonical re-encoding. When
// either side is populated but not an array, existing wins, mirroring the
// scalar fill rule.
func unionJSON(existing, incoming json.RawMessage) json.RawMessage {
	if emptyJSON(existing) {
		if emptyJSON(incoming) {
			return existing
		}
		return incoming
	}
	if emptyJSON(incoming) {
		return existing
	}

	var have, add []any
	if err := json.Unmarshal(existing, &have); err != nil {
		return existing
	}
	if err := json.Unmarshal(incoming, &add); err != nil {
		return existing
	}

	seen := make(map[string]struct{}, len(have))
	for _, item := range have {
		seen[jsonKey(item)] = struct{}{}
	}
	grew := false
	for _, item := range add {
		key := jsonKey(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		have = append(have, item)
		grew = true
	}
	if !grew {
		return existing
	}
	merged, err := json.Marshal(have)
	if err != nil {
		return existing
	}
	return merged
}

// jsonKey canonicalizes an element for duplicate comparison. Map keys
// marshal in sorted order, so equal objects produce equal keys.
func jsonKey(item any) string {
	encoded, err := json.Marshal(item)
	if err != nil {
		return fmt.Sprintf("%v", item)
	}
	return string(encoded)
}

// emptyJSON reports whether a raw value carries no content: absent, null,
// or an empty array, object, or string.
func emptyJSON(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "[]", "{}", `""`:
		return true
	}
	return false
}
