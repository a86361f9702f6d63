package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"lectern/internal/speaker"
	"lectern/internal/store"
)

const (
	// topTopicsLimit is how many mapped topics the verify report ranks.
	topTopicsLimit = 20
	// topUnmappedLimit is how many unmapped raw topics it ranks.
	topUnmappedLimit = 10
	// sampleLimit is how many unified profiles it prints in full.
	sampleLimit = 3
	// sampleTopicLimit caps the topics shown per sample profile.
	sampleTopicLimit = 5
)

// VerifyReport is the post-run snapshot rendered by lectern verify.
type VerifyReport struct {
	Total     int64
	Sources   []store.SourceCount
	Coverage  store.Coverage
	TopTopics []store.TopicCount
	Unmapped  []store.TopicCount
	Samples   []speaker.Profile
}

// BuildVerify queries the unified store for the distribution, coverage,
// and topic rankings the verify report presents.
func BuildVerify(ctx context.Context, st store.Store) (VerifyReport, error) {
	var rep VerifyReport
	total, err := st.Count(ctx)
	if err != nil {
		return VerifyReport{}, fmt.Errorf("count speakers: %w", err)
	}
	rep.Total = total
	if total == 0 {
		return rep, nil
	}

	if rep.Sources, err = st.CountBySource(ctx); err != nil {
		return VerifyReport{}, fmt.Errorf("count by source: %w", err)
	}
	if rep.Coverage, err = st.FieldCoverage(ctx); err != nil {
		return VerifyReport{}, fmt.Errorf("load field coverage: %w", err)
	}
	if rep.TopTopics, err = st.TopTopics(ctx, topTopicsLimit); err != nil {
		return VerifyReport{}, fmt.Errorf("rank topics: %w", err)
	}
	if rep.Unmapped, err = st.TopUnmapped(ctx, topUnmappedLimit); err != nil {
		return VerifyReport{}, fmt.Errorf("rank unmapped topics: %w", err)
	}
	if rep.Samples, err = st.Samples(ctx, sampleLimit); err != nil {
		return VerifyReport{}, fmt.Errorf("load sample speakers: %w", err)
	}
	return rep, nil
}

// RenderVerify writes the human-readable form of a verify report.
func RenderVerify(w io.Writer, rep VerifyReport, colorize bool) {
	for _, line := range renderSectionHeader("Unified Speakers", colorize) {
		fmt.Fprintln(w, line)
	}
	if rep.Total == 0 {
		fmt.Fprintln(w, renderStatusLine("Total", statusWarn, "store is empty (run 'lectern run' first)", colorize))
		return
	}
	fmt.Fprintln(w, renderStatusLine("Total", statusOK, fmt.Sprintf("%s profiles", humanize.Comma(rep.Total)), colorize))
	fmt.Fprintln(w)

	for _, line := range renderSectionHeader("Source Distribution", colorize) {
		fmt.Fprintln(w, line)
	}
	sourceRows := make([][]string, 0, len(rep.Sources))
	for _, src := range rep.Sources {
		sourceRows = append(sourceRows, []string{src.Source, humanize.Comma(src.Count)})
	}
	fmt.Fprintln(w, renderTable([]string{"Source", "Speakers"}, sourceRows, []columnAlignment{alignLeft, alignRight}))
	fmt.Fprintln(w)

	for _, line := range renderSectionHeader("Field Coverage", colorize) {
		fmt.Fprintln(w, line)
	}
	coverageRows := [][]string{
		coverageRow("Biography", rep.Coverage.Biography, rep.Total),
		coverageRow("Location", rep.Coverage.City, rep.Total),
		coverageRow("Topics", rep.Coverage.Topics, rep.Total),
		coverageRow("Profile image", rep.Coverage.Image, rep.Total),
	}
	fmt.Fprintln(w, renderTable([]string{"Field", "Speakers", "Coverage"}, coverageRows, []columnAlignment{alignLeft, alignRight, alignRight}))
	fmt.Fprintln(w)

	for _, line := range renderSectionHeader("Top Topics", colorize) {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, renderTopicTable("Topic", rep.TopTopics))
	fmt.Fprintln(w)

	for _, line := range renderSectionHeader("Unmapped Topics", colorize) {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, renderTopicTable("Raw Topic", rep.Unmapped))
	fmt.Fprintln(w)

	for _, line := range renderSectionHeader("Sample Speakers", colorize) {
		fmt.Fprintln(w, line)
	}
	for i, sample := range rep.Samples {
		renderSample(w, i+1, sample)
	}
}

func coverageRow(field string, count, total int64) []string {
	return []string{field, humanize.Comma(count), coveragePercent(count, total)}
}

func coveragePercent(count, total int64) string {
	if total <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(count)/float64(total)*100)
}

func renderTopicTable(header string, topics []store.TopicCount) string {
	if len(topics) == 0 {
		return statusIndent + "none recorded"
	}
	rows := make([][]string, 0, len(topics))
	for _, topic := range topics {
		rows = append(rows, []string{topic.Topic, humanize.Comma(topic.Count)})
	}
	return renderTable([]string{header, "Speakers"}, rows, []columnAlignment{alignLeft, alignRight})
}

func renderSample(w io.Writer, n int, sample speaker.Profile) {
	fmt.Fprintf(w, "%s%d. %s\n", statusIndent, n, sample.Name)
	if sample.SourceInfo.OriginalSource != "" {
		fmt.Fprintf(w, "%s   Source: %s\n", statusIndent, sample.SourceInfo.OriginalSource)
	}
	if len(sample.Topics) > 0 {
		topics := sample.Topics
		if len(topics) > sampleTopicLimit {
			topics = topics[:sampleTopicLimit]
		}
		fmt.Fprintf(w, "%s   Topics: %s\n", statusIndent, strings.Join(topics, ", "))
	}
	if sample.Location.HasCity() {
		parts := []string{sample.Location.City}
		if sample.Location.Country != "" {
			parts = append(parts, sample.Location.Country)
		}
		fmt.Fprintf(w, "%s   Location: %s\n", statusIndent, strings.Join(parts, ", "))
	}
}
