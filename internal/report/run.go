package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"lectern/internal/ingest"
)

// RenderRun writes the closing summary of an ingestion run: the per-source
// tallies followed by the overall figures. total is the store count after
// the run, not the run's own arithmetic, so drift between the two surfaces
// here.
func RenderRun(w io.Writer, summary ingest.Summary, total int64, colorize bool) {
	for _, line := range renderSectionHeader("Run Complete", colorize) {
		fmt.Fprintln(w, line)
	}

	rows := make([][]string, 0, len(summary.Sources))
	for _, src := range summary.Sources {
		rows = append(rows, []string{
			src.Source,
			humanize.Comma(int64(src.Read)),
			humanize.Comma(int64(src.New)),
			humanize.Comma(int64(src.Updated)),
			humanize.Comma(int64(src.Skipped)),
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"Source", "Read", "New", "Updated", "Skipped"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
	))
	fmt.Fprintln(w)

	totals := summary.Totals()
	fmt.Fprintf(w, "%-10s: %s\n", "Ingested", humanize.Comma(int64(totals.Ingested)))
	fmt.Fprintf(w, "%-10s: %s\n", "New", humanize.Comma(int64(totals.New)))
	fmt.Fprintf(w, "%-10s: %s\n", "Updated", humanize.Comma(int64(totals.Updated)))
	fmt.Fprintf(w, "%-10s: %s\n", "Total now", humanize.Comma(total))
}
