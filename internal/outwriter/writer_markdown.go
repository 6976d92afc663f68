package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/mergerisk/mergerisk/internal/contract"
	"github.com/mergerisk/mergerisk/schema"
)

// writeReportMarkdown renders the full markdown report: a summary, a ranked
// table, and one section per escalated record.
func writeReportMarkdown(w io.Writer, report *schema.Report, cfg *contract.Config, fmtFloat func(float64) string) error {
	fmt.Fprintf(w, "# Change Risk Report: %s\n\n", report.Repo)
	fmt.Fprintf(w, "Generated %s for changes merged since %s.\n\n",
		report.GeneratedAt.Format("2006-01-02 15:04"), report.Since.Format("2006-01-02"))
	fmt.Fprintf(w, "- Changes analyzed: %d\n", len(report.Records))
	fmt.Fprintf(w, "- Escalation threshold: %s\n", fmtFloat(report.Threshold))
	fmt.Fprintf(w, "- Eligible for review: %d\n", report.Eligible)
	fmt.Fprintf(w, "- Reviewed qualitatively: %d\n\n", report.Escalated)

	ranked := rankedForDisplay(report, cfg)

	fmt.Fprintln(w, "## Ranked changes")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Rank | PR | Title | Author | Score | Label | Source |")
	fmt.Fprintln(w, "|------|----|-------|--------|-------|-------|--------|")
	for i, r := range ranked {
		fmt.Fprintf(w, "| %d | #%d | %s | %s | %s | %s | %s |\n",
			i+1,
			r.Number,
			escapeMarkdown(r.Title),
			r.Author,
			fmtFloat(r.RiskScore()),
			contract.GetPlainLabel(r.RiskScore()),
			r.Assessment.Kind,
		)
	}
	fmt.Fprintln(w)

	for _, r := range ranked {
		if !r.HasQualitative() {
			continue
		}
		writeMarkdownSection(w, r, fmtFloat)
	}
	return nil
}

// writeMarkdownSection renders one escalated record's analysis.
func writeMarkdownSection(w io.Writer, r *schema.ChangeRecord, fmtFloat func(float64) string) {
	analysis := r.Assessment.Qualitative

	fmt.Fprintf(w, "## #%d %s\n\n", r.Number, escapeMarkdown(r.Title))
	fmt.Fprintf(w, "**Score:** %s (%s) | **Author:** %s | **Size:** +%d/-%d across %d files\n\n",
		fmtFloat(analysis.Score), contract.GetPlainLabel(analysis.Score),
		r.Author, r.Additions, r.Deletions, r.ChangedFiles)
	fmt.Fprintf(w, "%s\n\n", analysis.Reasoning)

	if len(analysis.Factors) > 0 {
		fmt.Fprintln(w, "**Risk factors**")
		fmt.Fprintln(w)
		for _, f := range analysis.Factors {
			fmt.Fprintf(w, "- %s\n", f)
		}
		fmt.Fprintln(w)
	}
	if len(analysis.Concerns) > 0 {
		fmt.Fprintln(w, "**Concerns**")
		fmt.Fprintln(w)
		for _, c := range analysis.Concerns {
			fmt.Fprintf(w, "- %s\n", c)
		}
		fmt.Fprintln(w)
	}
	if len(analysis.Recommendations) > 0 {
		fmt.Fprintln(w, "**Recommendations**")
		fmt.Fprintln(w)
		for _, rec := range analysis.Recommendations {
			fmt.Fprintf(w, "- %s\n", rec)
		}
		fmt.Fprintln(w)
	}
}

// escapeMarkdown neutralizes pipe characters that would break table cells.
func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
