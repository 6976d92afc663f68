package outwriter

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/mergerisk/mergerisk/internal/contract"
	"github.com/mergerisk/mergerisk/schema"
)

// rankedForDisplay returns a copy of the report's records sorted by score in
// descending order and cut to the result limit. The report itself keeps its
// fetch order untouched.
func rankedForDisplay(report *schema.Report, cfg *contract.Config) []*schema.ChangeRecord {
	ranked := make([]*schema.ChangeRecord, len(report.Records))
	copy(ranked, report.Records)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].RiskScore() != ranked[j].RiskScore() {
			return ranked[i].RiskScore() > ranked[j].RiskScore()
		}
		return ranked[i].Number < ranked[j].Number
	})
	if cfg.ResultLimit > 0 && len(ranked) > cfg.ResultLimit {
		ranked = ranked[:cfg.ResultLimit]
	}
	return ranked
}

// writeReportTable generates and writes the human-readable table, followed
// by qualitative detail sections for escalated records.
func writeReportTable(w io.Writer, report *schema.Report, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	fmt.Fprintf(w, "Change risk for %s (merged since %s)\n\n", report.Repo, report.Since.Format("2006-01-02"))

	ranked := rankedForDisplay(report, cfg)

	table := tablewriter.NewWriter(w)

	// 1. Define headers
	headers := []string{"Rank", "PR", "Title", "Author", "Score", "Label", "Source"}
	if cfg.Detail {
		headers = append(headers, "Lines", "Files", "Merge Time")
	}
	if cfg.Explain {
		headers = append(headers, "Explain")
	}
	table.Header(headers)

	// 2. Right-align numeric-heavy rows to match a minimal look
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate rows
	maxTitle := getMaxTitleWidth(cfg.Width)
	var data [][]string
	for i, r := range ranked {
		row := []string{
			strconv.Itoa(i + 1),
			"#" + strconv.Itoa(r.Number),
			contract.TruncateTitle(r.Title, maxTitle),
			r.Author,
			fmtFloat(r.RiskScore()),
			contract.GetColorLabel(r.RiskScore()),
			string(r.Assessment.Kind),
		}
		if cfg.Detail {
			row = append(
				row,
				fmt.Sprintf("+%d/-%d", r.Additions, r.Deletions), // Lines
				fmt.Sprintf(intFmt, r.ChangedFiles),              // Files
				r.MergeLatency().Round(time.Hour).String(),       // Merge Time
			)
		}
		if cfg.Explain {
			row = append(row, formatExplain(r, fmtFloat))
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// 5. Qualitative sections for escalated records, in ranked order
	for _, r := range ranked {
		if !r.HasQualitative() {
			continue
		}
		writeQualitativeSection(w, r, fmtFloat)
	}

	fmt.Fprintf(w, "\nShowing top %d of %d changes (%d eligible, %d escalated, threshold %s)\n",
		len(ranked), len(report.Records), report.Eligible, report.Escalated, fmtFloat(report.Threshold))
	fmt.Fprintf(w, "Report completed in %v\n", duration.Round(time.Millisecond))
	return nil
}

// writeQualitativeSection prints the narrative parts of one escalated record.
func writeQualitativeSection(w io.Writer, r *schema.ChangeRecord, fmtFloat func(float64) string) {
	analysis := r.Assessment.Qualitative
	fmt.Fprintf(w, "\n#%d %s (score %s)\n", r.Number, r.Title, fmtFloat(analysis.Score))
	fmt.Fprintf(w, "  Reasoning: %s\n", analysis.Reasoning)
	if len(analysis.Factors) > 0 {
		fmt.Fprintf(w, "  Factors: %s\n", strings.Join(analysis.Factors, "; "))
	}
	for _, c := range analysis.Concerns {
		fmt.Fprintf(w, "  Concern: %s\n", c)
	}
	for _, rec := range analysis.Recommendations {
		fmt.Fprintf(w, "  Recommendation: %s\n", rec)
	}
}

// formatExplain summarizes why a record scored the way it did: breakdown
// terms for formula scores, top factors for qualitative ones.
func formatExplain(r *schema.ChangeRecord, fmtFloat func(float64) string) string {
	if r.HasQualitative() {
		factors := r.Assessment.Qualitative.Factors
		if len(factors) > 2 {
			factors = factors[:2]
		}
		if len(factors) == 0 {
			return "-"
		}
		return strings.Join(factors, "; ")
	}

	keys := []schema.BreakdownKey{
		schema.BreakdownLines,
		schema.BreakdownFiles,
		schema.BreakdownNoTests,
		schema.BreakdownSlowMerge,
	}
	var parts []string
	for _, k := range keys {
		if v, ok := r.Assessment.Breakdown[k]; ok && v > 0 {
			parts = append(parts, fmt.Sprintf("%s=%s", k, fmtFloat(v)))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}
