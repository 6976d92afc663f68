package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/mergerisk/mergerisk/internal/contract"
	"github.com/mergerisk/mergerisk/internal/parquet"
	"github.com/mergerisk/mergerisk/schema"
)

// WriteReport outputs the annotated report, dispatching on the configured
// output format. The ranked view is a display concern only; the report's
// record slice keeps its fetch order.
func WriteReport(report *schema.Report, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportCSV(w, report, cfg, fmtFloat, intFmt)
		}, "CSV")
	case schema.MarkdownOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportMarkdown(w, report, cfg, fmtFloat)
		}, "markdown")
	case schema.ParquetOut:
		if err := parquet.WriteReportParquet(parquet.RowsFromReport(report), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote parquet to %s\n", cfg.OutputFile)
		return nil
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTable(w, report, cfg, fmtFloat, intFmt, duration)
		}, "table")
	}
}

// writeReportCSV writes one row per record, in ranked order.
func writeReportCSV(w io.Writer, report *schema.Report, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"rank",
		"number",
		"title",
		"author",
		"score",
		"label",
		"assessment",
		"additions",
		"deletions",
		"changed_files",
		"created_at",
		"merged_at",
		"labels",
	}
	ranked := rankedForDisplay(report, cfg)
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for i, r := range ranked {
			row := []string{
				strconv.Itoa(i + 1),
				strconv.Itoa(r.Number),
				r.Title,
				r.Author,
				fmtFloat(r.RiskScore()),
				contract.GetPlainLabel(r.RiskScore()),
				string(r.Assessment.Kind),
				fmt.Sprintf(intFmt, r.Additions),
				fmt.Sprintf(intFmt, r.Deletions),
				fmt.Sprintf(intFmt, r.ChangedFiles),
				r.CreatedAt.Format(contract.TimeFormat),
				r.MergedAt.Format(contract.TimeFormat),
				schema.FormatLabels(r.Labels),
			}
			if err := csvWriter.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
