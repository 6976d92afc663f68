// Package parquet exports change risk reports to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/mergerisk/mergerisk/schema"
)

// ChangeRiskRow represents one annotated change in a report export.
type ChangeRiskRow struct {
	// Repo is the owner/repo slug the report was generated for
	Repo string `parquet:"repo,snappy"`

	// Number is the pull request number
	Number int32 `parquet:"number,snappy"`

	// Title is the pull request title
	Title string `parquet:"title,snappy"`

	// Author is the login of the author
	Author string `parquet:"author,snappy"`

	// Score is the final risk score in [0,1]
	Score float64 `parquet:"score,snappy"`

	// Assessment tells whether the score is formula or qualitative
	Assessment string `parquet:"assessment,snappy"`

	// Additions and Deletions are the changed line counts
	Additions int32 `parquet:"additions,snappy"`
	Deletions int32 `parquet:"deletions,snappy"`

	// ChangedFiles is the number of files touched
	ChangedFiles int32 `parquet:"changed_files,snappy"`

	// CreatedAt and MergedAt bound the change's lifetime
	CreatedAt time.Time `parquet:"created_at,snappy"`
	MergedAt  time.Time `parquet:"merged_at,snappy"`

	// Reasoning is the qualitative narrative (nullable, formula rows have none)
	Reasoning *string `parquet:"reasoning,optional,snappy"`

	// Factors joins the qualitative risk factors (nullable)
	Factors *string `parquet:"factors,optional,snappy"`

	// GeneratedAt is when the report was assembled
	GeneratedAt time.Time `parquet:"generated_at,snappy"`
}

// RowsFromReport flattens a report into export rows, one per record.
func RowsFromReport(report *schema.Report) []ChangeRiskRow {
	rows := make([]ChangeRiskRow, 0, len(report.Records))
	for _, r := range report.Records {
		row := ChangeRiskRow{
			Repo:         report.Repo,
			Number:       int32(r.Number),
			Title:        r.Title,
			Author:       r.Author,
			Score:        r.RiskScore(),
			Assessment:   string(r.Assessment.Kind),
			Additions:    int32(r.Additions),
			Deletions:    int32(r.Deletions),
			ChangedFiles: int32(r.ChangedFiles),
			CreatedAt:    r.CreatedAt,
			MergedAt:     r.MergedAt,
			GeneratedAt:  report.GeneratedAt,
		}
		if r.HasQualitative() {
			analysis := r.Assessment.Qualitative
			reasoning := analysis.Reasoning
			row.Reasoning = &reasoning
			if len(analysis.Factors) > 0 {
				factors := strings.Join(analysis.Factors, "; ")
				row.Factors = &factors
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteReportParquet writes report rows to a Parquet file.
func WriteReportParquet(rows []ChangeRiskRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Schema is inferred from the ChangeRiskRow struct tags
	writer := parquet.NewGenericWriter[ChangeRiskRow](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}
