package parquet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergerisk/mergerisk/schema"
)

func sampleReport() *schema.Report {
	created := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	return &schema.Report{
		Repo:        "acme/widgets",
		GeneratedAt: created.Add(72 * time.Hour),
		Threshold:   0.5,
		Records: []*schema.ChangeRecord{
			{
				Number:       1,
				Title:        "Tweak docs",
				Author:       "kim",
				Additions:    5,
				Deletions:    1,
				ChangedFiles: 1,
				CreatedAt:    created,
				MergedAt:     created.Add(time.Hour),
				Assessment:   &schema.RiskAssessment{Kind: schema.FormulaAssessment, Score: 0.21},
			},
			{
				Number:       2,
				Title:        "Rework checkout",
				Author:       "sam",
				Additions:    900,
				Deletions:    300,
				ChangedFiles: 18,
				CreatedAt:    created,
				MergedAt:     created.Add(90 * time.Hour),
				Assessment: &schema.RiskAssessment{
					Kind:  schema.QualitativeAssessment,
					Score: 0.85,
					Qualitative: &schema.QualitativeAnalysis{
						Score:     0.85,
						Factors:   []string{"payment path", "no tests"},
						Reasoning: "high blast radius",
					},
				},
			},
		},
	}
}

// TestRowsFromReport flattens records with qualitative details when present.
func TestRowsFromReport(t *testing.T) {
	rows := RowsFromReport(sampleReport())

	require.Len(t, rows, 2)

	assert.Equal(t, "acme/widgets", rows[0].Repo)
	assert.Equal(t, int32(1), rows[0].Number)
	assert.Equal(t, string(schema.FormulaAssessment), rows[0].Assessment)
	assert.Nil(t, rows[0].Reasoning)
	assert.Nil(t, rows[0].Factors)

	assert.Equal(t, string(schema.QualitativeAssessment), rows[1].Assessment)
	require.NotNil(t, rows[1].Reasoning)
	assert.Equal(t, "high blast radius", *rows[1].Reasoning)
	require.NotNil(t, rows[1].Factors)
	assert.Equal(t, "payment path; no tests", *rows[1].Factors)
}

// TestWriteReportParquet writes a real file to disk.
func TestWriteReportParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.parquet")

	require.NoError(t, WriteReportParquet(RowsFromReport(sampleReport()), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
