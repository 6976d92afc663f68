package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergerisk/mergerisk/internal/contract"
	"github.com/mergerisk/mergerisk/schema"
)

func pipelineConfig() *contract.Config {
	return &contract.Config{
		Threshold:   contract.DefaultThreshold,
		Concurrency: contract.DefaultConcurrency,
	}
}

// TestRunPipelineFormulaOnly verifies every record gets a formula assessment
// when no analyzer is present.
func TestRunPipelineFormulaOnly(t *testing.T) {
	records := []*schema.ChangeRecord{
		{Number: 1, Additions: 100, Deletions: 50, ChangedFiles: 3, FilePaths: []string{"a_test.go"}},
		{Number: 2, Additions: 3000, Deletions: 1000, ChangedFiles: 30, FilePaths: []string{"big.go"}},
	}

	out := RunPipeline(context.Background(), records, nil, pipelineConfig(), nil)

	require.Len(t, out, 2)
	for _, r := range out {
		require.NotNil(t, r.Assessment)
		assert.Equal(t, schema.FormulaAssessment, r.Assessment.Kind)
		assert.NotEmpty(t, r.Assessment.Breakdown)
	}
}

// TestRunPipelineThresholdInclusive ensures a record exactly at the threshold
// is escalated.
func TestRunPipelineThresholdInclusive(t *testing.T) {
	// 1000/2000*0.4 = 0.2 exactly, the single contributing term
	record := &schema.ChangeRecord{
		Number:    1,
		Additions: 600,
		Deletions: 400,
		FilePaths: []string{"src/app_test.go"},
	}
	cfg := pipelineConfig()
	cfg.Threshold = 0.2
	analyzer := &stubAnalyzer{}

	out := RunPipeline(context.Background(), []*schema.ChangeRecord{record}, analyzer, cfg, nil)

	assert.Equal(t, int32(1), analyzer.calls)
	assert.Equal(t, schema.QualitativeAssessment, out[0].Assessment.Kind)
}

// TestRunPipelineBelowThresholdSkipped ensures records under the threshold
// never reach the analyzer.
func TestRunPipelineBelowThresholdSkipped(t *testing.T) {
	record := &schema.ChangeRecord{
		Number:       1,
		Additions:    300,
		Deletions:    120,
		ChangedFiles: 14,
		FilePaths:    []string{"src/charge.ts", "src/charge.test.ts"},
	}
	analyzer := &stubAnalyzer{}

	out := RunPipeline(context.Background(), []*schema.ChangeRecord{record}, analyzer, pipelineConfig(), nil)

	assert.Equal(t, int32(0), analyzer.calls)
	assert.Equal(t, schema.FormulaAssessment, out[0].Assessment.Kind)
	assert.InDelta(t, 0.294, out[0].Assessment.Score, 0.0001)
}

// TestRunPipelineScoreOverride ensures the qualitative score replaces the
// formula score outright instead of blending with it.
func TestRunPipelineScoreOverride(t *testing.T) {
	record := &schema.ChangeRecord{
		Number:       7,
		Additions:    2500,
		Deletions:    500,
		ChangedFiles: 25,
		FilePaths:    []string{"src/core.go"},
	}
	analyzer := &stubAnalyzer{}

	out := RunPipeline(context.Background(), []*schema.ChangeRecord{record}, analyzer, pipelineConfig(), nil)

	require.True(t, out[0].HasQualitative())
	assert.InDelta(t, 0.9, out[0].Assessment.Score, 0.0001)
	assert.Equal(t, "touches core payment flow", out[0].Assessment.Qualitative.Reasoning)
}

// TestRunPipelineFailedEscalationKeepsFormula ensures a failed provider call
// leaves that record's formula assessment intact.
func TestRunPipelineFailedEscalationKeepsFormula(t *testing.T) {
	records := []*schema.ChangeRecord{
		{Number: 1, Additions: 2000, ChangedFiles: 20, FilePaths: []string{"a.go"}},
		{Number: 2, Additions: 2000, ChangedFiles: 20, FilePaths: []string{"b.go"}},
	}
	analyzer := &stubAnalyzer{failFor: map[int]bool{1: true}}

	out := RunPipeline(context.Background(), records, analyzer, pipelineConfig(), nil)

	assert.Equal(t, schema.FormulaAssessment, out[0].Assessment.Kind)
	assert.Equal(t, schema.QualitativeAssessment, out[1].Assessment.Kind)
}

// TestRunPipelineOrderPreserved ensures output order matches input order no
// matter which subset was escalated.
func TestRunPipelineOrderPreserved(t *testing.T) {
	records := []*schema.ChangeRecord{
		{Number: 10, Additions: 10, FilePaths: []string{"a_test.go"}},
		{Number: 20, Additions: 4000, ChangedFiles: 40, FilePaths: []string{"b.go"}},
		{Number: 30, Additions: 5, FilePaths: []string{"c_test.go"}},
		{Number: 40, Additions: 3000, ChangedFiles: 30, FilePaths: []string{"d.go"}},
	}
	analyzer := &stubAnalyzer{}

	out := RunPipeline(context.Background(), records, analyzer, pipelineConfig(), nil)

	require.Len(t, out, 4)
	assert.Equal(t, []int{10, 20, 30, 40}, []int{out[0].Number, out[1].Number, out[2].Number, out[3].Number})
}

// TestRunPipelineNoEscalateFlag ensures the escape hatch suppresses all
// provider calls.
func TestRunPipelineNoEscalateFlag(t *testing.T) {
	record := &schema.ChangeRecord{Number: 1, Additions: 4000, ChangedFiles: 40, FilePaths: []string{"a.go"}}
	cfg := pipelineConfig()
	cfg.NoEscalate = true
	analyzer := &stubAnalyzer{}

	out := RunPipeline(context.Background(), []*schema.ChangeRecord{record}, analyzer, cfg, nil)

	assert.Equal(t, int32(0), analyzer.calls)
	assert.Equal(t, schema.FormulaAssessment, out[0].Assessment.Kind)
}

// TestRunPipelineEmptyInput verifies empty in, empty out, zero calls.
func TestRunPipelineEmptyInput(t *testing.T) {
	analyzer := &stubAnalyzer{}
	out := RunPipeline(context.Background(), nil, analyzer, pipelineConfig(), nil)

	assert.Empty(t, out)
	assert.Equal(t, int32(0), analyzer.calls)
}

// TestRunPipelineTimeoutFallback ensures a timed-out escalation degrades to
// the formula score without stalling.
func TestRunPipelineTimeoutFallback(t *testing.T) {
	record := &schema.ChangeRecord{Number: 1, Additions: 4000, ChangedFiles: 40, FilePaths: []string{"a.go"}}
	cfg := pipelineConfig()
	cfg.CallTimeout = 10 * time.Millisecond
	analyzer := &stubAnalyzer{delay: time.Second}

	out := RunPipeline(context.Background(), []*schema.ChangeRecord{record}, analyzer, cfg, nil)

	assert.Equal(t, schema.FormulaAssessment, out[0].Assessment.Kind)
}

// TestCountEligible checks the threshold counter used in report summaries.
func TestCountEligible(t *testing.T) {
	records := []*schema.ChangeRecord{
		{Assessment: &schema.RiskAssessment{Score: 0.3}},
		{Assessment: &schema.RiskAssessment{Score: 0.5}},
		{Assessment: &schema.RiskAssessment{Score: 0.8}},
		{Assessment: nil},
	}

	assert.Equal(t, 2, CountEligible(records, 0.5))
	assert.Equal(t, 3, CountEligible(records, 0.0))
	assert.Equal(t, 0, CountEligible(records, 0.9))
}
