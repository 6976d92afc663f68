package core

import (
	"context"

	"github.com/mergerisk/mergerisk/internal/contract"
	"github.com/mergerisk/mergerisk/schema"
)

// RunPipeline scores every record with the formula, escalates the subset at
// or above the threshold to the analyzer, and merges successful analyses back
// into the records. The returned slice is the input slice: same length, same
// order. A record whose escalation failed keeps its formula assessment.
// A nil analyzer skips escalation entirely; formula scores still apply.
func RunPipeline(ctx context.Context, records []*schema.ChangeRecord, analyzer contract.Analyzer, cfg *contract.Config, progress ProgressFunc) []*schema.ChangeRecord {
	// --- 1. Formula scoring, total over all records ---
	for _, r := range records {
		score, breakdown := computeScoreWithBreakdown(r)
		r.Assessment = &schema.RiskAssessment{
			Kind:      schema.FormulaAssessment,
			Score:     score,
			Breakdown: breakdown,
		}
	}

	// --- 2. Threshold filter, inclusive boundary ---
	var eligible []*schema.ChangeRecord
	for _, r := range records {
		if r.Assessment.Score >= cfg.Threshold {
			eligible = append(eligible, r)
		}
	}

	if analyzer == nil || cfg.NoEscalate || len(eligible) == 0 {
		return records
	}

	// --- 3. Bounded-concurrency escalation over the eligible subset ---
	analyses := Escalate(ctx, eligible, analyzer, EscalateOptions{
		Concurrency: cfg.Concurrency,
		GroupDelay:  cfg.GroupDelay,
		CallTimeout: cfg.CallTimeout,
		Progress:    progress,
	})

	// --- 4. Merge: the qualitative score replaces the formula score,
	// never blended. Mutation happens only here, after all calls settled. ---
	for _, r := range records {
		if analysis, ok := analyses[r.Number]; ok {
			r.Assessment = &schema.RiskAssessment{
				Kind:        schema.QualitativeAssessment,
				Score:       analysis.Score,
				Qualitative: analysis,
			}
		}
	}

	return records
}

// CountEligible returns how many records sit at or above the threshold.
// Records must already carry an assessment.
func CountEligible(records []*schema.ChangeRecord, threshold float64) int {
	n := 0
	for _, r := range records {
		if r.Assessment != nil && r.Assessment.Score >= threshold {
			n++
		}
	}
	return n
}
