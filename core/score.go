package core

import (
	"strings"
	"time"

	"github.com/mergerisk/mergerisk/schema"
)

// Fixed scoring policy. Term maxima sum to 1.0, so the formula score is
// bounded to [0,1] by construction.
const (
	maxLineChanges = 2000.0 // changed lines beyond this saturate
	maxFileChanges = 20.0   // changed files beyond this saturate

	linesWeight     = 0.4
	filesWeight     = 0.3
	noTestsWeight   = 0.2
	slowMergeWeight = 0.1

	slowMergeCutoff = 72 * time.Hour
)

// ComputeFormulaScore calculates a merged change's risk score in [0,1].
// It is pure and deterministic: it never fails and never mutates the record.
// Callers decide whether to attach the result.
func ComputeFormulaScore(r *schema.ChangeRecord) float64 {
	score, _ := computeScoreWithBreakdown(r)
	return score
}

// computeScoreWithBreakdown returns the formula score together with the
// per-term contributions used by explain mode.
func computeScoreWithBreakdown(r *schema.ChangeRecord) (float64, map[schema.BreakdownKey]float64) {
	breakdown := make(map[schema.BreakdownKey]float64)

	// --- Normalized size terms [0,1] ---
	nLines := schema.Clamp01(float64(r.TotalChurn()) / maxLineChanges)
	nFiles := schema.Clamp01(float64(r.ChangedFiles) / maxFileChanges)
	breakdown[schema.BreakdownLines] = linesWeight * nLines
	breakdown[schema.BreakdownFiles] = filesWeight * nFiles

	// --- Penalty terms ---
	if !touchesTests(r.FilePaths) {
		breakdown[schema.BreakdownNoTests] = noTestsWeight
	}
	if r.MergeLatency() > slowMergeCutoff {
		breakdown[schema.BreakdownSlowMerge] = slowMergeWeight
	}

	// Sum terms in a fixed order: map iteration order is random and
	// floating-point addition is not associative, which would make the
	// score nondeterministic in the last ulp.
	var score float64
	for _, k := range []schema.BreakdownKey{
		schema.BreakdownLines,
		schema.BreakdownFiles,
		schema.BreakdownNoTests,
		schema.BreakdownSlowMerge,
	} {
		score += breakdown[k]
	}
	return score, breakdown
}

// touchesTests reports whether any changed path looks like a test file.
// A path is test-like when it contains "test" or "spec" case-insensitively,
// which also covers the ".test." and ".spec." infix conventions.
func touchesTests(paths []string) bool {
	for _, p := range paths {
		lower := strings.ToLower(p)
		if strings.Contains(lower, "test") || strings.Contains(lower, "spec") {
			return true
		}
	}
	return false
}
