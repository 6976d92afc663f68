package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mergerisk/mergerisk/internal/contract"
	"github.com/mergerisk/mergerisk/schema"
)

// ProgressFunc is invoked after each escalation group settles, with the
// number of records processed so far and the total. Counts are reported in
// group order and are monotonically non-decreasing.
type ProgressFunc func(done, total int)

// EscalateOptions controls the batching policy of Escalate.
type EscalateOptions struct {
	Concurrency int           // Group size; values below 1 fall back to the default
	GroupDelay  time.Duration // Fixed pause between groups, not adaptive backoff
	CallTimeout time.Duration // Per-call timeout; 0 waits indefinitely
	Progress    ProgressFunc  // Optional progress notification
}

// Escalate drives bounded-concurrency analysis calls over the given records.
// Records are partitioned into consecutive groups of the configured size; all
// calls in a group run concurrently and the group settles before the next one
// starts. The result map holds only successful analyses, keyed by record
// number; a failed call is logged and its record simply omitted. No error
// ever propagates out of this function for an individual record's failure.
func Escalate(ctx context.Context, records []*schema.ChangeRecord, analyzer contract.Analyzer, opts EscalateOptions) map[int]*schema.QualitativeAnalysis {
	results := make(map[int]*schema.QualitativeAnalysis, len(records))
	if len(records) == 0 || analyzer == nil {
		return results
	}

	groupSize := opts.Concurrency
	if groupSize < 1 {
		groupSize = contract.DefaultConcurrency
	}

	done := 0
	for start := 0; start < len(records); start += groupSize {
		end := min(start+groupSize, len(records))
		group := records[start:end]

		// Each call writes to a unique index, so the group needs no locking
		// beyond the WaitGroup itself.
		groupResults := make([]*schema.QualitativeAnalysis, len(group))
		var wg sync.WaitGroup
		for i, record := range group {
			wg.Go(func() {
				analysis, err := analyzeOne(ctx, analyzer, record, opts.CallTimeout)
				if err != nil {
					contract.LogWarn(fmt.Sprintf("Analysis failed for change #%d", record.Number), err)
					return
				}
				groupResults[i] = analysis
			})
		}
		wg.Wait()

		// Merge settled results into the map, keyed by record identity.
		for i, analysis := range groupResults {
			if analysis != nil {
				results[group[i].Number] = analysis
			}
		}

		done += len(group)
		if opts.Progress != nil {
			opts.Progress(done, len(records))
		}

		// Fixed inter-group pacing; skipped after the last group.
		if end < len(records) && opts.GroupDelay > 0 {
			time.Sleep(opts.GroupDelay)
		}
	}

	return results
}

// analyzeOne performs a single provider call, bounded by the per-call timeout
// when one is configured. A timeout counts as that record's failure.
func analyzeOne(ctx context.Context, analyzer contract.Analyzer, record *schema.ChangeRecord, timeout time.Duration) (*schema.QualitativeAnalysis, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return analyzer.Analyze(ctx, record)
}
