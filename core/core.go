// Package core has core logic for scoring, escalation and report assembly.
package core

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mergerisk/mergerisk/internal/contract"
	"github.com/mergerisk/mergerisk/internal/outwriter"
	"github.com/mergerisk/mergerisk/schema"
)

// cacheVersion guards cached payloads against schema drift.
const cacheVersion = 1

// ExecuteReport runs the full report flow: fetch merged changes, score and
// escalate them, and render the annotated report. It serves as the main
// entry point for the 'report' command.
func ExecuteReport(ctx context.Context, cfg *contract.Config, source contract.ChangeSource, analyzer contract.Analyzer, mgr contract.CacheManager) error {
	start := time.Now()
	report, err := GetReportResults(ctx, cfg, source, analyzer, mgr, logProgress)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.WriteReport(report, cfg, duration)
}

// ExecuteActivity runs the fetch-only activity summary for the 'activity'
// command: recent CI runs and deployments, no scoring.
func ExecuteActivity(ctx context.Context, cfg *contract.Config, source contract.ChangeSource) error {
	summary, err := GetActivitySummary(ctx, cfg, source)
	if err != nil {
		return err
	}
	return outwriter.WriteActivity(summary, cfg)
}

// GetReportResults assembles the annotated report without rendering it.
// Exposed separately so the MCP server can reuse the flow.
func GetReportResults(ctx context.Context, cfg *contract.Config, source contract.ChangeSource, analyzer contract.Analyzer, mgr contract.CacheManager, progress ProgressFunc) (*schema.Report, error) {
	records, err := fetchMergedChanges(ctx, cfg, source, mgr)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch merged changes for %s: %w", cfg.Slug(), err)
	}

	records = RunPipeline(ctx, records, analyzer, cfg, progress)

	escalated := 0
	for _, r := range records {
		if r.HasQualitative() {
			escalated++
		}
	}

	return &schema.Report{
		Repo:        cfg.Slug(),
		Since:       cfg.Since,
		GeneratedAt: time.Now(),
		Threshold:   cfg.Threshold,
		Records:     records,
		Eligible:    CountEligible(records, cfg.Threshold),
		Escalated:   escalated,
	}, nil
}

// GetActivitySummary fetches CI runs and deployments for the window.
func GetActivitySummary(ctx context.Context, cfg *contract.Config, source contract.ChangeSource) (*schema.ActivitySummary, error) {
	runs, err := source.FetchWorkflowRuns(ctx, cfg.Owner, cfg.Repo, cfg.Since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch workflow runs for %s: %w", cfg.Slug(), err)
	}
	deployments, err := source.FetchDeployments(ctx, cfg.Owner, cfg.Repo, cfg.Since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deployments for %s: %w", cfg.Slug(), err)
	}
	return &schema.ActivitySummary{
		Repo:        cfg.Slug(),
		Since:       cfg.Since,
		Runs:        runs,
		Deployments: deployments,
	}, nil
}

// fetchMergedChanges fetches the merged pull requests for the window, going
// through the activity cache when one is configured. Only raw fetched records
// are ever cached; assessments are recomputed on every run.
func fetchMergedChanges(ctx context.Context, cfg *contract.Config, source contract.ChangeSource, mgr contract.CacheManager) ([]*schema.ChangeRecord, error) {
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetActivityStore()
	}
	key := activityCacheKey(cfg)

	if store != nil {
		if payload, version, _, err := store.Get(key); err == nil && version == cacheVersion {
			var records []*schema.ChangeRecord
			if err := json.Unmarshal(payload, &records); err == nil {
				return records, nil
			}
			// Corrupt entry; fall through to a fresh fetch.
		} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
			contract.LogWarn("Activity cache read failed", err)
		}
	}

	records, err := source.FetchMergedChanges(ctx, cfg.Owner, cfg.Repo, cfg.Since)
	if err != nil {
		return nil, err
	}

	if store != nil {
		if payload, err := json.Marshal(records); err == nil {
			if err := store.Set(key, payload, cacheVersion, time.Now().Unix()); err != nil {
				contract.LogWarn("Activity cache write failed", err)
			}
		}
	}

	return records, nil
}

// activityCacheKey keys a cached window by repo, lookback and calendar day,
// so a rerun on the same day reuses the fetch while staying reasonably fresh.
func activityCacheKey(cfg *contract.Config) string {
	return fmt.Sprintf("pulls:%s:%d:%s", cfg.Slug(), cfg.LookbackDays, time.Now().Format("2006-01-02"))
}

// logProgress reports escalation progress on stderr after each group.
func logProgress(done, total int) {
	_, _ = fmt.Fprintf(os.Stderr, "Escalated %d/%d candidates\n", done, total)
}
