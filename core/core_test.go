package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergerisk/mergerisk/internal/contract"
	"github.com/mergerisk/mergerisk/internal/iocache"
	"github.com/mergerisk/mergerisk/schema"
)

// stubSource serves canned change records and activity data.
type stubSource struct {
	records      []*schema.ChangeRecord
	runs         []schema.WorkflowRun
	deployments  []schema.Deployment
	fetchErr     error
	fetchedCount int
}

var _ contract.ChangeSource = (*stubSource)(nil) // Compile-time check

func (s *stubSource) FetchMergedChanges(_ context.Context, _, _ string, _ time.Time) ([]*schema.ChangeRecord, error) {
	s.fetchedCount++
	return s.records, s.fetchErr
}

func (s *stubSource) FetchWorkflowRuns(_ context.Context, _, _ string, _ time.Time) ([]schema.WorkflowRun, error) {
	return s.runs, s.fetchErr
}

func (s *stubSource) FetchDeployments(_ context.Context, _, _ string, _ time.Time) ([]schema.Deployment, error) {
	return s.deployments, s.fetchErr
}

func reportConfig() *contract.Config {
	return &contract.Config{
		Owner:       "acme",
		Repo:        "widgets",
		Since:       time.Now().AddDate(0, 0, -30),
		Threshold:   contract.DefaultThreshold,
		Concurrency: contract.DefaultConcurrency,
	}
}

// TestGetReportResults covers report assembly with escalation counts.
func TestGetReportResults(t *testing.T) {
	source := &stubSource{records: []*schema.ChangeRecord{
		{Number: 1, Additions: 10, FilePaths: []string{"a_test.go"}},
		{Number: 2, Additions: 4000, ChangedFiles: 40, FilePaths: []string{"b.go"}},
	}}
	analyzer := &stubAnalyzer{}

	report, err := GetReportResults(context.Background(), reportConfig(), source, analyzer, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, "acme/widgets", report.Repo)
	require.Len(t, report.Records, 2)
	assert.Equal(t, 1, report.Escalated)

	// Eligibility is counted against final scores.
	assert.Equal(t, 1, report.Eligible)
}

// TestGetReportResultsFetchError ensures fetch failures surface with context.
func TestGetReportResultsFetchError(t *testing.T) {
	source := &stubSource{fetchErr: errors.New("api rate limited")}

	_, err := GetReportResults(context.Background(), reportConfig(), source, nil, nil, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "acme/widgets")
}

// TestFetchMergedChangesCaching ensures a second fetch within the same window
// is served from the cache.
func TestFetchMergedChangesCaching(t *testing.T) {
	source := &stubSource{records: []*schema.ChangeRecord{
		{Number: 7, Title: "Fix checkout", Additions: 12},
	}}
	mgr := &iocache.MockCacheManager{Store: iocache.NewMockCacheStore()}
	cfg := reportConfig()

	first, err := fetchMergedChanges(context.Background(), cfg, source, mgr)
	require.NoError(t, err)
	second, err := fetchMergedChanges(context.Background(), cfg, source, mgr)
	require.NoError(t, err)

	assert.Equal(t, 1, source.fetchedCount)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Number, second[0].Number)
	assert.Equal(t, first[0].Title, second[0].Title)
}

// TestFetchMergedChangesNoCache ensures a nil manager still fetches.
func TestFetchMergedChangesNoCache(t *testing.T) {
	source := &stubSource{records: []*schema.ChangeRecord{{Number: 1}}}

	records, err := fetchMergedChanges(context.Background(), reportConfig(), source, nil)

	require.NoError(t, err)
	assert.Len(t, records, 1)
}

// TestGetActivitySummary covers the fetch-only activity flow.
func TestGetActivitySummary(t *testing.T) {
	source := &stubSource{
		runs:        []schema.WorkflowRun{{Name: "ci", Status: "completed", Conclusion: "success"}},
		deployments: []schema.Deployment{{Environment: "production", Ref: "v1.2.3"}},
	}

	summary, err := GetActivitySummary(context.Background(), reportConfig(), source)

	require.NoError(t, err)
	assert.Equal(t, "acme/widgets", summary.Repo)
	assert.Len(t, summary.Runs, 1)
	assert.Len(t, summary.Deployments, 1)
}
