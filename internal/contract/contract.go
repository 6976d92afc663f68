// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/mergerisk/mergerisk/schema"
)

// ChangeSource defines the operations needed to fetch repository activity.
// This allows the core pipeline to be tested without a live GitHub API.
type ChangeSource interface {
	// FetchMergedChanges returns the pull requests merged since the given time.
	// Un-merged pull requests are filtered out here; the pipeline only ever
	// sees records with a merge timestamp.
	FetchMergedChanges(ctx context.Context, owner, repo string, since time.Time) ([]*schema.ChangeRecord, error)

	// FetchWorkflowRuns returns the CI runs created since the given time.
	FetchWorkflowRuns(ctx context.Context, owner, repo string, since time.Time) ([]schema.WorkflowRun, error)

	// FetchDeployments returns the deployments created since the given time.
	FetchDeployments(ctx context.Context, owner, repo string, since time.Time) ([]schema.Deployment, error)
}

// Analyzer is the qualitative analysis provider boundary. An implementation
// either returns a fully populated analysis or an error, never a partial
// result. Retries are not its concern.
type Analyzer interface {
	Analyze(ctx context.Context, record *schema.ChangeRecord) (*schema.QualitativeAnalysis, error)
}

// CacheManager defines the interface for managing the activity cache store.
type CacheManager interface {
	GetActivityStore() CacheStore
	Close() error
}

// CacheStore defines the interface for activity cache storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Clear() error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}
