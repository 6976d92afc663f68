// Package schema has configs, models and constants for all parts of mergerisk.
package schema

import "time"

// ChangeRecord represents one merged pull request with the size, timing and
// label metadata needed for risk scoring.
type ChangeRecord struct {
	Number       int             // Pull request number, stable identity within a run
	Title        string          // Pull request title
	Author       string          // Login of the author
	Labels       []string        // Label names, may be empty
	Additions    int             // Lines added across the change
	Deletions    int             // Lines deleted across the change
	ChangedFiles int             // Number of files touched
	FilePaths    []string        // Paths of the touched files, in API order
	CreatedAt    time.Time       // When the pull request was opened
	MergedAt     time.Time       // When the pull request was merged
	Assessment   *RiskAssessment // Risk assessment, nil until the pipeline runs
}

// RiskScore returns the current risk score, or zero when no assessment
// has been attached yet.
func (r *ChangeRecord) RiskScore() float64 {
	if r.Assessment == nil {
		return 0
	}
	return r.Assessment.Score
}

// HasQualitative reports whether a qualitative analysis superseded the
// formula score for this record.
func (r *ChangeRecord) HasQualitative() bool {
	return r.Assessment != nil && r.Assessment.Kind == QualitativeAssessment
}

// TotalChurn returns the total number of changed lines.
func (r *ChangeRecord) TotalChurn() int {
	return r.Additions + r.Deletions
}

// MergeLatency returns the time between opening and merging.
func (r *ChangeRecord) MergeLatency() time.Duration {
	return r.MergedAt.Sub(r.CreatedAt)
}

// RiskAssessment tags a score with its provenance. A formula assessment
// carries only the score; a qualitative assessment additionally carries the
// provider's full analysis, whose score always replaces the formula one.
type RiskAssessment struct {
	Kind        AssessmentKind           `json:"kind"`
	Score       float64                  `json:"score"`
	Breakdown   map[BreakdownKey]float64 `json:"breakdown,omitempty"`
	Qualitative *QualitativeAnalysis     `json:"qualitative,omitempty"`
}

// QualitativeAnalysis is one validated analysis-provider response.
// It is produced atomically: a failed provider call yields no analysis at
// all, never a partially populated one.
type QualitativeAnalysis struct {
	Score           float64  `json:"score"`
	Factors         []string `json:"factors"`
	Reasoning       string   `json:"reasoning"`
	Concerns        []string `json:"concerns"`
	Recommendations []string `json:"recommendations"`
}

// WorkflowRun is one CI run fetched from the activity source.
type WorkflowRun struct {
	Name       string    // Workflow name
	Branch     string    // Head branch
	Status     string    // queued, in_progress, completed
	Conclusion string    // success, failure, cancelled, empty while running
	CreatedAt  time.Time // When the run started
}

// Deployment is one deployment event fetched from the activity source.
type Deployment struct {
	Environment string    // Target environment name
	Ref         string    // Deployed ref
	Creator     string    // Login that triggered the deployment
	CreatedAt   time.Time // When the deployment was created
}

// Report is the annotated output of one pipeline run. Records keep their
// fetch order; every record carries an assessment after the pipeline runs.
type Report struct {
	Repo        string          `json:"repo"`
	Since       time.Time       `json:"since"`
	GeneratedAt time.Time       `json:"generated_at"`
	Threshold   float64         `json:"threshold"`
	Records     []*ChangeRecord `json:"records"`
	Eligible    int             `json:"eligible"`  // records at or above threshold
	Escalated   int             `json:"escalated"` // records with a qualitative analysis
}

// ActivitySummary bundles CI runs and deployments for the activity command.
type ActivitySummary struct {
	Repo        string        `json:"repo"`
	Since       time.Time     `json:"since"`
	Runs        []WorkflowRun `json:"runs"`
	Deployments []Deployment  `json:"deployments"`
}

// CacheStatus describes the state of the activity cache.
type CacheStatus struct {
	Backend string // Backend in use
	Entries int64  // Number of cached windows
}
