package schema

// Custom string types for type safety.
type (
	// AssessmentKind tells which component produced a risk score.
	AssessmentKind string

	// BreakdownKey represents keys used in formula score breakdowns.
	BreakdownKey string

	// OutputMode represents the format of the output.
	OutputMode string

	// CacheBackend represents the database backend for activity caching.
	CacheBackend string
)

// All assessment kinds.
const (
	FormulaAssessment     AssessmentKind = "formula"
	QualitativeAssessment AssessmentKind = "qualitative"
)

// Breakdown keys used by the formula scorer.
const (
	BreakdownLines     BreakdownKey = "lines"      // normalized changed lines
	BreakdownFiles     BreakdownKey = "files"      // normalized changed files
	BreakdownNoTests   BreakdownKey = "no_tests"   // penalty when no test-like path changed
	BreakdownSlowMerge BreakdownKey = "slow_merge" // penalty for long open-to-merge latency
)

// All output modes supported.
const (
	TextOut     OutputMode = "text" // default
	MarkdownOut OutputMode = "markdown"
	CSVOut      OutputMode = "csv"
	JSONOut     OutputMode = "json"
	ParquetOut  OutputMode = "parquet"
)

// All cache backends supported.
const (
	SQLiteBackend     CacheBackend = "sqlite" // default
	MySQLBackend      CacheBackend = "mysql"
	PostgreSQLBackend CacheBackend = "postgresql"
	NoneBackend       CacheBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:     {},
	MarkdownOut: {},
	CSVOut:      {},
	JSONOut:     {},
	ParquetOut:  {},
}

// ValidCacheBackends lists all valid cache backends.
var ValidCacheBackends = map[CacheBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
