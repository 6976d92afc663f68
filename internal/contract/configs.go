package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mergerisk/mergerisk/schema"
)

// Default values for configuration.
const (
	DefaultLookbackDays = 30
	DefaultResultLimit  = 20
	MaxResultLimit      = 200
	DefaultThreshold    = 0.5
	DefaultConcurrency  = 3
	DefaultGroupDelay   = 500 * time.Millisecond
	DefaultCallTimeout  = 60 * time.Second
	DefaultPrecision    = 2
	DefaultModel        = "gpt-4o-mini"
)

// TimeFormat is the default time representation.
var TimeFormat = time.RFC3339

// Config holds the validated runtime configuration for a report run.
// Simple fields are copied straight from flags; fields that need parsing
// (repo slug, durations, output mode) are set by ProcessAndValidate.
type Config struct {
	Owner          string              // Repository owner (from the positional owner/repo arg)
	Repo           string              // Repository name
	LookbackDays   int                 // How many days of activity to fetch
	Since          time.Time           // Start of the activity window, derived from LookbackDays
	Threshold      float64             // Escalation threshold in [0,1], inclusive
	Concurrency    int                 // Escalation group size
	GroupDelay     time.Duration       // Fixed pause between escalation groups
	CallTimeout    time.Duration       // Per-call timeout for the analysis provider, 0 disables
	NoEscalate     bool                // Skip qualitative escalation entirely
	Model          string              // Analysis provider model name
	ResultLimit    int                 // Maximum records to show in ranked output
	Precision      int                 // Decimal precision for numeric columns
	Output         schema.OutputMode   // Output format
	OutputFile     string              // Optional path to write output to
	Detail         bool                // Print per-record size/timing columns
	Explain        bool                // Print score breakdowns and risk factors
	Width          int                 // Terminal width override (0 = auto-detect)
	CacheBackend   schema.CacheBackend // Activity cache backend
	CacheDBConnect string              // Connection string for mysql/postgresql cache
}

// Slug returns the owner/repo form used in headers and cache keys.
func (c *Config) Slug() string {
	return c.Owner + "/" + c.Repo
}

// Clone returns a shallow copy of the config for per-request overrides.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ConfigRawInput holds the raw inputs from flags, env and config file.
// These fields are bound to Viper keys and validated by ProcessAndValidate.
type ConfigRawInput struct {
	RepoStr        string  `mapstructure:"-"`
	Lookback       int     `mapstructure:"lookback"`
	Threshold      float64 `mapstructure:"threshold"`
	Concurrency    int     `mapstructure:"concurrency"`
	GroupDelayMs   int     `mapstructure:"group-delay"`
	CallTimeoutSec int     `mapstructure:"call-timeout"`
	NoEscalate     bool    `mapstructure:"no-escalate"`
	Model          string  `mapstructure:"model"`
	ResultLimit    int     `mapstructure:"limit"`
	Precision      int     `mapstructure:"precision"`
	Output         string  `mapstructure:"output"`
	OutputFile     string  `mapstructure:"output-file"`
	Detail         bool    `mapstructure:"detail"`
	Explain        bool    `mapstructure:"explain"`
	Width          int     `mapstructure:"width"`
	Color          string  `mapstructure:"color"`
	CacheBackend   string  `mapstructure:"cache-backend"`
	CacheDBConnect string  `mapstructure:"cache-db-connect"`
}

// SplitRepoSlug parses an "owner/repo" argument.
func SplitRepoSlug(slug string) (string, string, error) {
	parts := strings.Split(strings.TrimSpace(strings.TrimSuffix(slug, ".git")), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("repository must be in owner/repo form (received %q)", slug)
	}
	return parts[0], parts[1], nil
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and populates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// --- 1. Repository slug ---
	owner, repo, err := SplitRepoSlug(input.RepoStr)
	if err != nil {
		return err
	}
	cfg.Owner = owner
	cfg.Repo = repo

	// --- 2. Lookback window ---
	if input.Lookback <= 0 {
		return fmt.Errorf("lookback must be greater than 0 days (received %d)", input.Lookback)
	}
	cfg.LookbackDays = input.Lookback
	cfg.Since = time.Now().AddDate(0, 0, -input.Lookback)

	// --- 3. Escalation policy ---
	if input.Threshold < 0 || input.Threshold > 1 {
		return fmt.Errorf("threshold must be within [0,1] (received %g)", input.Threshold)
	}
	cfg.Threshold = input.Threshold

	if input.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be greater than 0 (received %d)", input.Concurrency)
	}
	cfg.Concurrency = input.Concurrency

	if input.GroupDelayMs < 0 {
		return fmt.Errorf("group-delay must not be negative (received %d)", input.GroupDelayMs)
	}
	cfg.GroupDelay = time.Duration(input.GroupDelayMs) * time.Millisecond

	if input.CallTimeoutSec < 0 {
		return fmt.Errorf("call-timeout must not be negative (received %d)", input.CallTimeoutSec)
	}
	cfg.CallTimeout = time.Duration(input.CallTimeoutSec) * time.Second

	cfg.NoEscalate = input.NoEscalate
	cfg.Model = input.Model
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	// --- 4. Result limit and precision ---
	if input.ResultLimit <= 0 || input.ResultLimit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.ResultLimit)
	}
	cfg.ResultLimit = input.ResultLimit

	if input.Precision < 0 || input.Precision > 6 {
		return fmt.Errorf("precision must be within [0,6] (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	// --- 5. Output mode ---
	mode := schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[mode]; !ok {
		return fmt.Errorf("invalid output '%s'. must be text, markdown, csv, json, parquet", input.Output)
	}
	cfg.Output = mode
	cfg.OutputFile = input.OutputFile
	if (mode == schema.MarkdownOut || mode == schema.ParquetOut) && cfg.OutputFile == "" {
		return fmt.Errorf("output mode %s requires --output-file", mode)
	}

	cfg.Detail = input.Detail
	cfg.Explain = input.Explain

	if input.Width < 0 {
		return fmt.Errorf("width must not be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width

	// --- 6. Color handling ---
	useColor, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid color value: %w", err)
	}
	color.NoColor = !useColor

	// --- 7. Cache backend ---
	backend := schema.CacheBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidCacheBackends[backend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, or none", input.CacheBackend)
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = input.CacheDBConnect
	if (backend == schema.MySQLBackend || backend == schema.PostgreSQLBackend) && cfg.CacheDBConnect == "" {
		return fmt.Errorf("cache backend %s requires --cache-db-connect", backend)
	}

	return nil
}
