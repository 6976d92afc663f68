package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergerisk/mergerisk/schema"
)

const validResponse = `{
	"score": 0.85,
	"factors": ["touches payment flow", "no test coverage"],
	"reasoning": "Large change to the charge path without accompanying tests.",
	"concerns": ["rollback complexity"],
	"recommendations": ["add integration tests", "deploy behind a flag"]
}`

// TestParseAnalysisValid covers the happy path.
func TestParseAnalysisValid(t *testing.T) {
	analysis, err := ParseAnalysis(validResponse)

	require.NoError(t, err)
	assert.InDelta(t, 0.85, analysis.Score, 0.0001)
	assert.Len(t, analysis.Factors, 2)
	assert.NotEmpty(t, analysis.Reasoning)
	assert.Len(t, analysis.Concerns, 1)
	assert.Len(t, analysis.Recommendations, 2)
}

// TestParseAnalysisFenced tolerates a markdown code fence around the JSON.
func TestParseAnalysisFenced(t *testing.T) {
	fenced := "```json\n" + validResponse + "\n```"

	analysis, err := ParseAnalysis(fenced)

	require.NoError(t, err)
	assert.InDelta(t, 0.85, analysis.Score, 0.0001)
}

// TestParseAnalysisEmptySequences accepts present-but-empty lists.
func TestParseAnalysisEmptySequences(t *testing.T) {
	raw := `{"score": 0.1, "factors": [], "reasoning": "low risk doc change", "concerns": [], "recommendations": []}`

	analysis, err := ParseAnalysis(raw)

	require.NoError(t, err)
	assert.Empty(t, analysis.Factors)
	assert.Empty(t, analysis.Concerns)
	assert.Empty(t, analysis.Recommendations)
}

// TestParseAnalysisRejections covers every shape violation. A violation must
// yield an error and no partial analysis.
func TestParseAnalysisRejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "the change looks risky"},
		{name: "missing score", raw: `{"factors": [], "reasoning": "x", "concerns": [], "recommendations": []}`},
		{name: "score below range", raw: `{"score": -0.2, "factors": [], "reasoning": "x", "concerns": [], "recommendations": []}`},
		{name: "score above range", raw: `{"score": 1.3, "factors": [], "reasoning": "x", "concerns": [], "recommendations": []}`},
		{name: "missing reasoning", raw: `{"score": 0.5, "factors": [], "concerns": [], "recommendations": []}`},
		{name: "blank reasoning", raw: `{"score": 0.5, "factors": [], "reasoning": "  ", "concerns": [], "recommendations": []}`},
		{name: "missing factors", raw: `{"score": 0.5, "reasoning": "x", "concerns": [], "recommendations": []}`},
		{name: "missing concerns", raw: `{"score": 0.5, "factors": [], "reasoning": "x", "recommendations": []}`},
		{name: "missing recommendations", raw: `{"score": 0.5, "factors": [], "reasoning": "x", "concerns": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis, err := ParseAnalysis(tt.raw)
			assert.Error(t, err)
			assert.Nil(t, analysis)
		})
	}
}

// TestStripFences covers fence variants.
func TestStripFences(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "no fence", raw: `{"a":1}`, expected: `{"a":1}`},
		{name: "json fence", raw: "```json\n{\"a\":1}\n```", expected: `{"a":1}`},
		{name: "bare fence", raw: "```\n{\"a\":1}\n```", expected: `{"a":1}`},
		{name: "padded", raw: "  {\"a\":1}  ", expected: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripFences(tt.raw))
		})
	}
}

// TestBuildPrompt ensures the prompt carries the record attributes and caps
// the file list.
func TestBuildPrompt(t *testing.T) {
	created := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	paths := make([]string, 25)
	for i := range paths {
		paths[i] = "src/file.go"
	}
	record := &schema.ChangeRecord{
		Number:       118,
		Title:        "Refactor charge retries",
		Author:       "sam",
		Labels:       []string{"payments"},
		Additions:    420,
		Deletions:    80,
		ChangedFiles: 25,
		FilePaths:    paths,
		CreatedAt:    created,
		MergedAt:     created.Add(26 * time.Hour),
	}

	prompt := BuildPrompt(record)

	assert.Contains(t, prompt, "#118")
	assert.Contains(t, prompt, "Refactor charge retries")
	assert.Contains(t, prompt, "sam")
	assert.Contains(t, prompt, "payments")
	assert.Contains(t, prompt, "+420/-80")
	assert.Contains(t, prompt, "... and 5 more files")
}

// TestNewOpenAIAnalyzer covers construction.
func TestNewOpenAIAnalyzer(t *testing.T) {
	analyzer := NewOpenAIAnalyzer("test-key", "gpt-4o-mini")
	require.NotNil(t, analyzer)
}
