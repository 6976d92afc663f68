// Package llm implements the qualitative analysis provider on the OpenAI API.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mergerisk/mergerisk/internal/contract"
	"github.com/mergerisk/mergerisk/schema"
)

// maxPromptFiles bounds the file list in the prompt for token-size control.
const maxPromptFiles = 20

const systemPrompt = `You are a senior engineer reviewing merged pull requests for deployment risk.
Respond with a single JSON object with exactly these fields:
"score" (number between 0 and 1), "factors" (array of short strings),
"reasoning" (non-empty string), "concerns" (array of strings),
"recommendations" (array of strings). No other text.`

// OpenAIAnalyzer analyzes merged changes through chat completions.
type OpenAIAnalyzer struct {
	client *openai.Client
	model  string
}

var _ contract.Analyzer = (*OpenAIAnalyzer)(nil) // Compile-time check

// NewOpenAIAnalyzer builds an analyzer for the given API key and model.
func NewOpenAIAnalyzer(apiKey, model string) *OpenAIAnalyzer {
	if model == "" {
		model = contract.DefaultModel
	}
	return &OpenAIAnalyzer{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Analyze sends one change record to the model and returns its validated
// analysis. Any malformed or shape-violating response is an error; the
// caller never sees a partial analysis.
func (a *OpenAIAnalyzer) Analyze(ctx context.Context, record *schema.ChangeRecord) (*schema.QualitativeAnalysis, error) {
	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(record)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("provider returned no choices")
	}
	return ParseAnalysis(resp.Choices[0].Message.Content)
}

// BuildPrompt renders the record attributes the model needs for a judgment.
// The file list is capped to keep the prompt bounded.
func BuildPrompt(record *schema.ChangeRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pull request #%d: %s\n", record.Number, record.Title)
	fmt.Fprintf(&b, "Author: %s\n", record.Author)
	fmt.Fprintf(&b, "Labels: %s\n", schema.FormatLabels(record.Labels))
	fmt.Fprintf(&b, "Size: +%d/-%d lines across %d files\n", record.Additions, record.Deletions, record.ChangedFiles)
	fmt.Fprintf(&b, "Opened: %s\n", record.CreatedAt.Format(contract.TimeFormat))
	fmt.Fprintf(&b, "Merged: %s (after %s)\n", record.MergedAt.Format(contract.TimeFormat), record.MergeLatency().Round(time.Minute))

	paths := schema.CapPaths(record.FilePaths, maxPromptFiles)
	b.WriteString("Changed files:\n")
	for _, p := range paths {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	if extra := len(record.FilePaths) - len(paths); extra > 0 {
		fmt.Fprintf(&b, "... and %d more files\n", extra)
	}
	b.WriteString("\nAssess the deployment risk of this change.")
	return b.String()
}

// wireAnalysis is the expected response shape. Pointer fields distinguish
// absent keys from empty values so shape violations can be rejected.
type wireAnalysis struct {
	Score           *float64  `json:"score"`
	Factors         *[]string `json:"factors"`
	Reasoning       *string   `json:"reasoning"`
	Concerns        *[]string `json:"concerns"`
	Recommendations *[]string `json:"recommendations"`
}

// ParseAnalysis validates a raw model response against the required shape:
// score in [0,1], non-empty reasoning, all sequence fields present. Any
// violation yields an error and no analysis.
func ParseAnalysis(raw string) (*schema.QualitativeAnalysis, error) {
	cleaned := stripFences(raw)

	var wire wireAnalysis
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return nil, fmt.Errorf("malformed analysis response: %w", err)
	}

	if wire.Score == nil {
		return nil, fmt.Errorf("analysis response missing score")
	}
	if *wire.Score < 0 || *wire.Score > 1 {
		return nil, fmt.Errorf("analysis score %g outside [0,1]", *wire.Score)
	}
	if wire.Reasoning == nil || strings.TrimSpace(*wire.Reasoning) == "" {
		return nil, fmt.Errorf("analysis response missing reasoning")
	}
	if wire.Factors == nil || wire.Concerns == nil || wire.Recommendations == nil {
		return nil, fmt.Errorf("analysis response missing sequence fields")
	}

	return &schema.QualitativeAnalysis{
		Score:           *wire.Score,
		Factors:         *wire.Factors,
		Reasoning:       *wire.Reasoning,
		Concerns:        *wire.Concerns,
		Recommendations: *wire.Recommendations,
	}, nil
}

// stripFences removes a surrounding markdown code fence, which some models
// emit despite the JSON response format.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
