package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetPlainLabel covers the label boundaries.
func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		score    float64
		expected string
	}{
		{0.0, LowValue},
		{0.39, LowValue},
		{0.4, ModerateValue},
		{0.59, ModerateValue},
		{0.6, HighValue},
		{0.79, HighValue},
		{0.8, CriticalValue},
		{1.0, CriticalValue},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, GetPlainLabel(tt.score), "score %v", tt.score)
	}
}

// TestGetColorLabel ensures the colored label wraps the plain text.
func TestGetColorLabel(t *testing.T) {
	for _, score := range []float64{0.1, 0.5, 0.7, 0.9} {
		assert.Contains(t, GetColorLabel(score), GetPlainLabel(score))
	}
}

// TestTruncateTitle covers width handling including multibyte titles.
func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		maxWidth int
		expected string
	}{
		{name: "short title untouched", title: "Fix bug", maxWidth: 20, expected: "Fix bug"},
		{name: "exact width untouched", title: "abcdef", maxWidth: 6, expected: "abcdef"},
		{name: "long title truncated", title: "A very long pull request title", maxWidth: 10, expected: "A very ..."},
		{name: "tiny width untouched", title: "abcdef", maxWidth: 3, expected: "abcdef"},
		{name: "multibyte runes", title: "修复支付流程中的竞态条件问题", maxWidth: 8, expected: "修复支付流..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateTitle(tt.title, tt.maxWidth))
		})
	}
}

// TestParseBoolString covers accepted and rejected values.
func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "YES", "true", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "No", "false", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}
