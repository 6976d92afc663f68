package schema

import "strings"

// CapPaths returns at most limit paths, preserving order. Used to bound the
// file list sent to the analysis provider.
func CapPaths(paths []string, limit int) []string {
	if limit <= 0 || len(paths) <= limit {
		return paths
	}
	return paths[:limit]
}

// FormatLabels joins label names for display.
func FormatLabels(labels []string) string {
	if len(labels) == 0 {
		return "-"
	}
	return strings.Join(labels, ", ")
}

// Clamp01 clamps v to the [0,1] interval.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
