package core

import (
	"sort"

	"github.com/mergerisk/mergerisk/schema"
)

// RankChanges returns the top 'limit' records sorted by risk score in
// descending order, ties broken by pull request number for stable output.
// The input slice is left untouched; ranking is a display concern and must
// not disturb the pipeline's order guarantee.
func RankChanges(records []*schema.ChangeRecord, limit int) []*schema.ChangeRecord {
	ranked := make([]*schema.ChangeRecord, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].RiskScore() != ranked[j].RiskScore() {
			return ranked[i].RiskScore() > ranked[j].RiskScore()
		}
		return ranked[i].Number < ranked[j].Number
	})
	if limit > 0 && len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}
