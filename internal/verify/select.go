package verify

import (
	"sort"

	"medcheck/internal/model"
)

// SelectTop orders evidence by descending relevance score, drops items
// scoring at or below zero and keeps at most topK. The sort is stable so
// retrieval order breaks score ties. Applying SelectTop to its own output
// returns the same slice content.
func SelectTop(records []model.EvidenceRecord, scores []float64, topK int) []model.ScoredEvidence {
	scored := make([]model.ScoredEvidence, 0, len(records))
	for i, rec := range records {
		scored = append(scored, model.ScoredEvidence{EvidenceRecord: rec, Score: scores[i]})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	kept := scored[:0]
	for _, item := range scored {
		if item.Score <= 0 {
			break // sorted descending, the rest is irrelevant too
		}
		kept = append(kept, item)
	}

	if topK > 0 && len(kept) > topK {
		kept = kept[:topK]
	}

	return kept
}
