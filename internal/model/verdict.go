package model

// VerdictDistribution tallies stances across the classified evidence for
// one claim. Invalid entries are never counted.
type VerdictDistribution map[Stance]int

// Aggregate groups classified evidence by stance and counts, dropping
// Invalid entries. The input order is not modified.
func Aggregate(items []ClassifiedEvidence) VerdictDistribution {
	dist := make(VerdictDistribution)
	for _, item := range items {
		if item.Stance == StanceInvalid {
			continue
		}
		dist[item.Stance]++
	}
	return dist
}

// Total returns the number of counted (non-Invalid) items
func (d VerdictDistribution) Total() int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}

// OutcomeKind distinguishes the terminal states of a verification
type OutcomeKind string

const (
	// OutcomeResult means evidence was found and classified
	OutcomeResult OutcomeKind = "result"

	// OutcomeNoEvidence means zero records were retrieved, or none
	// survived relevance filtering. A valid terminal state, not an error.
	OutcomeNoEvidence OutcomeKind = "no_evidence"

	// OutcomeReformulationFailed means the completion service could not
	// produce a search query for the claim.
	OutcomeReformulationFailed OutcomeKind = "reformulation_failed"
)

// Outcome is the final result of verifying one claim
type Outcome struct {
	Kind  OutcomeKind `json:"kind"`
	Claim string      `json:"claim"`
	Query string      `json:"query,omitempty"` // Reformulated search query, when one was produced

	// Distribution and Evidence are populated only for OutcomeResult.
	// Evidence keeps the score-descending order used during classification.
	Distribution VerdictDistribution  `json:"distribution,omitempty"`
	Evidence     []ClassifiedEvidence `json:"evidence,omitempty"`
}

// ProgressFunc receives the fraction of classification work completed,
// in [0,1], monotonically non-decreasing.
type ProgressFunc func(fraction float64)
