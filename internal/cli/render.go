package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"medcheck/internal/model"
)

// stanceOrder fixes the display order of the verdict distribution
var stanceOrder = []model.Stance{
	model.StanceEntails,
	model.StanceContradicts,
	model.StanceUndetermined,
}

// renderOutcome writes a human-readable report for one claim
func renderOutcome(w io.Writer, outcome *model.Outcome) {
	fmt.Fprintf(w, "\nClaim: %s\n", outcome.Claim)

	switch outcome.Kind {
	case model.OutcomeReformulationFailed:
		fmt.Fprintln(w, "\nCould not turn the claim into a literature search query.")
		fmt.Fprintln(w, "Try rephrasing it as a single declarative statement.")
		return

	case model.OutcomeNoEvidence:
		if outcome.Query != "" {
			fmt.Fprintf(w, "Query: %s\n", outcome.Query)
		}
		fmt.Fprintln(w, "\nNo relevant evidence found on PubMed for this claim.")
		return
	}

	fmt.Fprintf(w, "Query: %s\n", outcome.Query)

	fmt.Fprintf(w, "\nVerdict distribution (%d evidence items):\n", outcome.Distribution.Total())
	for _, stance := range stanceOrder {
		if n := outcome.Distribution[stance]; n > 0 {
			fmt.Fprintf(w, "  %-13s %d\n", stance, n)
		}
	}

	fmt.Fprintln(w, "\nEvidence:")
	for i, item := range outcome.Evidence {
		fmt.Fprintf(w, "  %2d. [%s] (%.2f) %s\n", i+1, item.Stance, item.Score, item.Title)
		fmt.Fprintf(w, "      %s\n", item.SourceURL)
	}
}

// writeOutcomeJSON writes the outcome as indented JSON to path, or to
// stdout when path is "-"
func writeOutcomeJSON(outcome *model.Outcome, path string) error {
	data, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}
	data = append(data, '\n')

	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, 0644)
}
