// Package prompt holds the completion-service prompt templates. Templates
// are text assets, not pipeline logic; the placeholder names <<FACT>>,
// <<EVIDENCE>> and <<HYPOTHESIS>> are part of the template contract.
package prompt

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed templates/rephrase.txt templates/fact_check.txt
var defaults embed.FS

const (
	rephraseFile  = "rephrase.txt"
	factCheckFile = "fact_check.txt"
)

// Store serves the two prompt templates used by the pipeline
type Store struct {
	rephrase  string
	factCheck string
}

// NewStore loads templates from dir, falling back to the embedded defaults
// when dir is empty. A directory missing one of the template files is an
// error rather than a silent fallback.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		rephrase, err := defaults.ReadFile("templates/" + rephraseFile)
		if err != nil {
			return nil, fmt.Errorf("read embedded template: %w", err)
		}
		factCheck, err := defaults.ReadFile("templates/" + factCheckFile)
		if err != nil {
			return nil, fmt.Errorf("read embedded template: %w", err)
		}
		return &Store{rephrase: string(rephrase), factCheck: string(factCheck)}, nil
	}

	rephrase, err := os.ReadFile(filepath.Join(dir, rephraseFile))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rephraseFile, err)
	}
	factCheck, err := os.ReadFile(filepath.Join(dir, factCheckFile))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", factCheckFile, err)
	}
	return &Store{rephrase: string(rephrase), factCheck: string(factCheck)}, nil
}

// Rephrase renders the query-reformulation prompt for a claim
func (s *Store) Rephrase(fact string) string {
	return strings.ReplaceAll(s.rephrase, "<<FACT>>", fact)
}

// FactCheck renders the stance-classification prompt for one piece of
// evidence against the claim
func (s *Store) FactCheck(evidence, hypothesis string) string {
	out := strings.ReplaceAll(s.factCheck, "<<EVIDENCE>>", evidence)
	return strings.ReplaceAll(out, "<<HYPOTHESIS>>", hypothesis)
}
