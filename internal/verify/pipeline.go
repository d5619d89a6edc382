package verify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"medcheck/internal/model"
)

// EvidenceSource retrieves candidate evidence for a search query
type EvidenceSource interface {
	Retrieve(ctx context.Context, query string, maxResults int) ([]model.EvidenceRecord, error)
}

// RelevanceRanker scores evidence relevance against a claim, one score
// per record in input order
type RelevanceRanker interface {
	Score(ctx context.Context, claim string, records []model.EvidenceRecord) ([]float64, error)
}

// Pipeline verifies a single claim end to end
type Pipeline struct {
	reformulator *Reformulator
	source       EvidenceSource
	ranker       RelevanceRanker
	classifier   *StanceClassifier
	maxResults   int
	topK         int
	workers      int
	logger       *slog.Logger
}

// NewPipeline wires the verification stages together. workers bounds the
// number of concurrent stance classifications per claim.
func NewPipeline(reformulator *Reformulator, source EvidenceSource, ranker RelevanceRanker, classifier *StanceClassifier, maxResults, topK, workers int, logger *slog.Logger) *Pipeline {
	if maxResults <= 0 {
		maxResults = 50
	}
	if topK <= 0 {
		topK = 10
	}
	if workers <= 0 {
		workers = 4
	}
	return &Pipeline{
		reformulator: reformulator,
		source:       source,
		ranker:       ranker,
		classifier:   classifier,
		maxResults:   maxResults,
		topK:         topK,
		workers:      workers,
		logger:       logger,
	}
}

// Verify runs the full pipeline for one claim. progress may be nil.
// No-evidence and reformulation-failure outcomes are terminal states, not
// errors; the error return covers misuse only (an empty claim).
func (p *Pipeline) Verify(ctx context.Context, claim string, progress model.ProgressFunc) (*model.Outcome, error) {
	claim = strings.TrimSpace(claim)
	if claim == "" {
		return nil, fmt.Errorf("empty claim")
	}

	query := p.reformulator.Reformulate(ctx, claim)
	if strings.TrimSpace(query) == "" {
		p.logger.Warn("verification_ended",
			slog.String("claim", claim),
			slog.String("reason", "reformulation_failed"))
		return &model.Outcome{Kind: model.OutcomeReformulationFailed, Claim: claim}, nil
	}

	p.logger.Info("query_reformulated",
		slog.String("claim", claim),
		slog.String("query", query))

	records, err := p.source.Retrieve(ctx, query, p.maxResults)
	if err != nil {
		p.logger.Warn("retrieval_failed",
			slog.String("query", query),
			slog.String("error", err.Error()))
		return &model.Outcome{Kind: model.OutcomeNoEvidence, Claim: claim, Query: query}, nil
	}
	if len(records) == 0 {
		return &model.Outcome{Kind: model.OutcomeNoEvidence, Claim: claim, Query: query}, nil
	}

	scores, err := p.ranker.Score(ctx, claim, records)
	if err != nil {
		// Without relevance scores there is no defensible evidence
		// selection, so degrade to the no-evidence outcome.
		p.logger.Warn("ranking_failed",
			slog.String("query", query),
			slog.Int("record_count", len(records)),
			slog.String("error", err.Error()))
		return &model.Outcome{Kind: model.OutcomeNoEvidence, Claim: claim, Query: query}, nil
	}

	selected := SelectTop(records, scores, p.topK)
	if len(selected) == 0 {
		p.logger.Info("verification_ended",
			slog.String("claim", claim),
			slog.String("reason", "no_relevant_evidence"),
			slog.Int("retrieved", len(records)))
		return &model.Outcome{Kind: model.OutcomeNoEvidence, Claim: claim, Query: query}, nil
	}

	classified := p.classifyAll(ctx, claim, selected, progress)

	return &model.Outcome{
		Kind:         model.OutcomeResult,
		Claim:        claim,
		Query:        query,
		Distribution: model.Aggregate(classified),
		Evidence:     classified,
	}, nil
}

// classifyAll runs stance classification over the selected evidence with
// bounded concurrency. Results come back in the same score-descending
// order as the input; progress reports completed fractions monotonically.
func (p *Pipeline) classifyAll(ctx context.Context, claim string, selected []model.ScoredEvidence, progress model.ProgressFunc) []model.ClassifiedEvidence {
	results := make([]model.ClassifiedEvidence, len(selected))

	// Increment and callback happen under one lock so the reported
	// fraction can never go backwards between goroutines.
	var progressMu sync.Mutex
	done := 0
	total := float64(len(selected))

	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup

	for i, item := range selected {
		wg.Add(1)
		go func(idx int, ev model.ScoredEvidence) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx] = model.ClassifiedEvidence{
				ScoredEvidence: ev,
				Stance:         p.classifier.Classify(ctx, ev, claim),
			}

			if progress != nil {
				progressMu.Lock()
				done++
				progress(float64(done) / total)
				progressMu.Unlock()
			}
		}(i, item)
	}

	wg.Wait()

	return results
}
