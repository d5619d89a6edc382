// Package verify runs the claim verification pipeline: reformulate the
// claim into a literature search query, retrieve evidence, score its
// relevance, classify each item's stance and aggregate a verdict.
package verify

import (
	"context"
	"log/slog"
	"strings"

	"medcheck/internal/audit"
	"medcheck/internal/llm"
	"medcheck/internal/prompt"
	"medcheck/internal/worker"
)

// Reformulator turns a natural-language claim into a search query via the
// completion service. An empty query signals failure to the caller; it is
// never passed to retrieval.
type Reformulator struct {
	provider  llm.Provider
	prompts   *prompt.Store
	sink      audit.Sink
	limiter   *worker.Limiter
	maxTokens int
	logger    *slog.Logger
}

// NewReformulator creates a reformulator bound to a completion provider
func NewReformulator(provider llm.Provider, prompts *prompt.Store, sink audit.Sink, limiter *worker.Limiter, maxTokens int, logger *slog.Logger) *Reformulator {
	if maxTokens <= 0 {
		maxTokens = 250
	}
	return &Reformulator{
		provider:  provider,
		prompts:   prompts,
		sink:      sink,
		limiter:   limiter,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// Reformulate returns the search query for a claim, or "" when the
// completion service fails or produces nothing usable.
func (r *Reformulator) Reformulate(ctx context.Context, claim string) string {
	if err := r.limiter.Wait(ctx, worker.ServiceCompletion); err != nil {
		r.logger.Warn("reformulation_failed",
			slog.String("stage", "rate_limit"),
			slog.String("error", err.Error()))
		return ""
	}

	rendered := r.prompts.Rephrase(claim)

	response, err := r.provider.Complete(ctx, llm.CompletionRequest{
		Prompt:      rendered,
		MaxTokens:   r.maxTokens,
		Temperature: 0,
	})
	if err != nil {
		r.logger.Warn("reformulation_failed",
			slog.String("provider", r.provider.Name()),
			slog.String("error", err.Error()))
		return ""
	}

	r.sink.Record(audit.KindRephrase, rendered, response)

	return strings.TrimSpace(response)
}
