package verify

import (
	"context"
	"log/slog"

	"medcheck/internal/audit"
	"medcheck/internal/llm"
	"medcheck/internal/model"
	"medcheck/internal/prompt"
	"medcheck/internal/worker"
)

// StanceClassifier asks the completion service whether one piece of
// evidence entails, contradicts or leaves undetermined a claim. A failed
// call yields StanceInvalid so a flaky service degrades the verdict's
// sample size instead of aborting the whole verification.
type StanceClassifier struct {
	provider  llm.Provider
	prompts   *prompt.Store
	sink      audit.Sink
	limiter   *worker.Limiter
	maxTokens int
	logger    *slog.Logger
}

// NewStanceClassifier creates a classifier bound to a completion provider
func NewStanceClassifier(provider llm.Provider, prompts *prompt.Store, sink audit.Sink, limiter *worker.Limiter, maxTokens int, logger *slog.Logger) *StanceClassifier {
	if maxTokens <= 0 {
		maxTokens = 3
	}
	return &StanceClassifier{
		provider:  provider,
		prompts:   prompts,
		sink:      sink,
		limiter:   limiter,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// Classify returns the stance of one evidence item toward the claim
func (c *StanceClassifier) Classify(ctx context.Context, evidence model.ScoredEvidence, claim string) model.Stance {
	if err := c.limiter.Wait(ctx, worker.ServiceCompletion); err != nil {
		c.logger.Warn("classification_failed",
			slog.String("evidence_id", evidence.ID),
			slog.String("stage", "rate_limit"),
			slog.String("error", err.Error()))
		return model.StanceInvalid
	}

	rendered := c.prompts.FactCheck(evidence.Text, claim)

	response, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Prompt:      rendered,
		MaxTokens:   c.maxTokens,
		Temperature: 0,
	})
	if err != nil {
		c.logger.Warn("classification_failed",
			slog.String("evidence_id", evidence.ID),
			slog.String("provider", c.provider.Name()),
			slog.String("error", err.Error()))
		return model.StanceInvalid
	}

	c.sink.Record(audit.KindFactCheck, rendered, response)

	stance := model.ParseStance(response)
	if stance == model.StanceInvalid {
		c.logger.Warn("unexpected_prediction",
			slog.String("evidence_id", evidence.ID),
			slog.String("response", response))
	}

	return stance
}
