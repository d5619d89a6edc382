package verify

import (
	"fmt"
	"log/slog"

	"medcheck/internal/audit"
	"medcheck/internal/cache"
	"medcheck/internal/llm"
	"medcheck/internal/model"
	"medcheck/internal/prompt"
	"medcheck/internal/rerank"
	"medcheck/internal/search"
	"medcheck/internal/worker"
)

// NewFromConfig assembles a full pipeline from configuration: completion
// provider, prompt store, audit sink, rate limiter, literature search
// client and scoring client.
func NewFromConfig(cfg *model.Config, promptDir string, logger *slog.Logger) (*Pipeline, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
	if err != nil {
		return nil, fmt.Errorf("create completion provider: %w", err)
	}

	prompts, err := prompt.NewStore(promptDir)
	if err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}

	var sink audit.Sink = audit.NopSink{}
	if cfg.Audit.Enabled {
		sink = audit.NewFileSink(cfg.Audit.Dir, logger)
	}

	limiter := worker.NewLimiter(cfg.RateLimiting.CompletionPerSecond, cfg.RateLimiting.BurstSize)
	limiter.SetServiceRate(worker.ServiceSearch, cfg.RateLimiting.SearchPerSecond, cfg.RateLimiting.BurstSize)
	limiter.SetServiceRate(worker.ServiceCompletion, cfg.RateLimiting.CompletionPerSecond, cfg.RateLimiting.BurstSize)

	var searchCache cache.Cache
	if cfg.Cache.Enabled {
		searchCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	source := search.NewPubMedClient(cfg.Search, cfg.HTTP, searchCache, cfg.Cache.DiskTTL, limiter, logger)
	ranker := rerank.NewClient(cfg.Rerank.BaseURL, cfg.Rerank.Model, cfg.Rerank.Timeout, logger)

	reformulator := NewReformulator(provider, prompts, sink, limiter, cfg.LLM.RephraseMaxTokens, logger)
	classifier := NewStanceClassifier(provider, prompts, sink, limiter, cfg.LLM.StanceMaxTokens, logger)

	return NewPipeline(
		reformulator,
		source,
		ranker,
		classifier,
		cfg.Search.MaxResults,
		cfg.Pipeline.TopK,
		cfg.Concurrency.ClassifyWorkers,
		logger,
	), nil
}
