package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"medcheck/internal/model"
	"medcheck/internal/verify"
	"medcheck/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify multiple claims from a file in parallel",
	Long: `Batch verifies multiple claims concurrently:
- Read claims from input file (one per line, # comments skipped)
- Verify claims in parallel with configurable worker count
- Generate an individual JSON outcome for each claim

Example:
  medcheck batch claims.txt
  medcheck batch claims.txt --concurrency 8 --output-dir ./outcomes
  medcheck batch claims.txt --llm-provider ollama --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./medcheck-outcomes", "output directory for JSON outcomes")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")

	// Inherit flags from check command
	batchCmd.Flags().IntVar(&maxResults, "max-results", 50, "maximum PubMed records to retrieve per claim")
	batchCmd.Flags().IntVar(&topK, "top-k", 10, "evidence items to classify after relevance filtering")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the search result cache")
	batchCmd.Flags().BoolVar(&noAudit, "no-audit", false, "disable the prompt/response audit log")
	batchCmd.Flags().StringVar(&auditDir, "audit-dir", "medcheck-logs", "directory for the prompt/response audit log")
	batchCmd.Flags().StringVar(&promptDir, "prompt-dir", "", "load prompt templates from this directory instead of the built-in ones")
	batchCmd.Flags().StringVar(&pubmedEmail, "email", "", "contact email sent to NCBI E-utilities")
	batchCmd.Flags().StringVar(&pubmedKey, "api-key", "", "NCBI API key (raises the request rate limit)")

	// LLM flags
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "completion provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "completion model name (provider default when empty)")

	// Scoring flags
	batchCmd.Flags().StringVar(&rerankURL, "rerank-url", "http://localhost:8001", "cross-encoder scoring service URL")
	batchCmd.Flags().StringVar(&rerankModel, "rerank-model", "cross-encoder/ms-marco-MiniLM-L-6-v2", "cross-encoder model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "Medcheck batch verification\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	// Classifications already fan out per claim; keep the per-claim
	// parallelism modest when many claims run at once.
	if concurrency > 1 && cfg.Concurrency.ClassifyWorkers > 2 {
		cfg.Concurrency.ClassifyWorkers = 2
	}
	cfg.Concurrency.BatchWorkers = concurrency

	logger := newLogger()
	p, err := verify.NewFromConfig(cfg, promptDir, logger)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	processor := worker.NewBatchProcessor(p, concurrency)

	start := time.Now()
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	var succeeded, noEvidence, failed int
	for i, result := range results {
		if result.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Claim, result.Error)
			continue
		}

		switch result.Outcome.Kind {
		case model.OutcomeResult:
			succeeded++
		case model.OutcomeNoEvidence:
			noEvidence++
		case model.OutcomeReformulationFailed:
			failed++
		}

		outPath := filepath.Join(outputDir, fmt.Sprintf("claim-%03d.json", i+1))
		if err := writeOutcomeJSON(result.Outcome, outPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ write %s: %v\n", outPath, err)
		}

		if verbose {
			renderOutcome(os.Stderr, result.Outcome)
		}
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "Processed %d claims in %v\n", len(results), time.Since(start).Round(time.Second))
	fmt.Fprintf(os.Stderr, "  Verdicts:      %d\n", succeeded)
	fmt.Fprintf(os.Stderr, "  No evidence:   %d\n", noEvidence)
	fmt.Fprintf(os.Stderr, "  Failed:        %d\n", failed)

	return nil
}
