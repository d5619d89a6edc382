package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"medcheck/internal/model"
	"medcheck/internal/validate"
	"medcheck/internal/verify"
)

var (
	outJSON     string
	timeout     time.Duration
	maxResults  int
	topK        int
	noCache     bool
	noAudit     bool
	auditDir    string
	promptDir   string
	llmProvider string
	llmModel    string
	rerankURL   string
	rerankModel string
	pubmedEmail string
	pubmedKey   string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <claim>",
	Short: "Verify a single biomedical claim against PubMed",
	Long: `Check verifies one claim:
- Reformulate the claim into a PubMed search query
- Retrieve candidate abstracts via the NCBI E-utilities API
- Score relevance with a cross-encoder and keep the top matches
- Classify each piece of evidence as Entails / Contradicts / Undetermined
- Report the stance distribution with links back to the articles

Example:
  medcheck check "Vitamin D supplementation reduces fracture risk."
  medcheck check "Vaccines cause autism." --json result.json
  medcheck check "Statins impair memory." --llm-provider ollama --llm-model llama3`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	// Output flags
	checkCmd.Flags().StringVar(&outJSON, "json", "", "write the outcome as JSON to this path ('-' for stdout)")

	// Pipeline flags
	checkCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall verification timeout")
	checkCmd.Flags().IntVar(&maxResults, "max-results", 50, "maximum PubMed records to retrieve")
	checkCmd.Flags().IntVar(&topK, "top-k", 10, "evidence items to classify after relevance filtering")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the search result cache")
	checkCmd.Flags().BoolVar(&noAudit, "no-audit", false, "disable the prompt/response audit log")
	checkCmd.Flags().StringVar(&auditDir, "audit-dir", "medcheck-logs", "directory for the prompt/response audit log")
	checkCmd.Flags().StringVar(&promptDir, "prompt-dir", "", "load prompt templates from this directory instead of the built-in ones")

	// Search flags
	checkCmd.Flags().StringVar(&pubmedEmail, "email", "", "contact email sent to NCBI E-utilities")
	checkCmd.Flags().StringVar(&pubmedKey, "api-key", "", "NCBI API key (raises the request rate limit)")

	// LLM flags
	checkCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "completion provider (openai, anthropic, ollama)")
	checkCmd.Flags().StringVar(&llmModel, "llm-model", "", "completion model name (provider default when empty)")

	// Scoring flags
	checkCmd.Flags().StringVar(&rerankURL, "rerank-url", "http://localhost:8001", "cross-encoder scoring service URL")
	checkCmd.Flags().StringVar(&rerankModel, "rerank-model", "cross-encoder/ms-marco-MiniLM-L-6-v2", "cross-encoder model name")
}

func runCheck(cmd *cobra.Command, args []string) error {
	claim := args[0]

	// Reject unusable claims before spending any API calls
	if err := validate.Claim(claim); err != nil {
		return fmt.Errorf("invalid claim: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	logger := newLogger()
	p, err := verify.NewFromConfig(cfg, promptDir, logger)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Claim: %s\n", claim)
		fmt.Fprintf(os.Stderr, "Provider: %s\n", cfg.LLM.Provider)
		fmt.Fprintln(os.Stderr)
	}

	progress := func(fraction float64) {
		fmt.Fprintf(os.Stderr, "\rClassifying evidence... %3.0f%%", fraction*100)
		if fraction >= 1 {
			fmt.Fprintln(os.Stderr)
		}
	}

	outcome, err := p.Verify(ctx, claim, progress)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	if outJSON != "" {
		if err := writeOutcomeJSON(outcome, outJSON); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
	}
	if outJSON != "-" {
		renderOutcome(os.Stdout, outcome)
	}

	return nil
}

// buildConfig merges defaults with the command line flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	cfg.Search.MaxResults = maxResults
	cfg.Search.Email = pubmedEmail
	cfg.Search.APIKey = pubmedKey
	cfg.Pipeline.TopK = topK
	cfg.Cache.Enabled = !noCache
	cfg.Audit.Enabled = !noAudit
	cfg.Audit.Dir = auditDir
	cfg.Rerank.BaseURL = rerankURL
	cfg.Rerank.Model = rerankModel
	cfg.Output.Verbose = verbose

	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel

	// Get API key from environment
	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	// An NCBI API key raises the permitted request rate from 3/s to 10/s
	if cfg.Search.APIKey != "" {
		cfg.RateLimiting.SearchPerSecond = 10
	}

	return cfg, nil
}
