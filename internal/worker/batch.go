package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"medcheck/internal/model"
)

// Verifier verifies a single claim
type Verifier interface {
	Verify(ctx context.Context, claim string, progress model.ProgressFunc) (*model.Outcome, error)
}

// ClaimJob verifies one claim
type ClaimJob struct {
	Claim    string
	Verifier Verifier
}

// Execute runs the verification
func (j *ClaimJob) Execute(ctx context.Context) Result {
	// Progress is per-claim and interleaved across workers, so batch mode
	// drops it rather than garbling the terminal.
	outcome, err := j.Verifier.Verify(ctx, j.Claim, nil)
	return &ClaimResult{
		Claim:   j.Claim,
		Outcome: outcome,
		Error:   err,
	}
}

// ClaimResult is the result of verifying one claim
type ClaimResult struct {
	Claim   string
	Outcome *model.Outcome
	Error   error
}

// GetError returns the error from the claim result
func (r *ClaimResult) GetError() error {
	return r.Error
}

// BatchProcessor verifies multiple claims concurrently
type BatchProcessor struct {
	verifier    Verifier
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(verifier Verifier, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		verifier:    verifier,
		concurrency: concurrency,
	}
}

// ProcessClaims verifies claims in parallel
func (b *BatchProcessor) ProcessClaims(ctx context.Context, claims []string) []*ClaimResult {
	if len(claims) == 0 {
		return []*ClaimResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	// Drain results while submitting; with more claims than the channel
	// buffers hold, submit-then-collect deadlocks.
	collector := NewResultCollector()
	drained := make(chan struct{})
	go func() {
		for result := range pool.Results() {
			collector.Add(result)
		}
		close(drained)
	}()

	for _, claim := range claims {
		pool.Submit(&ClaimJob{
			Claim:    claim,
			Verifier: b.verifier,
		})
	}

	pool.Finish()
	<-drained

	results := collector.Results()

	claimResults := make([]*ClaimResult, len(results))
	for i, result := range results {
		claimResults[i] = result.(*ClaimResult)
	}

	return claimResults
}

// ProcessFile reads claims from a file and verifies them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ClaimResult, error) {
	claims, err := ReadClaimsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read claims: %w", err)
	}

	return b.ProcessClaims(ctx, claims), nil
}

// ReadClaimsFromFile reads claims from a file (one per line)
func ReadClaimsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var claims []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			claims = append(claims, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return claims, nil
}
