// Package rerank scores evidence relevance against a claim using a
// cross-encoder model served over HTTP. The model is expensive to load,
// so the serving process owns it; this client is cheap, stateless and
// safe to share across concurrent verifications.
package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"medcheck/internal/model"
)

// scoreRequest is the request payload for the scoring endpoint
type scoreRequest struct {
	Query      string   `json:"query"`
	Candidates []string `json:"candidates"`
	Model      string   `json:"model,omitempty"`
}

// scoreResult is a single result in the scoring response
type scoreResult struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// scoreResponse is the response from the scoring endpoint
type scoreResponse struct {
	Results []scoreResult `json:"results"`
	Model   string        `json:"model"`
}

// Client calls the cross-encoder scoring service
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient constructs a scoring client. baseURL is the serving endpoint,
// model the cross-encoder name (e.g. cross-encoder/ms-marco-MiniLM-L-6-v2).
func NewClient(baseURL, modelName string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      modelName,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Score returns one relevance score per record, in input order. The
// scoring input for each record is its title followed by its text; the
// title measurably improves rank quality. No reordering happens here.
func (c *Client) Score(ctx context.Context, claim string, records []model.EvidenceRecord) ([]float64, error) {
	if len(records) == 0 {
		return []float64{}, nil
	}

	start := time.Now()

	candidates := make([]string, len(records))
	for i, rec := range records {
		candidates[i] = rec.Title + "\n" + rec.Text
	}

	reqBody := scoreRequest{
		Query:      claim,
		Candidates: candidates,
		Model:      c.model,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal score request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/rerank", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("scoring_failed",
			slog.String("error", err.Error()),
			slog.Int64("elapsed_ms", time.Since(start).Milliseconds()))
		return nil, fmt.Errorf("call score endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warn("scoring_failed",
			slog.Int("status_code", resp.StatusCode),
			slog.Int64("elapsed_ms", time.Since(start).Milliseconds()))
		return nil, fmt.Errorf("score endpoint returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var scoreResp scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&scoreResp); err != nil {
		return nil, fmt.Errorf("decode score response: %w", err)
	}

	if len(scoreResp.Results) != len(records) {
		return nil, fmt.Errorf("score count mismatch: %d results for %d records", len(scoreResp.Results), len(records))
	}

	// The service reports (index, score) pairs; map back to input order
	scores := make([]float64, len(records))
	for _, r := range scoreResp.Results {
		if r.Index < 0 || r.Index >= len(records) {
			return nil, fmt.Errorf("invalid result index %d for %d records", r.Index, len(records))
		}
		scores[r.Index] = r.Score
	}

	c.logger.Info("scoring_completed",
		slog.Int("record_count", len(records)),
		slog.String("model", scoreResp.Model),
		slog.Int64("elapsed_ms", time.Since(start).Milliseconds()))

	return scores, nil
}

// ModelName returns the model identifier for logging
func (c *Client) ModelName() string {
	return c.model
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
