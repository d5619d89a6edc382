// Package search retrieves candidate evidence from PubMed via the NCBI
// E-utilities API (esearch for IDs, efetch for article records).
package search

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"medcheck/internal/cache"
	"medcheck/internal/model"
	"medcheck/internal/util"
	"medcheck/internal/worker"
)

const serviceName = worker.ServiceSearch

// PubMedClient fetches evidence records from PubMed
type PubMedClient struct {
	baseURL    string
	tool       string
	email      string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	cache      cache.Cache // nil disables caching
	cacheTTL   time.Duration
	limiter    *worker.Limiter
	logger     *slog.Logger
}

// NewPubMedClient creates a client for the configured E-utilities endpoint.
// The cache may be nil; the limiter paces requests to NCBI's published rate.
func NewPubMedClient(cfg model.SearchConfig, httpCfg model.HTTPConfig, c cache.Cache, cacheTTL time.Duration, limiter *worker.Limiter, logger *slog.Logger) *PubMedClient {
	return &PubMedClient{
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		tool:      cfg.Tool,
		email:     cfg.Email,
		apiKey:    cfg.APIKey,
		userAgent: httpCfg.UserAgent,
		httpClient: &http.Client{
			Timeout: httpCfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy),
			},
		},
		cache:    c,
		cacheTTL: cacheTTL,
		limiter:  limiter,
		logger:   logger,
	}
}

// esearch response (retmode=json)
type esearchResponse struct {
	ESearchResult struct {
		Count  string   `json:"count"`
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// efetch response (retmode=xml)
type pubmedArticleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	PMID          string         `xml:"MedlineCitation>PMID"`
	Title         string         `xml:"MedlineCitation>Article>ArticleTitle"`
	AbstractTexts []abstractText `xml:"MedlineCitation>Article>Abstract>AbstractText"`
}

type abstractText struct {
	Label       string `xml:"Label,attr"`
	NlmCategory string `xml:"NlmCategory,attr"`
	Text        string `xml:",chardata"`
}

// Retrieve queries PubMed and returns evidence records in search order.
// Records without a conclusion or abstract are dropped with a warning.
// Duplicate IDs keep only the first occurrence; near-duplicate texts are
// deliberately let through for the reranker to sort out.
func (c *PubMedClient) Retrieve(ctx context.Context, query string, maxResults int) ([]model.EvidenceRecord, error) {
	if c.cache != nil {
		key := cache.QueryKey(fmt.Sprintf("%s|%d", query, maxResults))
		if data, found := c.cache.Get(key); found {
			var records []model.EvidenceRecord
			if err := json.Unmarshal(data, &records); err == nil {
				c.logger.Debug("search_cache_hit", slog.String("query", query))
				return records, nil
			}
		}
	}

	ids, err := c.search(ctx, query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("esearch: %w", err)
	}
	if len(ids) == 0 {
		return []model.EvidenceRecord{}, nil
	}

	articles, err := c.fetch(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("efetch: %w", err)
	}

	records := c.buildRecords(articles)

	if c.cache != nil {
		if data, err := json.Marshal(records); err == nil {
			c.cache.Set(cache.QueryKey(fmt.Sprintf("%s|%d", query, maxResults)), data, c.cacheTTL)
		}
	}

	return records, nil
}

// search runs esearch and returns the matching PubMed IDs in rank order
func (c *PubMedClient) search(ctx context.Context, query string, maxResults int) ([]string, error) {
	params := c.baseParams()
	params.Set("db", "pubmed")
	params.Set("term", query)
	params.Set("retmax", strconv.Itoa(maxResults))
	params.Set("retmode", "json")

	body, err := c.get(ctx, "/esearch.fcgi", params)
	if err != nil {
		return nil, err
	}

	var resp esearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return resp.ESearchResult.IDList, nil
}

// fetch runs efetch for the given IDs and parses the article set
func (c *PubMedClient) fetch(ctx context.Context, ids []string) ([]pubmedArticle, error) {
	params := c.baseParams()
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "xml")

	body, err := c.get(ctx, "/efetch.fcgi", params)
	if err != nil {
		return nil, err
	}

	// PubMed XML can declare non-UTF-8 encodings
	decoder := xml.NewDecoder(strings.NewReader(string(body)))
	decoder.CharsetReader = charset.NewReaderLabel

	var set pubmedArticleSet
	if err := decoder.Decode(&set); err != nil {
		return nil, fmt.Errorf("decode article set: %w", err)
	}

	return set.Articles, nil
}

// buildRecords converts raw articles to evidence records
func (c *PubMedClient) buildRecords(articles []pubmedArticle) []model.EvidenceRecord {
	records := make([]model.EvidenceRecord, 0, len(articles))
	seen := make(map[string]bool)

	for _, article := range articles {
		id := normalizeID(article.PMID)
		if id == "" {
			c.logger.Warn("article_skipped", slog.String("reason", "missing identifier"))
			continue
		}
		if seen[id] {
			continue
		}

		text := evidenceText(article)
		if text == "" {
			// No conclusion and no abstract: nothing to classify against
			c.logger.Warn("article_skipped",
				slog.String("pmid", id),
				slog.String("reason", "no conclusion or abstract"))
			continue
		}

		seen[id] = true
		records = append(records, model.NewEvidenceRecord(
			id,
			article.Title,
			text,
			fmt.Sprintf("https://pubmed.ncbi.nlm.nih.gov/%s/", id),
		))
	}

	return records
}

// normalizeID guards against the upstream quirk where the identifier field
// contains several concatenated IDs; only the first 8 characters are a
// PubMed ID.
func normalizeID(raw string) string {
	id := strings.TrimSpace(raw)
	if len(id) > 8 {
		id = id[:8]
	}
	return id
}

// evidenceText picks the conclusion when present, otherwise the full
// abstract. Articles carry the conclusion as a labeled abstract section.
func evidenceText(article pubmedArticle) string {
	var conclusion []string
	var abstract []string

	for _, section := range article.AbstractTexts {
		text := strings.TrimSpace(section.Text)
		if text == "" {
			continue
		}
		abstract = append(abstract, text)

		label := strings.ToUpper(section.Label)
		category := strings.ToUpper(section.NlmCategory)
		if strings.Contains(label, "CONCLUSION") || strings.Contains(category, "CONCLUSION") {
			conclusion = append(conclusion, text)
		}
	}

	if len(conclusion) > 0 {
		return strings.Join(conclusion, " ")
	}
	return strings.Join(abstract, " ")
}

func (c *PubMedClient) baseParams() url.Values {
	params := url.Values{}
	if c.tool != "" {
		params.Set("tool", c.tool)
	}
	if c.email != "" {
		params.Set("email", c.email)
	}
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	return params
}

// get performs a rate-limited GET against an E-utilities endpoint
func (c *PubMedClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, serviceName); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return body, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
