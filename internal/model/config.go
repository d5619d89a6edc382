package model

import "time"

// Config holds the complete medcheck configuration
type Config struct {
	Search       SearchConfig       `yaml:"search"`
	Rerank       RerankConfig       `yaml:"rerank"`
	LLM          LLMConfig          `yaml:"llm"`
	Pipeline     PipelineConfig     `yaml:"pipeline"`
	Cache        CacheConfig        `yaml:"cache"`
	Audit        AuditConfig        `yaml:"audit"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency"`
	RateLimiting RateLimitConfig    `yaml:"rate_limiting"`
	HTTP         HTTPConfig         `yaml:"http"`
	Output       OutputConfig       `yaml:"output"`
}

// SearchConfig configures the PubMed E-utilities client
type SearchConfig struct {
	BaseURL    string `yaml:"base_url"`
	Tool       string `yaml:"tool"`  // E-utilities etiquette: identify the calling tool
	Email      string `yaml:"email"` // E-utilities etiquette: contact address
	APIKey     string `yaml:"api_key,omitempty"`
	MaxResults int    `yaml:"max_results"`
}

// RerankConfig configures the cross-encoder scoring service client
type RerankConfig struct {
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// LLMConfig configures the completion service
type LLMConfig struct {
	Provider string `yaml:"provider"` // openai, anthropic, ollama
	Model    string `yaml:"model"`
	APIKey   string `yaml:"-"` // Never persisted, read from environment
	BaseURL  string `yaml:"base_url,omitempty"`
	Timeout  int    `yaml:"timeout"` // seconds

	// Output budgets per call type. Query reformulation needs room for a
	// full search expression, stance classification only a single label.
	RephraseMaxTokens int `yaml:"rephrase_max_tokens"`
	StanceMaxTokens   int `yaml:"stance_max_tokens"`
}

// PipelineConfig configures selection and filtering
type PipelineConfig struct {
	TopK int `yaml:"top_k"` // Evidence items classified per claim
}

// CacheConfig configures search result caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// AuditConfig configures the prompt/response audit log
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// ConcurrencyConfig configures worker counts
type ConcurrencyConfig struct {
	ClassifyWorkers int `yaml:"classify_workers"` // Parallel stance calls per claim
	BatchWorkers    int `yaml:"batch_workers"`    // Parallel claims in batch mode
}

// RateLimitConfig configures per-service request pacing
type RateLimitConfig struct {
	SearchPerSecond     float64 `yaml:"search_per_second"`     // NCBI allows 3/s without an API key
	CompletionPerSecond float64 `yaml:"completion_per_second"`
	BurstSize           int     `yaml:"burst_size"`
}

// HTTPConfig configures outbound HTTP behavior
type HTTPConfig struct {
	Timeout    time.Duration `yaml:"timeout"`
	UserAgent  string        `yaml:"user_agent"`
	HTTPProxy  string        `yaml:"http_proxy,omitempty"`
	HTTPSProxy string        `yaml:"https_proxy,omitempty"`
	NoProxy    string        `yaml:"no_proxy,omitempty"`
}

// OutputConfig configures CLI output
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			BaseURL:    "https://eutils.ncbi.nlm.nih.gov/entrez/eutils",
			Tool:       "medcheck",
			MaxResults: 50,
		},
		Rerank: RerankConfig{
			BaseURL: "http://localhost:8001",
			Model:   "cross-encoder/ms-marco-MiniLM-L-6-v2",
			Timeout: 30 * time.Second,
		},
		LLM: LLMConfig{
			Provider:          "openai",
			Timeout:           30,
			RephraseMaxTokens: 250,
			StanceMaxTokens:   3,
		},
		Pipeline: PipelineConfig{
			TopK: 10,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".medcheck-cache",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Audit: AuditConfig{
			Enabled: true,
			Dir:     "medcheck-logs",
		},
		Concurrency: ConcurrencyConfig{
			ClassifyWorkers: 4,
			BatchWorkers:    4,
		},
		RateLimiting: RateLimitConfig{
			SearchPerSecond:     3,
			CompletionPerSecond: 5,
			BurstSize:           3,
		},
		HTTP: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "medcheck/0.1",
		},
	}
}
