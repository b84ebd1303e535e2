package model

import "time"

// Config is the root configuration for a rosti run
type Config struct {
	Thresholds  ThresholdConfig   `yaml:"thresholds" mapstructure:"thresholds"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Corpus      CorpusConfig      `yaml:"corpus" mapstructure:"corpus"`
	Oracle      OracleConfig      `yaml:"oracle" mapstructure:"oracle"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Search      SearchConfig      `yaml:"search" mapstructure:"search"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// ThresholdConfig holds the escalation policy constants. These are policy,
// not derived quantities; operators can tune them per deployment.
type ThresholdConfig struct {
	Tier1Confidence  float64 `yaml:"tier1_confidence" mapstructure:"tier1_confidence"`   // Structural verdicts at or above this confidence stop escalation
	ContradictionMax float64 `yaml:"contradiction_max" mapstructure:"contradiction_max"` // Overlap below this ratio is a trusted contradiction
	SupportMin       float64 `yaml:"support_min" mapstructure:"support_min"`             // Overlap at or above this ratio is a trusted support
}

// CacheConfig controls the durable verification cache
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Dir     string `yaml:"dir" mapstructure:"dir"` // Root directory for namespace subdirectories
}

// CorpusConfig locates the ingested source documents
type CorpusConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"` // Directory of per-source page-text JSON files
}

// OracleConfig configures the tier-3 LLM judge
type OracleConfig struct {
	Provider          string  `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, or "" to disable
	Model             string  `yaml:"model" mapstructure:"model"`
	APIKey            string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL           string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout           int     `yaml:"timeout" mapstructure:"timeout"` // Seconds
	MaxTokens         int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`

	// Proxy settings for self-hosted providers behind corporate networks
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// HTTPConfig controls remote source ingestion
type HTTPConfig struct {
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	RespectRobots     bool          `yaml:"respect_robots" mapstructure:"respect_robots"`

	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// SearchConfig controls evidence retrieval over the corpus
type SearchConfig struct {
	TopK          int    `yaml:"top_k" mapstructure:"top_k"`
	EmbedProvider string `yaml:"embed_provider" mapstructure:"embed_provider"` // openai or "" for the deterministic fallback
	EmbedModel    string `yaml:"embed_model" mapstructure:"embed_model"`
}

// ConcurrencyConfig bounds parallel work
type ConcurrencyConfig struct {
	ReviewWorkers int `yaml:"review_workers" mapstructure:"review_workers"`
}

// OutputConfig controls rendering and logging
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"` // Append run metadata to markdown output
}

// DefaultConfig returns the standard configuration
func DefaultConfig() *Config {
	return &Config{
		Thresholds: ThresholdConfig{
			Tier1Confidence:  0.9,
			ContradictionMax: 0.5,
			SupportMin:       0.8,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".rosti/cache",
		},
		Corpus: CorpusConfig{
			Dir: ".rosti/corpus",
		},
		Oracle: OracleConfig{
			Provider:          "", // Disabled unless configured
			Model:             "",
			Timeout:           30,
			MaxTokens:         512,
			RequestsPerSecond: 1.0,
			Burst:             2,
		},
		HTTP: HTTPConfig{
			Timeout:           30 * time.Second,
			UserAgent:         "Rosti/0.1 (+https://github.com/psethzp/rosti)",
			MaxBodyBytes:      2 << 20, // 2 MB
			RequestsPerSecond: 1.0,
			Burst:             5,
			RespectRobots:     true,
		},
		Search: SearchConfig{
			TopK:          6,
			EmbedProvider: "",
			EmbedModel:    "text-embedding-3-small",
		},
		Concurrency: ConcurrencyConfig{
			ReviewWorkers: 8,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}
