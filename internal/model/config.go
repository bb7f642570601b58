package model

import "time"

// Config is the full application configuration
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Providers   ProvidersConfig   `yaml:"providers"`
	Store       StoreConfig       `yaml:"store"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// HTTPConfig holds shared HTTP client settings
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`        // Per-request timeout for provider calls
	MaxBodyBytes int64         `yaml:"max_body_bytes"` // Max response bytes to read
	HTTPProxy    string        `yaml:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy"`
}

// ProvidersConfig configures the classification fallback chain
type ProvidersConfig struct {
	// Order is the fixed priority list of adapters. An adapter missing its
	// credential is skipped, not an error.
	Order []string `yaml:"order"`

	Clarifai    ClarifaiConfig    `yaml:"clarifai"`
	HuggingFace HuggingFaceConfig `yaml:"huggingface"`
	OpenAI      OpenAIConfig      `yaml:"openai"`

	// RequestsPerMinute throttles calls per provider to conserve free-tier
	// quotas. Zero disables throttling.
	RequestsPerMinute float64 `yaml:"requests_per_minute"`
	Burst             int     `yaml:"burst"`
}

// ClarifaiConfig configures the Clarifai adapter
type ClarifaiConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// HuggingFaceConfig configures the Hugging Face inference adapter
type HuggingFaceConfig struct {
	APIToken string `yaml:"api_token"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
}

// OpenAIConfig configures the OpenAI vision adapter
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// StoreConfig configures the proof-of-record store
type StoreConfig struct {
	// Kind selects the store backend: "ipfs", "disk", or "memory"
	Kind string `yaml:"kind"`

	// APIURL is the IPFS node HTTP API endpoint used for writes
	APIURL string `yaml:"api_url"`

	// GatewayURL is the public gateway used for reads
	GatewayURL string `yaml:"gateway_url"`

	// Dir is the root directory for the disk store
	Dir string `yaml:"dir"`

	Timeout      time.Duration `yaml:"timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`

	// RequestsPerMinute throttles gateway reads. Zero disables throttling.
	RequestsPerMinute float64 `yaml:"requests_per_minute"`
}

// CacheConfig configures result caching
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"` // Disk cache location; empty = memory only
	TTL     time.Duration `yaml:"ttl"`
}

// ConcurrencyConfig bounds concurrent work
type ConcurrencyConfig struct {
	VerifyWorkers int `yaml:"verify_workers"` // Batch verification fan-out cap
	BatchWorkers  int `yaml:"batch_workers"`  // File batch processor pool size
}

// OutputConfig controls CLI output behavior
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      12 * time.Second,
			MaxBodyBytes: 2_000_000,
		},
		Providers: ProvidersConfig{
			Order:             []string{"clarifai", "huggingface", "openai"},
			RequestsPerMinute: 30,
			Burst:             5,
		},
		Store: StoreConfig{
			Kind:              "ipfs",
			APIURL:            "http://127.0.0.1:5001",
			GatewayURL:        "https://ipfs.io",
			Timeout:           15 * time.Second,
			MaxBodyBytes:      1_000_000,
			RequestsPerMinute: 120,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			VerifyWorkers: 10,
			BatchWorkers:  4,
		},
	}
}
