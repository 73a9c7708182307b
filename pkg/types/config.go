package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings used by capabilities that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests (e.g. "newsdesk/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// RelevanceConfig holds the relevance filter thresholds.
type RelevanceConfig struct {
	// MinScore drops archive candidates scoring below it (default 0.75).
	MinScore float64 `json:"min_score" yaml:"min_score" mapstructure:"min_score"`

	// HighScore is the best-score bar for "good" evidence (default 0.85).
	HighScore float64 `json:"high_score" yaml:"high_score" mapstructure:"high_score"`
}

// ArchiveConfig holds settings for the local article archive.
type ArchiveConfig struct {
	// Dir is the archive base directory (contains index/).
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// TopK is the default number of results per retrieval call (default 5).
	TopK int `json:"top_k" yaml:"top_k" mapstructure:"top_k"`
}

// WebConfig holds settings for the web search capability.
type WebConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Provider selects the web search backend. Only "tavily" is supported.
	Provider string `json:"provider" yaml:"provider" mapstructure:"provider"`

	// APIKey authenticates against the provider. Empty disables web search.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxResults is the default number of web results per search (default 5).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// CacheSize is the number of distinct queries kept in the result cache (default 128).
	CacheSize int `json:"cache_size" yaml:"cache_size" mapstructure:"cache_size"`
}

// GenerationConfig holds settings for the generative text backend.
type GenerationConfig struct {
	// Provider selects the backend: openai, anthropic, or gemini.
	Provider string `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the model identifier (e.g. "gpt-4o").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the backend.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint (OpenAI-compatible gateways).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// Temperature is the sampling temperature (default 0.7).
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`

	// MaxRetries is the SDK-level retry count for transient API failures (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// GuidelinesFile replaces the built-in editorial guidelines when set.
	GuidelinesFile string `json:"guidelines_file,omitempty" yaml:"guidelines_file,omitempty" mapstructure:"guidelines_file"`
}

// ServeConfig holds settings for the HTTP surface.
type ServeConfig struct {
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// Config groups all settings for newsdesk.
type Config struct {
	Relevance  RelevanceConfig  `json:"relevance" yaml:"relevance" mapstructure:"relevance"`
	Archive    ArchiveConfig    `json:"archive" yaml:"archive" mapstructure:"archive"`
	Web        WebConfig        `json:"web" yaml:"web" mapstructure:"web"`
	Generation GenerationConfig `json:"generation" yaml:"generation" mapstructure:"generation"`
	Serve      ServeConfig      `json:"serve" yaml:"serve" mapstructure:"serve"`
}

// DefaultConfig returns the configuration used when no file or environment
// value overrides a setting.
func DefaultConfig() Config {
	return Config{
		Relevance: RelevanceConfig{MinScore: 0.75, HighScore: 0.85},
		Archive:   ArchiveConfig{Dir: "archive", TopK: 5},
		Web: WebConfig{
			HTTPConfig: HTTPConfig{Timeout: 15 * time.Second, UserAgent: "newsdesk/0.1"},
			Provider:   "tavily",
			MaxResults: 5,
			CacheSize:  128,
		},
		Generation: GenerationConfig{
			Provider:    "openai",
			Model:       "gpt-4o",
			Temperature: 0.7,
			MaxRetries:  3,
		},
		Serve: ServeConfig{Addr: ":8080"},
	}
}

// Validate rejects thresholds outside [0,1] or a minimum above the high bar.
func (c Config) Validate() error {
	r := c.Relevance
	if r.MinScore < 0 || r.MinScore > 1 {
		return fmt.Errorf("relevance.min_score %.2f outside [0,1]", r.MinScore)
	}
	if r.HighScore < 0 || r.HighScore > 1 {
		return fmt.Errorf("relevance.high_score %.2f outside [0,1]", r.HighScore)
	}
	if r.MinScore > r.HighScore {
		return fmt.Errorf("relevance.min_score %.2f above relevance.high_score %.2f", r.MinScore, r.HighScore)
	}
	if c.Archive.TopK < 0 {
		return fmt.Errorf("archive.top_k must not be negative")
	}
	return nil
}
