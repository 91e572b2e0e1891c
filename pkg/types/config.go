package types

import "time"

// AIConfig holds shared settings for components that call the Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for rate-limited API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Timeout is the HTTP request timeout for API calls (default 120s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// StoreConfig holds settings for the SQLite content store.
type StoreConfig struct {
	// Path is the SQLite database file (default "content.db").
	Path string `json:"path" yaml:"path"`
}

// GeneratorConfig holds per-cycle generation settings.
type GeneratorConfig struct {
	// IdeasPerCycle is the number of topic ideas requested per cycle (default 5).
	IdeasPerCycle int `json:"ideas_per_cycle" yaml:"ideas_per_cycle"`

	// ArticlesPerCycle is the maximum number of pending ideas expanded
	// into articles per cycle (default 3).
	ArticlesPerCycle int `json:"articles_per_cycle" yaml:"articles_per_cycle"`

	// Category is the topic category ideas are requested for (default "programming").
	Category string `json:"category" yaml:"category"`

	// TargetWords is the target article length in words (default 800).
	TargetWords int `json:"target_words" yaml:"target_words"`
}

// ServiceConfig holds settings for the periodic run mode.
type ServiceConfig struct {
	// Interval is the delay between generation cycles (default 1h).
	Interval time.Duration `json:"interval" yaml:"interval"`
}

// EngineConfig groups all component configurations.
type EngineConfig struct {
	AI        AIConfig        `json:"ai" yaml:"ai"`
	Store     StoreConfig     `json:"store" yaml:"store"`
	Generator GeneratorConfig `json:"generator" yaml:"generator"`
	Service   ServiceConfig   `json:"service" yaml:"service"`
}
