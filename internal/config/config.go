// Package config loads the application configuration from a TOML file,
// with environment variables supplying secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFileName is the config file looked up inside the config directory.
const DefaultFileName = "config.toml"

// Config is the full application configuration.
type Config struct {
	Embedding EmbeddingConfig `toml:"embedding"`
	Store     StoreConfig     `toml:"store"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Cache     CacheConfig     `toml:"cache"`
}

// EmbeddingConfig selects and tunes the embedding provider.
type EmbeddingConfig struct {
	// Provider is "openai" or "ollama".
	Provider string `toml:"provider"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `toml:"base_url"`

	// APIKey authenticates against the provider. Usually left empty in the
	// file and supplied via OPENAI_API_KEY instead.
	APIKey string `toml:"api_key"`

	// Dimensions overrides the model's default vector size.
	Dimensions int `toml:"dimensions"`

	// RequestsPerMinute rate-limits outbound embedding calls. Zero disables
	// the limiter.
	RequestsPerMinute int `toml:"requests_per_minute"`
}

// StoreConfig selects the document store backend.
type StoreConfig struct {
	// Driver is "sqlite" or "memory".
	Driver string `toml:"driver"`

	// Path is the sqlite database file. Ignored by the memory driver.
	Path string `toml:"path"`
}

// RetrievalConfig tunes the search cascade.
type RetrievalConfig struct {
	MatchCount          int     `toml:"match_count"`
	DefaultThreshold    float64 `toml:"default_threshold"`
	RecallThreshold     float64 `toml:"recall_threshold"`
	PrecisionThreshold  float64 `toml:"precision_threshold"`
	RelaxedThreshold    float64 `toml:"relaxed_threshold"`
	MaxVariationRetries int     `toml:"max_variation_retries"`
}

// CacheConfig tunes the layered cache TTLs, in seconds.
type CacheConfig struct {
	EmbeddingTTLSeconds      int `toml:"embedding_ttl_seconds"`
	ResultsTTLSeconds        int `toml:"results_ttl_seconds"`
	HighConfidenceTTLSeconds int `toml:"high_confidence_ttl_seconds"`
	LowConfidenceTTLSeconds  int `toml:"low_confidence_ttl_seconds"`
	OffTopicTTLSeconds       int `toml:"off_topic_ttl_seconds"`
	EmptyTTLSeconds          int `toml:"empty_ttl_seconds"`
	SweepIntervalSeconds     int `toml:"sweep_interval_seconds"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Embedding: EmbeddingConfig{
			Provider:          "openai",
			Model:             "text-embedding-3-small",
			RequestsPerMinute: 300,
		},
		Store: StoreConfig{
			Driver: "sqlite",
			Path:   "asked.db",
		},
		Retrieval: RetrievalConfig{
			MatchCount:          8,
			DefaultThreshold:    0.6,
			RecallThreshold:     0.5,
			PrecisionThreshold:  0.7,
			RelaxedThreshold:    0.4,
			MaxVariationRetries: 3,
		},
		Cache: CacheConfig{
			EmbeddingTTLSeconds:      600,
			ResultsTTLSeconds:        300,
			HighConfidenceTTLSeconds: 600,
			LowConfidenceTTLSeconds:  300,
			OffTopicTTLSeconds:       60,
			EmptyTTLSeconds:          30,
			SweepIntervalSeconds:     300,
		},
	}
}

// Load reads configuration from the given directory, overlaying the file
// onto the defaults. If configDir is empty, ~/.asked is used. A missing
// file is not an error; the defaults apply.
//
// OPENAI_API_KEY, if set, overrides embedding.api_key.
func Load(configDir string) (Config, error) {
	cfg := Default()

	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home dir: %w", err)
		}
		configDir = filepath.Join(home, ".asked")
	}

	path := filepath.Join(configDir, DefaultFileName)
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file yet, defaults apply.
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.Embedding.APIKey = key
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Embedding.Provider {
	case "openai", "ollama":
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider)
	}

	switch c.Store.Driver {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if c.Retrieval.MatchCount <= 0 {
		return fmt.Errorf("retrieval.match_count must be positive")
	}

	return nil
}
