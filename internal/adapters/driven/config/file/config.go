// Package file loads worker configuration from a TOML file in the docsync
// config directory.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the worker configuration, decoded from config.toml.
type Config struct {
	// DataDir is where the SQLite metadata database lives. Empty means
	// ~/.docsync/data.
	DataDir string `toml:"data_dir"`

	// Verbose enables debug logging.
	Verbose bool `toml:"verbose"`

	Redis  RedisConfig  `toml:"redis"`
	Qdrant QdrantConfig `toml:"qdrant"`
	OpenAI OpenAIConfig `toml:"openai"`
	Worker WorkerConfig `toml:"worker"`
}

// RedisConfig holds queue and progress stream settings.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// QdrantConfig holds vector store settings.
type QdrantConfig struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	APIKey     string `toml:"api_key"`
	UseTLS     bool   `toml:"use_tls"`
	Collection string `toml:"collection"`
}

// OpenAIConfig holds enrichment settings.
type OpenAIConfig struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	EmbeddingModel string `toml:"embedding_model"`
	SummaryModel   string `toml:"summary_model"`
	Dimensions     int    `toml:"dimensions"`
}

// WorkerConfig holds queue consumption settings.
type WorkerConfig struct {
	// PollTimeout is how long one blocking dequeue waits before the loop
	// re-checks for shutdown. Seconds.
	PollTimeoutSeconds int `toml:"poll_timeout_seconds"`
}

// PollTimeout returns the dequeue timeout as a duration.
func (w WorkerConfig) PollTimeout() time.Duration {
	if w.PollTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(w.PollTimeoutSeconds) * time.Second
}

// Load reads the config file from configDir, applying defaults for missing
// values. If configDir is empty, defaults to ~/.docsync. A missing file is
// not an error; the defaults are returned.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".docsync")
	}

	cfg := defaults()

	path := filepath.Join(configDir, "config.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	// environment wins over the file for secrets
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.OpenAI.APIKey = key
	}
	if key := os.Getenv("QDRANT_API_KEY"); key != "" {
		cfg.Qdrant.APIKey = key
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Qdrant: QdrantConfig{
			Host:       "localhost",
			Port:       6334,
			Collection: "documents",
		},
		OpenAI: OpenAIConfig{
			EmbeddingModel: "text-embedding-3-small",
		},
		Worker: WorkerConfig{
			PollTimeoutSeconds: 5,
		},
	}
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required (or set OPENAI_API_KEY)")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required")
	}
	if c.Qdrant.Host == "" {
		return fmt.Errorf("qdrant.host is required")
	}
	return nil
}
