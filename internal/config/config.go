package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the culinara API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Ranking    RankingConfig    `yaml:"ranking"`
	Fallback   FallbackConfig   `yaml:"fallback"`
	Auth       AuthConfig       `yaml:"auth"`
	Storage    StorageConfig    `yaml:"storage"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds corpus index connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds corpus key layout settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
	IndexName string `yaml:"index_name"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// GenerationConfig holds the fact/summary text generation settings.
type GenerationConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	Enabled     bool    `yaml:"enabled"`
}

// RankingConfig holds acceptance thresholds and retrieval pool sizes.
// Thresholds are deliberately tunable: the right floors depend on the
// embedding model in use.
type RankingConfig struct {
	PrimaryThreshold   float64 `yaml:"primary_threshold"`
	SecondaryThreshold float64 `yaml:"secondary_threshold"`
	TopK               int     `yaml:"top_k"`
	PoolMultiplier     int     `yaml:"pool_multiplier"`
}

// FallbackConfig holds web fallback pipeline settings.
type FallbackConfig struct {
	SearchBaseURL    string `yaml:"search_base_url"` // empty uses the provider default
	MaxSearchResults int    `yaml:"max_search_results"`
	FetchConcurrency int    `yaml:"fetch_concurrency"`
	FetchTimeoutSec  int    `yaml:"fetch_timeout_sec"`
	SoftDeadlineSec  int    `yaml:"soft_deadline_sec"`
	MaxExpandItems   int    `yaml:"max_expand_items"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// The fallback path can hold a request open for several seconds.
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "culinara:"
	}
	if c.Storage.IndexName == "" {
		c.Storage.IndexName = "recipes:idx"
	}
	if c.Ranking.PrimaryThreshold <= 0 {
		c.Ranking.PrimaryThreshold = 0.65
	}
	if c.Ranking.SecondaryThreshold <= 0 {
		c.Ranking.SecondaryThreshold = 0.35
	}
	if c.Ranking.TopK <= 0 {
		c.Ranking.TopK = 5
	}
	if c.Ranking.PoolMultiplier <= 0 {
		c.Ranking.PoolMultiplier = 3
	}
	if c.Fallback.MaxSearchResults <= 0 {
		c.Fallback.MaxSearchResults = 5
	}
	if c.Fallback.FetchConcurrency <= 0 {
		c.Fallback.FetchConcurrency = 4
	}
	if c.Fallback.FetchTimeoutSec <= 0 {
		c.Fallback.FetchTimeoutSec = 15
	}
	if c.Fallback.SoftDeadlineSec <= 0 {
		c.Fallback.SoftDeadlineSec = 8
	}
	if c.Fallback.MaxExpandItems <= 0 {
		c.Fallback.MaxExpandItems = 5
	}
	if c.Generation.Temperature <= 0 {
		c.Generation.Temperature = 0.3
	}
	if c.Generation.MaxTokens <= 0 {
		c.Generation.MaxTokens = 800
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Ranking.SecondaryThreshold > c.Ranking.PrimaryThreshold {
		return fmt.Errorf(
			"ranking.secondary_threshold (%.2f) must not exceed ranking.primary_threshold (%.2f)",
			c.Ranking.SecondaryThreshold, c.Ranking.PrimaryThreshold,
		)
	}
	if c.Ranking.PrimaryThreshold > 1 {
		return fmt.Errorf("ranking.primary_threshold must be at most 1, got %.2f", c.Ranking.PrimaryThreshold)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
