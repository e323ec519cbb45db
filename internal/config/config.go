// Package config provides configuration loading and validation for the
// smartHR service. Values come from defaults, an optional JSON file, and
// environment variables, in that order of precedence (environment wins).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every tunable of the ranking service.
type Config struct {
	// Server
	Port int `json:"port,omitempty" validate:"gte=0,lte=65535"`

	// Corpus
	DataPath      string `json:"data_path,omitempty"`
	MaxCandidates int    `json:"max_candidates,omitempty" validate:"gte=0"`

	// Cache backends. Both are optional: without Redis the hot tier is
	// skipped, without Postgres an in-memory durable tier is used.
	DatabaseURL string `json:"database_url,omitempty"`
	RedisURL    string `json:"redis_url,omitempty"`

	// Oracle
	APIKey               string  `json:"api_key,omitempty"`
	OracleTimeoutSeconds float64 `json:"oracle_timeout_seconds,omitempty" validate:"gte=0"`

	// Pipeline cutoffs
	TopK                int     `json:"top_k,omitempty" validate:"gte=0"`
	Stage1Limit         int     `json:"stage1_limit,omitempty" validate:"gte=0"`
	Stage2Limit         int     `json:"stage2_limit,omitempty" validate:"gte=0"`
	Stage2Weight        float64 `json:"stage2_weight,omitempty" validate:"gte=0,lte=1"`
	Stage2BudgetSeconds float64 `json:"stage2_budget_seconds,omitempty" validate:"gte=0"`
}

// Default returns the standard configuration.
func Default() Config {
	return Config{
		Port:                 8080,
		DataPath:             "candidates.csv",
		MaxCandidates:        50000,
		OracleTimeoutSeconds: 8,
		TopK:                 100,
		Stage1Limit:          20,
		Stage2Limit:          5,
		Stage2Weight:         0.4,
		Stage2BudgetSeconds:  8,
	}
}

// Load builds the effective configuration. path may be empty, in which case
// only defaults and environment variables apply. A .env file in the working
// directory is honored when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // missing .env is fine

	cfg := Default()

	if path != "" {
		fileCfg, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		cfg.merge(fileCfg)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string) (*Config, error) {
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &cfg, nil
}

// merge overlays non-zero values from other onto c.
func (c *Config) merge(other *Config) {
	if other.Port != 0 {
		c.Port = other.Port
	}
	if other.DataPath != "" {
		c.DataPath = other.DataPath
	}
	if other.MaxCandidates != 0 {
		c.MaxCandidates = other.MaxCandidates
	}
	if other.DatabaseURL != "" {
		c.DatabaseURL = other.DatabaseURL
	}
	if other.RedisURL != "" {
		c.RedisURL = other.RedisURL
	}
	if other.APIKey != "" {
		c.APIKey = other.APIKey
	}
	if other.OracleTimeoutSeconds != 0 {
		c.OracleTimeoutSeconds = other.OracleTimeoutSeconds
	}
	if other.TopK != 0 {
		c.TopK = other.TopK
	}
	if other.Stage1Limit != 0 {
		c.Stage1Limit = other.Stage1Limit
	}
	if other.Stage2Limit != 0 {
		c.Stage2Limit = other.Stage2Limit
	}
	if other.Stage2Weight != 0 {
		c.Stage2Weight = other.Stage2Weight
	}
	if other.Stage2BudgetSeconds != 0 {
		c.Stage2BudgetSeconds = other.Stage2BudgetSeconds
	}
}

// applyEnv overrides fields from environment variables. Names follow the
// original deployment conventions.
func (c *Config) applyEnv() {
	setString(&c.DataPath, "DATA_PATH")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.RedisURL, "REDIS_URL")
	setString(&c.APIKey, "GEMINI_API_KEY")
	setInt(&c.Port, "PORT")
	setInt(&c.MaxCandidates, "MAX_CANDIDATES")
	setInt(&c.TopK, "TOP_K_RESULTS")
	setInt(&c.Stage1Limit, "STAGE1_LIMIT")
	setInt(&c.Stage2Limit, "STAGE2_LIMIT")
	setFloat(&c.Stage2Weight, "STAGE2_WEIGHT")
	setFloat(&c.Stage2BudgetSeconds, "STAGE2_MAX_SECONDS")
	setFloat(&c.OracleTimeoutSeconds, "ORACLE_TIMEOUT_SECONDS")
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setFloat(dst *float64, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = parsed
		}
	}
}
