package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Forum    ForumConfig    `yaml:"forum"`
	Database DatabaseConfig `yaml:"database"`
	Export   ExportConfig   `yaml:"export"`
	Extract  ExtractConfig  `yaml:"extract"`
	Log      LogConfig      `yaml:"log"`
}

// ForumConfig locates the Discourse category to walk.
type ForumConfig struct {
	BaseURL      string `yaml:"base_url"`
	CategorySlug string `yaml:"category_slug"`
	CategoryID   int    `yaml:"category_id"`
	Timeout      string `yaml:"timeout"`
}

// ParseTimeout returns the per-request timeout as time.Duration.
func (f ForumConfig) ParseTimeout() time.Duration {
	d, err := time.ParseDuration(f.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// DatabaseConfig configures SQLite storage.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ExportConfig configures report output.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// ExtractConfig configures contribution matching. An empty keyword list
// means the extractor's defaults.
type ExtractConfig struct {
	Keywords []string `yaml:"keywords"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Forum: ForumConfig{
			BaseURL:      "https://forum.ansible.com",
			CategorySlug: "news-bullhorn",
			CategoryID:   17,
			Timeout:      "30s",
		},
		Database: DatabaseConfig{Path: "./bullhorn.db"},
		Export:   ExportConfig{Dir: "."},
		Log:      LogConfig{Level: "info"},
	}
}

// Load reads configuration from a YAML file and applies env var
// overrides. A .env file in the working directory is loaded first if
// present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BULLHORN_FORUM_URL"); v != "" {
		cfg.Forum.BaseURL = v
	}
	if v := os.Getenv("BULLHORN_CATEGORY_SLUG"); v != "" {
		cfg.Forum.CategorySlug = v
	}
	if v := os.Getenv("BULLHORN_CATEGORY_ID"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			cfg.Forum.CategoryID = id
		}
	}
	if v := os.Getenv("BULLHORN_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("BULLHORN_EXPORT_DIR"); v != "" {
		cfg.Export.Dir = v
	}
	if v := os.Getenv("BULLHORN_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}
