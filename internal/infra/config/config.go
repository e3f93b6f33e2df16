// Package config provides application-wide configuration. Values come from
// environment variables with safe defaults, optionally overlaid by a YAML
// file named in PARLEY_CONFIG. Env vars win over the file, so containerized
// deployments can override single values without editing it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for Parley.
type Config struct {
	Host         string `yaml:"host"`          // PARLEY_HOST — default: "0.0.0.0"
	Port         int    `yaml:"port"`          // PARLEY_PORT — default: 3001
	DatabasePath string `yaml:"database_path"` // PARLEY_DB_PATH — default: "./data/parley.db"

	// Provider base URLs, overridable for proxies and tests. Empty OpenAI
	// URL means the library default.
	OpenAIBaseURL    string `yaml:"openai_base_url"`    // PARLEY_OPENAI_BASE_URL
	AnthropicBaseURL string `yaml:"anthropic_base_url"` // PARLEY_ANTHROPIC_BASE_URL

	// KeystoreSecret encrypts stored API keys; empty means the keys are
	// only encoded, not encrypted.
	KeystoreSecret string `yaml:"keystore_secret"` // PARLEY_KEYSTORE_SECRET

	// ModelRefreshInterval is how often the catalog refresher polls the
	// upstream model listing. Zero disables the refresher.
	ModelRefreshInterval time.Duration `yaml:"model_refresh_interval"` // PARLEY_MODEL_REFRESH_INTERVAL
}

const (
	envKeyConfigFile       = "PARLEY_CONFIG"
	envKeyHost             = "PARLEY_HOST"
	envKeyPort             = "PARLEY_PORT"
	envKeyDatabasePath     = "PARLEY_DB_PATH"
	envKeyOpenAIBaseURL    = "PARLEY_OPENAI_BASE_URL"
	envKeyAnthropicBaseURL = "PARLEY_ANTHROPIC_BASE_URL"
	envKeyKeystoreSecret   = "PARLEY_KEYSTORE_SECRET"
	envKeyRefreshInterval  = "PARLEY_MODEL_REFRESH_INTERVAL"
)

func defaults() Config {
	return Config{
		Host:                 "0.0.0.0",
		Port:                 3001,
		DatabasePath:         "./data/parley.db",
		ModelRefreshInterval: time.Hour,
	}
}

// Load reads configuration: defaults, then the optional YAML file, then
// environment variables.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv(envKeyConfigFile); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}

	cfg.Host = envOr(envKeyHost, cfg.Host)
	cfg.DatabasePath = envOr(envKeyDatabasePath, cfg.DatabasePath)
	cfg.OpenAIBaseURL = envOr(envKeyOpenAIBaseURL, cfg.OpenAIBaseURL)
	cfg.AnthropicBaseURL = envOr(envKeyAnthropicBaseURL, cfg.AnthropicBaseURL)
	cfg.KeystoreSecret = envOr(envKeyKeystoreSecret, cfg.KeystoreSecret)

	if v := os.Getenv(envKeyPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return cfg, fmt.Errorf("config: invalid %s %q", envKeyPort, v)
		}
		cfg.Port = port
	}
	if v := os.Getenv(envKeyRefreshInterval); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil || interval < 0 {
			return cfg, fmt.Errorf("config: invalid %s %q", envKeyRefreshInterval, v)
		}
		cfg.ModelRefreshInterval = interval
	}

	return cfg, nil
}

// envOr returns the value of the environment variable key, or fallback if not set.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
