package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds everything the API server needs. Values come from an optional
// YAML file, overridden by environment variables.
type Config struct {
	Addr     string `yaml:"addr"`
	LogLevel string `yaml:"log_level"`

	Provider string `yaml:"provider"` // "mock", "openai" or "vertex"

	OpenAIAPIKey string `yaml:"openai_api_key"`
	OpenAIModel  string `yaml:"openai_model"`

	GCPProjectID string `yaml:"gcp_project"`
	GCPLocation  string `yaml:"gcp_location"`
	VertexModel  string `yaml:"vertex_model"`

	StorageBackend string `yaml:"storage_backend"` // "memory" or "sqlite"
	SQLitePath     string `yaml:"sqlite_path"`
}

func defaults() *Config {
	return &Config{
		Addr:           ":8080",
		LogLevel:       "info",
		Provider:       "mock",
		OpenAIModel:    "gpt-4o-mini",
		GCPLocation:    "us-central1",
		VertexModel:    "gemini-2.5-flash",
		StorageBackend: "memory",
		SQLitePath:     "confide.db",
	}
}

// Load builds the config: defaults, then the YAML file at path (skipped when
// path is empty and no default file exists), then env vars.
func Load(path string) (*Config, error) {
	cfg := defaults()

	explicit := path != ""
	if path == "" {
		path = "confide.yaml"
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// No config file is fine.
	default:
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	cfg.Addr = getEnv("CONFIDE_ADDR", cfg.Addr)
	cfg.LogLevel = getEnv("CONFIDE_LOG_LEVEL", cfg.LogLevel)
	cfg.Provider = getEnv("CONFIDE_PROVIDER", cfg.Provider)
	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.OpenAIModel = getEnv("CONFIDE_OPENAI_MODEL", cfg.OpenAIModel)
	cfg.GCPProjectID = getEnv("CONFIDE_GCP_PROJECT", cfg.GCPProjectID)
	cfg.GCPLocation = getEnv("CONFIDE_GCP_LOCATION", cfg.GCPLocation)
	cfg.VertexModel = getEnv("CONFIDE_VERTEX_MODEL", cfg.VertexModel)
	cfg.StorageBackend = getEnv("CONFIDE_STORAGE_BACKEND", cfg.StorageBackend)
	cfg.SQLitePath = getEnv("CONFIDE_SQLITE_PATH", cfg.SQLitePath)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Provider {
	case "mock", "openai", "vertex":
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	switch c.StorageBackend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	if c.Provider == "openai" && c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY must be set for the openai provider")
	}
	if c.Provider == "vertex" && c.GCPProjectID == "" {
		return fmt.Errorf("CONFIDE_GCP_PROJECT must be set for the vertex provider")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
