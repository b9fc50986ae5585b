// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Storage backend selectors.
const (
	StoragePostgres = "postgres"
	StorageFile     = "file"
)

// Config holds everything the server needs, loaded once at startup. It is
// immutable after Load returns.
type Config struct {
	Port string

	// Storage selects the record-store backend.
	Storage      string
	DatabaseURL  string // required for postgres
	SnapshotPath string // required for file

	// Judge provider: "gemini" or "openai".
	JudgeProvider string
	JudgeModel    string // empty means the provider default
	GeminiAPIKey  string
	OpenAIAPIKey  string

	// Conversational-agent provider.
	AgentBaseURL string
	AgentAPIKey  string

	// Optional GitHub token for candidate enrichment.
	GitHubToken string

	// Headless-browser fallback for personal-website enrichment.
	UseBrowser bool

	// Admin auth.
	AdminPasswordHash string
	JWTSecret         string
	JWTExpirationHrs  int
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Storage:           getEnv("STORAGE_BACKEND", StorageFile),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		SnapshotPath:      getEnv("SNAPSHOT_PATH", "data/records.json"),
		JudgeProvider:     getEnv("JUDGE_PROVIDER", "gemini"),
		JudgeModel:        os.Getenv("JUDGE_MODEL"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		AgentBaseURL:      os.Getenv("AGENT_BASE_URL"),
		AgentAPIKey:       os.Getenv("AGENT_API_KEY"),
		GitHubToken:       os.Getenv("GITHUB_TOKEN"),
		UseBrowser:        getEnvBool("USE_BROWSER", false),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
	}

	expiration, err := getEnvInt("JWT_EXPIRATION_HOURS", 24)
	if err != nil {
		return nil, err
	}
	cfg.JWTExpirationHrs = expiration

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	case StorageFile:
		if c.SnapshotPath == "" {
			return fmt.Errorf("SNAPSHOT_PATH cannot be empty when STORAGE_BACKEND=file")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q (expected %q or %q)", c.Storage, StoragePostgres, StorageFile)
	}

	switch c.JudgeProvider {
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when JUDGE_PROVIDER=gemini")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when JUDGE_PROVIDER=openai")
		}
	default:
		return fmt.Errorf("unknown JUDGE_PROVIDER %q (expected \"gemini\" or \"openai\")", c.JudgeProvider)
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required but not set")
	}
	if c.AdminPasswordHash == "" {
		return fmt.Errorf("ADMIN_PASSWORD_HASH is required but not set")
	}
	if c.JWTExpirationHrs < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1, got: %d", c.JWTExpirationHrs)
	}
	return nil
}

// JudgeAPIKey returns the API key for the configured judge provider.
func (c *Config) JudgeAPIKey() string {
	if c.JudgeProvider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return parsed, nil
}
