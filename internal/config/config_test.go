package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$12$fakehash")
	t.Setenv("GEMINI_API_KEY", "test-key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageFile, cfg.Storage)
	assert.Equal(t, "data/records.json", cfg.SnapshotPath)
	assert.Equal(t, "gemini", cfg.JudgeProvider)
	assert.Equal(t, 24, cfg.JWTExpirationHrs)
	assert.False(t, cfg.UseBrowser)
}

func TestLoad_PostgresRequiresDatabaseURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STORAGE_BACKEND", "postgres")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://localhost/screener")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoragePostgres, cfg.Storage)
}

func TestLoad_UnknownStorageBackend(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STORAGE_BACKEND", "redis")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_BACKEND")
}

func TestLoad_OpenAIProviderRequiresKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JUDGE_PROVIDER", "openai")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")

	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.JudgeAPIKey())
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$12$fakehash")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_InvalidExpiration(t *testing.T) {
	setRequiredEnv(t)

	t.Setenv("JWT_EXPIRATION_HOURS", "abc")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("JWT_EXPIRATION_HOURS", "0")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_EXPIRATION_HOURS")
}

func TestJudgeAPIKey_PerProvider(t *testing.T) {
	cfg := &Config{JudgeProvider: "gemini", GeminiAPIKey: "g", OpenAIAPIKey: "o"}
	assert.Equal(t, "g", cfg.JudgeAPIKey())

	cfg.JudgeProvider = "openai"
	assert.Equal(t, "o", cfg.JudgeAPIKey())
}
