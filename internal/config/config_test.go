package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("TELEGRAM_BOT_TOKEN", "token-123")
	t.Setenv("GEMINI_API_KEY", "key-456")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("ALLOWED_USERS", "100, 200")
	t.Setenv("SOURCES_PATH", "")
	t.Setenv("LOG_LEVEL", "")
}

func TestLoadFromEnv(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token-123", cfg.TelegramToken)
	assert.Equal(t, "key-456", cfg.GeminiAPIKey)
	assert.Equal(t, []int64{100, 200}, cfg.AllowedUsers)
	assert.Equal(t, defaultModel, cfg.GeminiModel)
	assert.Equal(t, defaultLogLevel, cfg.LogLevel)
}

func TestLoadRequiresToken(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresAllowedUsers(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ALLOWED_USERS", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadUserID(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ALLOWED_USERS", "100,abc")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadFromYAMLWithEnvOverride(t *testing.T) {
	setBaseEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
telegram_token: yaml-token
gemini_api_key: yaml-key
gemini_model: gemini-2.5-pro
allowed_users: [7]
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("ALLOWED_USERS", "")

	cfg, err := Load()
	require.NoError(t, err)

	// env beats yaml for the token, yaml fills the rest
	assert.Equal(t, "token-123", cfg.TelegramToken)
	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
	assert.Equal(t, []int64{7}, cfg.AllowedUsers)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestAllowed(t *testing.T) {
	cfg := &Config{AllowedUsers: []int64{100, 200}}

	assert.True(t, cfg.Allowed(100))
	assert.False(t, cfg.Allowed(300))
}
