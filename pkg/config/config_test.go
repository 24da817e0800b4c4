package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable the config reads so tests start clean.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_API_SERVER", "TELEGRAM_WEBHOOK_URL", "TELEGRAM_WEBHOOK_SECRET", "TELEGRAM_ALLOW_FROM",
		"RELAY_AI_PROVIDER", "RELAY_AI_MODEL", "RELAY_AI_API_BASE", "RELAY_AI_PROXY_URL", "RELAY_AI_TIMEOUT", "RELAY_AI_MAX_TOKENS",
		"GEMINI_API_KEY", "ANTHROPIC_API_KEY", "OPENAI_API_KEY",
		"RELAY_IMAGE_API_KEY", "RELAY_IMAGE_MODEL", "RELAY_IMAGE_SIZE", "RELAY_IMAGE_COMMAND",
		"RELAY_PHOTO_MODE", "RELAY_AUDIO_MODE", "RELAY_LANG", "RELAY_MAX_DOWNLOAD_BYTES", "RELAY_UPDATE_TIMEOUT",
		"RELAY_HOST", "RELAY_PORT", "RELAY_WEBHOOK_PATH", "RELAY_LOG_LEVEL", "RELAY_LOG_FORMAT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestParse_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
	assert.Equal(t, "vision", cfg.Relay.PhotoMode)
	assert.Equal(t, "reroute", cfg.Relay.AudioMode)
	assert.Equal(t, "ru", cfg.Relay.Lang)
	assert.Equal(t, 60*time.Second, cfg.Relay.UpdateTimeout)
	assert.Equal(t, 90*time.Second, cfg.AI.Timeout)
	assert.Empty(t, cfg.AI.ProxyURL)
	assert.Equal(t, "/api/telegram-webhook", cfg.Gateway.WebhookPath)
	assert.Equal(t, "0.0.0.0:8080", cfg.ListenAddr())
	assert.Equal(t, "stable", cfg.Image.Command)
}

func TestParse_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("TELEGRAM_ALLOW_FROM", "42,@alice")
	t.Setenv("RELAY_AI_PROVIDER", " Anthropic ")
	t.Setenv("RELAY_PORT", "9090")
	t.Setenv("RELAY_UPDATE_TIMEOUT", "15s")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, []string{"42", "@alice"}, cfg.Telegram.AllowFrom)
	assert.Equal(t, ProviderAnthropic, cfg.AI.Provider)
	assert.Equal(t, 9090, cfg.Gateway.Port)
	assert.Equal(t, 15*time.Second, cfg.Relay.UpdateTimeout)
}

func TestValidate_MissingSecrets(t *testing.T) {
	clearEnv(t)
	cfg, err := Parse()
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.True(t, IsConfigError(err))

	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"TELEGRAM_BOT_TOKEN", "GEMINI_API_KEY"}, ce.Missing)
	assert.Contains(t, err.Error(), "missing required configuration")
}

func TestValidateAI_SkipsTelegramToken(t *testing.T) {
	clearEnv(t)
	cfg, err := Parse()
	require.NoError(t, err)
	cfg.AI.GeminiAPIKey = "g"

	assert.NoError(t, cfg.ValidateAI())
	assert.True(t, IsConfigError(cfg.Validate()))
}

func TestValidate_ProviderKey(t *testing.T) {
	clearEnv(t)
	cfg, err := Parse()
	require.NoError(t, err)
	cfg.Telegram.Token = "t"
	cfg.AI.Provider = ProviderOpenAI
	cfg.AI.GeminiAPIKey = "unused"

	var ce *ConfigError
	require.ErrorAs(t, cfg.Validate(), &ce)
	assert.Equal(t, []string{"OPENAI_API_KEY"}, ce.Missing)

	cfg.AI.OpenAIAPIKey = "sk-test"
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "sk-test", cfg.APIKey())
}

func TestValidate_InvalidEnums(t *testing.T) {
	clearEnv(t)
	cfg, err := Parse()
	require.NoError(t, err)
	cfg.Telegram.Token = "t"
	cfg.AI.GeminiAPIKey = "g"
	cfg.Relay.PhotoMode = "thumbnail"
	cfg.Relay.AudioMode = "karaoke"
	cfg.Gateway.WebhookPath = "hook"

	var ce *ConfigError
	require.ErrorAs(t, cfg.Validate(), &ce)
	assert.Empty(t, ce.Missing)
	assert.Len(t, ce.Invalid, 3)
}

func TestImageAPIKey_FallsBackToOpenAI(t *testing.T) {
	cfg := &Config{}
	assert.Empty(t, cfg.ImageAPIKey())

	cfg.AI.OpenAIAPIKey = "sk-openai"
	assert.Equal(t, "sk-openai", cfg.ImageAPIKey())

	cfg.Image.APIKey = "sk-image"
	assert.Equal(t, "sk-image", cfg.ImageAPIKey())
}

func TestLoadConfig_DotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TELEGRAM_BOT_TOKEN=from-file\nGEMINI_API_KEY=ignored\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("TELEGRAM_BOT_TOKEN") })

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Telegram.Token)
	assert.Equal(t, "from-env", cfg.AI.GeminiAPIKey, "existing variables win over .env")
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_MissingDotEnvIsFine(t *testing.T) {
	clearEnv(t)
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}
