package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

type Config struct {
	Telegram TelegramConfig
	AI       AIConfig
	Image    ImageConfig
	Relay    RelayConfig
	Gateway  GatewayConfig
	Log      LogConfig
}

type TelegramConfig struct {
	Token         string   `env:"TELEGRAM_BOT_TOKEN"`
	APIServer     string   `env:"TELEGRAM_API_SERVER"`
	WebhookURL    string   `env:"TELEGRAM_WEBHOOK_URL"`
	WebhookSecret string   `env:"TELEGRAM_WEBHOOK_SECRET"`
	AllowFrom     []string `env:"TELEGRAM_ALLOW_FROM"     envSeparator:","`
}

type AIConfig struct {
	Provider        string        `env:"RELAY_AI_PROVIDER"   envDefault:"gemini"`
	Model           string        `env:"RELAY_AI_MODEL"`
	APIBase         string        `env:"RELAY_AI_API_BASE"`
	ProxyURL        string        `env:"RELAY_AI_PROXY_URL"`
	Timeout         time.Duration `env:"RELAY_AI_TIMEOUT"    envDefault:"90s"`
	MaxTokens       int           `env:"RELAY_AI_MAX_TOKENS" envDefault:"2048"`
	GeminiAPIKey    string        `env:"GEMINI_API_KEY"`
	AnthropicAPIKey string        `env:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey    string        `env:"OPENAI_API_KEY"`
}

type ImageConfig struct {
	APIKey  string `env:"RELAY_IMAGE_API_KEY"`
	Model   string `env:"RELAY_IMAGE_MODEL"   envDefault:"dall-e-3"`
	Size    string `env:"RELAY_IMAGE_SIZE"    envDefault:"1024x1024"`
	Command string `env:"RELAY_IMAGE_COMMAND" envDefault:"stable"`
}

type RelayConfig struct {
	PhotoMode        string        `env:"RELAY_PHOTO_MODE"         envDefault:"vision"`
	AudioMode        string        `env:"RELAY_AUDIO_MODE"         envDefault:"reroute"`
	Lang             string        `env:"RELAY_LANG"               envDefault:"ru"`
	MaxDownloadBytes int64         `env:"RELAY_MAX_DOWNLOAD_BYTES" envDefault:"0"` // 0 means no cap
	UpdateTimeout    time.Duration `env:"RELAY_UPDATE_TIMEOUT"     envDefault:"60s"`
}

type GatewayConfig struct {
	Host        string `env:"RELAY_HOST"         envDefault:"0.0.0.0"`
	Port        int    `env:"RELAY_PORT"         envDefault:"8080"`
	WebhookPath string `env:"RELAY_WEBHOOK_PATH" envDefault:"/api/telegram-webhook"`
}

type LogConfig struct {
	Level  string `env:"RELAY_LOG_LEVEL"  envDefault:"info"`
	Format string `env:"RELAY_LOG_FORMAT" envDefault:"text"`
}

// ConfigError reports missing or invalid settings. It is fatal: a relay
// with a ConfigError never handles updates.
type ConfigError struct {
	Missing []string
	Invalid []string
}

func (e *ConfigError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required configuration: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid configuration: "+strings.Join(e.Invalid, "; "))
	}
	return strings.Join(parts, "; ")
}

// IsConfigError reports whether err is or wraps a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// LoadConfig reads dotenvPath (if it exists) into the process environment
// without overriding variables that are already set, then parses the
// environment. The result is not validated.
func LoadConfig(dotenvPath string) (*Config, error) {
	if dotenvPath != "" {
		if _, err := os.Stat(dotenvPath); err == nil {
			if err := godotenv.Load(dotenvPath); err != nil {
				return nil, fmt.Errorf("loading %s: %w", dotenvPath, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	return cfg, nil
}

// Validate checks the secrets needed to serve and the enumerated settings.
func (c *Config) Validate() error {
	return c.validate(true)
}

// ValidateAI is Validate without the Telegram requirements, for local use of
// the relay (the chat command).
func (c *Config) ValidateAI() error {
	return c.validate(false)
}

func (c *Config) validate(requireTelegram bool) error {
	ce := &ConfigError{}

	if requireTelegram && c.Telegram.Token == "" {
		ce.Missing = append(ce.Missing, "TELEGRAM_BOT_TOKEN")
	}

	switch c.AI.Provider {
	case ProviderGemini:
		if c.AI.GeminiAPIKey == "" {
			ce.Missing = append(ce.Missing, "GEMINI_API_KEY")
		}
	case ProviderAnthropic:
		if c.AI.AnthropicAPIKey == "" {
			ce.Missing = append(ce.Missing, "ANTHROPIC_API_KEY")
		}
	case ProviderOpenAI:
		if c.AI.OpenAIAPIKey == "" {
			ce.Missing = append(ce.Missing, "OPENAI_API_KEY")
		}
	default:
		ce.Invalid = append(ce.Invalid, fmt.Sprintf("RELAY_AI_PROVIDER=%q (want gemini, anthropic or openai)", c.AI.Provider))
	}

	switch c.Relay.PhotoMode {
	case "vision", "passthrough":
	default:
		ce.Invalid = append(ce.Invalid, fmt.Sprintf("RELAY_PHOTO_MODE=%q (want vision or passthrough)", c.Relay.PhotoMode))
	}

	switch c.Relay.AudioMode {
	case "reroute", "transcript", "echo":
	default:
		ce.Invalid = append(ce.Invalid, fmt.Sprintf("RELAY_AUDIO_MODE=%q (want reroute, transcript or echo)", c.Relay.AudioMode))
	}

	if c.Relay.MaxDownloadBytes < 0 {
		ce.Invalid = append(ce.Invalid, "RELAY_MAX_DOWNLOAD_BYTES must not be negative")
	}

	if !strings.HasPrefix(c.Gateway.WebhookPath, "/") {
		ce.Invalid = append(ce.Invalid, fmt.Sprintf("RELAY_WEBHOOK_PATH=%q must start with /", c.Gateway.WebhookPath))
	}

	if len(ce.Missing) > 0 || len(ce.Invalid) > 0 {
		return ce
	}
	return nil
}

// APIKey returns the key of the selected generative backend.
func (c *Config) APIKey() string {
	switch c.AI.Provider {
	case ProviderAnthropic:
		return c.AI.AnthropicAPIKey
	case ProviderOpenAI:
		return c.AI.OpenAIAPIKey
	default:
		return c.AI.GeminiAPIKey
	}
}

// ImageAPIKey returns the image backend key. The OpenAI key is reused when no
// dedicated key is set; an empty result disables the image command.
func (c *Config) ImageAPIKey() string {
	if c.Image.APIKey != "" {
		return c.Image.APIKey
	}
	return c.AI.OpenAIAPIKey
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Gateway.Host, c.Gateway.Port)
}
