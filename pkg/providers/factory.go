// Package providers builds the generative backends selected by configuration.
package providers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tinyland-inc/tgrelay/pkg/config"
	"github.com/tinyland-inc/tgrelay/pkg/logger"
	anthropicprovider "github.com/tinyland-inc/tgrelay/pkg/providers/anthropic"
	geminiprovider "github.com/tinyland-inc/tgrelay/pkg/providers/gemini"
	openaiprovider "github.com/tinyland-inc/tgrelay/pkg/providers/openai"
	"github.com/tinyland-inc/tgrelay/pkg/relay"
)

// CreateGenerator returns the text/multimodal backend named by
// cfg.AI.Provider. httpClient may be nil; see NewHTTPClient.
func CreateGenerator(ctx context.Context, cfg *config.Config, httpClient *http.Client) (relay.Generator, error) {
	switch cfg.AI.Provider {
	case config.ProviderGemini:
		p, err := geminiprovider.NewProvider(ctx, geminiprovider.Options{
			APIKey:     cfg.AI.GeminiAPIKey,
			Model:      cfg.AI.Model,
			BaseURL:    cfg.AI.APIBase,
			HTTPClient: httpClient,
		})
		if err != nil {
			return nil, err
		}
		logger.InfoCF("providers", "Generator ready", map[string]any{"provider": "gemini", "model": p.Model()})
		return p, nil

	case config.ProviderAnthropic:
		p := anthropicprovider.NewProviderWithBaseURL(cfg.AI.AnthropicAPIKey, cfg.AI.APIBase, httpClient,
			anthropicprovider.WithModel(cfg.AI.Model),
			anthropicprovider.WithMaxTokens(cfg.AI.MaxTokens),
		)
		logger.InfoCF("providers", "Generator ready", map[string]any{"provider": "anthropic", "model": p.Model()})
		return p, nil

	case config.ProviderOpenAI:
		p := openaiprovider.NewChatProvider(openaiprovider.Options{
			APIKey:     cfg.AI.OpenAIAPIKey,
			BaseURL:    cfg.AI.APIBase,
			Model:      cfg.AI.Model,
			HTTPClient: httpClient,
		})
		logger.InfoCF("providers", "Generator ready", map[string]any{"provider": "openai", "model": p.Model()})
		return p, nil

	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.AI.Provider)
	}
}

// CreateImageGenerator returns nil when no image key is configured, which
// disables the image command.
func CreateImageGenerator(cfg *config.Config, httpClient *http.Client) relay.ImageGenerator {
	key := cfg.ImageAPIKey()
	if key == "" {
		logger.InfoC("providers", "Image generation disabled: no image API key")
		return nil
	}
	return openaiprovider.NewImageProvider(openaiprovider.Options{
		APIKey:     key,
		Model:      cfg.Image.Model,
		ImageSize:  cfg.Image.Size,
		HTTPClient: httpClient,
	})
}
