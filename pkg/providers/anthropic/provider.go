package anthropicprovider

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/tinyland-inc/tgrelay/pkg/relay"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultModel     = "claude-sonnet-4-5"
	defaultMaxTokens = 2048
)

// ErrUnsupportedMedia is returned for inline parts the Messages API cannot
// take, such as audio.
var ErrUnsupportedMedia = errors.New("anthropic: unsupported inline media type")

type Provider struct {
	client    *anthropic.Client
	baseURL   string
	model     string
	maxTokens int64
}

type Option func(*Provider)

func WithModel(model string) Option {
	return func(p *Provider) {
		if model != "" {
			p.model = model
		}
	}
}

func WithMaxTokens(n int) Option {
	return func(p *Provider) {
		if n > 0 {
			p.maxTokens = int64(n)
		}
	}
}

func NewProvider(apiKey string, opts ...Option) *Provider {
	return NewProviderWithBaseURL(apiKey, "", nil, opts...)
}

func NewProviderWithBaseURL(apiKey, apiBase string, httpClient *http.Client, opts ...Option) *Provider {
	baseURL := normalizeBaseURL(apiBase)
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	}
	if httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(httpClient))
	}
	client := anthropic.NewClient(reqOpts...)

	p := &Provider{client: &client, baseURL: baseURL}
	p.apply(opts)
	return p
}

func NewProviderWithClient(client *anthropic.Client, opts ...Option) *Provider {
	p := &Provider{client: client, baseURL: defaultBaseURL}
	p.apply(opts)
	return p
}

func (p *Provider) apply(opts []Option) {
	p.model = defaultModel
	p.maxTokens = defaultMaxTokens
	for _, opt := range opts {
		opt(p)
	}
}

// Generate sends parts as one user turn and returns the concatenated text
// blocks of the answer.
func (p *Provider) Generate(ctx context.Context, parts []relay.Part) (string, error) {
	params, err := buildParams(parts, p.model, p.maxTokens)
	if err != nil {
		return "", err
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("claude API call: %w", err)
	}

	return parseResponse(resp), nil
}

func (p *Provider) Model() string {
	return p.model
}

func (p *Provider) BaseURL() string {
	return p.baseURL
}

func buildParams(parts []relay.Part, model string, maxTokens int64) (anthropic.MessageNewParams, error) {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(parts))
	for _, part := range parts {
		if !part.IsInline() {
			blocks = append(blocks, anthropic.NewTextBlock(part.Text))
			continue
		}
		if !strings.HasPrefix(part.MIMEType, "image/") {
			return anthropic.MessageNewParams{}, fmt.Errorf("%w: %s", ErrUnsupportedMedia, part.MIMEType)
		}
		encoded := base64.StdEncoding.EncodeToString(part.Data)
		blocks = append(blocks, anthropic.NewImageBlockBase64(part.MIMEType, encoded))
	}

	return anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
	}, nil
}

func parseResponse(resp *anthropic.Message) string {
	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	return sb.String()
}

func normalizeBaseURL(apiBase string) string {
	base := strings.TrimSpace(apiBase)
	if base == "" {
		return defaultBaseURL
	}

	base = strings.TrimRight(base, "/")
	if b, ok := strings.CutSuffix(base, "/v1"); ok {
		base = b
	}
	if base == "" {
		return defaultBaseURL
	}

	return base
}
