// Package openaiprovider adapts the OpenAI chat completions and images APIs
// to relay.Generator and relay.ImageGenerator.
package openaiprovider

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/tinyland-inc/tgrelay/pkg/relay"
)

const (
	DefaultChatModel  = "gpt-4o-mini"
	DefaultImageModel = "dall-e-3"
	DefaultImageSize  = "1024x1024"
)

var (
	// ErrUnsupportedMedia is returned for inline parts chat completions
	// cannot carry (for example Ogg/Opus voice notes).
	ErrUnsupportedMedia = errors.New("openai: unsupported inline media type")

	errEmptyChoices = errors.New("openai: empty choices")
)

type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	ImageSize  string
	HTTPClient *http.Client
}

func newClient(opts Options) openai.Client {
	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(strings.TrimRight(base, "/")+"/"))
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}
	return openai.NewClient(reqOpts...)
}

type ChatProvider struct {
	client openai.Client
	model  string
}

func NewChatProvider(opts Options) *ChatProvider {
	model := opts.Model
	if model == "" {
		model = DefaultChatModel
	}
	return &ChatProvider{client: newClient(opts), model: model}
}

func (p *ChatProvider) Model() string {
	return p.model
}

func (p *ChatProvider) Generate(ctx context.Context, parts []relay.Part) (string, error) {
	content, err := buildContent(parts)
	if err != nil {
		return "", err
	}

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(content),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyChoices
	}
	return resp.Choices[0].Message.Content, nil
}

func buildContent(parts []relay.Part) ([]openai.ChatCompletionContentPartUnionParam, error) {
	content := make([]openai.ChatCompletionContentPartUnionParam, 0, len(parts))
	for _, part := range parts {
		if !part.IsInline() {
			content = append(content, openai.TextContentPart(part.Text))
			continue
		}

		encoded := base64.StdEncoding.EncodeToString(part.Data)
		switch {
		case strings.HasPrefix(part.MIMEType, "image/"):
			content = append(content, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: "data:" + part.MIMEType + ";base64," + encoded,
			}))
		case part.MIMEType == "audio/mpeg" || part.MIMEType == "audio/mp3":
			content = append(content, openai.InputAudioContentPart(openai.ChatCompletionContentPartInputAudioInputAudioParam{
				Data:   encoded,
				Format: "mp3",
			}))
		case part.MIMEType == "audio/wav" || part.MIMEType == "audio/x-wav":
			content = append(content, openai.InputAudioContentPart(openai.ChatCompletionContentPartInputAudioInputAudioParam{
				Data:   encoded,
				Format: "wav",
			}))
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedMedia, part.MIMEType)
		}
	}
	return content, nil
}

// ImageProvider generates images with the OpenAI images endpoint and returns
// their hosted URLs.
type ImageProvider struct {
	client openai.Client
	model  string
	size   string
}

func NewImageProvider(opts Options) *ImageProvider {
	model := opts.Model
	if model == "" {
		model = DefaultImageModel
	}
	size := opts.ImageSize
	if size == "" {
		size = DefaultImageSize
	}
	return &ImageProvider{client: newClient(opts), model: model, size: size}
}

func (p *ImageProvider) GenerateImage(ctx context.Context, prompt string) ([]string, error) {
	resp, err := p.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(p.model),
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize(p.size),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatURL,
	})
	if err != nil {
		return nil, fmt.Errorf("openai image generation: %w", err)
	}

	urls := make([]string, 0, len(resp.Data))
	for _, img := range resp.Data {
		if img.URL != "" {
			urls = append(urls, img.URL)
		}
	}
	return urls, nil
}
