// Package geminiprovider adapts the Gemini API to relay.Generator.
package geminiprovider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/tinyland-inc/tgrelay/pkg/relay"
)

const DefaultModel = "gemini-2.0-flash"

var errNoCandidates = errors.New("gemini: response has no text")

type Provider struct {
	client *genai.Client
	model  string
}

type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

func NewProvider(ctx context.Context, opts Options) (*Provider, error) {
	cc := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimRight(base, "/") + "/"}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	return &Provider{client: client, model: model}, nil
}

func (p *Provider) Model() string {
	return p.model
}

// Generate sends parts in order as a single user turn. Inline parts travel as
// base64 inline data.
func (p *Provider) Generate(ctx context.Context, parts []relay.Part) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, buildContents(parts), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", errNoCandidates
	}
	return text, nil
}

func buildContents(parts []relay.Part) []*genai.Content {
	gparts := make([]*genai.Part, 0, len(parts))
	for _, part := range parts {
		if part.IsInline() {
			gparts = append(gparts, genai.NewPartFromBytes(part.Data, part.MIMEType))
		} else {
			gparts = append(gparts, genai.NewPartFromText(part.Text))
		}
	}
	return []*genai.Content{genai.NewContentFromParts(gparts, genai.RoleUser)}
}
