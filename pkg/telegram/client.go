// Package telegram adapts the Telegram Bot API (via telego) to the relay's
// chat capabilities: sending replies, resolving file URLs and registering
// the webhook.
package telegram

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/tinyland-inc/tgrelay/pkg/logger"
)

// MaxMessageLength is Telegram's limit for one text message, in runes.
const MaxMessageLength = 4096

type Client struct {
	bot              *telego.Bot
	maxMessageLength int
}

type options struct {
	apiServer  string
	httpClient *http.Client
	debug      bool
	maxLength  int
}

type Option func(*options)

// WithAPIServer points the client at a self-hosted Bot API server.
func WithAPIServer(url string) Option {
	return func(o *options) { o.apiServer = url }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

func WithDebug(debug bool) Option {
	return func(o *options) { o.debug = debug }
}

// WithMaxMessageLength sets the split threshold for long text replies.
// A value of 0 keeps MaxMessageLength.
func WithMaxMessageLength(n int) Option {
	return func(o *options) { o.maxLength = n }
}

func NewClient(token string, opts ...Option) (*Client, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	botOpts := []telego.BotOption{}
	if o.debug {
		botOpts = append(botOpts, telego.WithDefaultDebugLogger())
	} else {
		botOpts = append(botOpts, telego.WithDiscardLogger())
	}
	if o.apiServer != "" {
		botOpts = append(botOpts, telego.WithAPIServer(o.apiServer))
	}
	if o.httpClient != nil {
		botOpts = append(botOpts, telego.WithHTTPClient(o.httpClient))
	}

	bot, err := telego.NewBot(token, botOpts...)
	if err != nil {
		return nil, fmt.Errorf("telegram: creating bot: %w", err)
	}

	maxLength := o.maxLength
	if maxLength <= 0 {
		maxLength = MaxMessageLength
	}

	return &Client{bot: bot, maxMessageLength: maxLength}, nil
}

// SendText sends text as one logical reply. Text longer than the message
// limit goes out as consecutive chunks.
func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	for _, chunk := range SplitMessage(text, c.maxMessageLength) {
		if _, err := c.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), chunk)); err != nil {
			return fmt.Errorf("telegram: sendMessage: %w", err)
		}
	}
	return nil
}

// SendPhoto sends a photo by URL, or uploads data when photoURL is empty.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, photoURL string, data []byte) error {
	file := tu.FileFromURL(photoURL)
	if photoURL == "" {
		file = tu.File(tu.NameReader(bytes.NewReader(data), "image.png"))
	}
	if _, err := c.bot.SendPhoto(ctx, tu.Photo(tu.ID(chatID), file)); err != nil {
		return fmt.Errorf("telegram: sendPhoto: %w", err)
	}
	return nil
}

func (c *Client) SendAudio(ctx context.Context, chatID int64, data []byte, caption string) error {
	params := tu.Audio(tu.ID(chatID), tu.File(tu.NameReader(bytes.NewReader(data), "audio.mp3")))
	if caption != "" {
		params = params.WithCaption(caption)
	}
	if _, err := c.bot.SendAudio(ctx, params); err != nil {
		return fmt.Errorf("telegram: sendAudio: %w", err)
	}
	return nil
}

func (c *Client) SendVoice(ctx context.Context, chatID int64, data []byte, caption string) error {
	params := tu.Voice(tu.ID(chatID), tu.File(tu.NameReader(bytes.NewReader(data), "voice.ogg")))
	if caption != "" {
		params = params.WithCaption(caption)
	}
	if _, err := c.bot.SendVoice(ctx, params); err != nil {
		return fmt.Errorf("telegram: sendVoice: %w", err)
	}
	return nil
}

// ResolveFileURL asks Telegram for the file path of fileID and returns its
// download URL. The URL embeds the bot token and must not be logged.
func (c *Client) ResolveFileURL(ctx context.Context, fileID string) (string, error) {
	file, err := c.bot.GetFile(ctx, &telego.GetFileParams{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("telegram: getFile: %w", err)
	}
	if file.FilePath == "" {
		return "", fmt.Errorf("telegram: getFile returned no path for %s", fileID)
	}
	return c.bot.FileDownloadURL(file.FilePath), nil
}

// SetWebhook registers url as the bot's webhook. secret is echoed back by
// Telegram in the X-Telegram-Bot-Api-Secret-Token header.
func (c *Client) SetWebhook(ctx context.Context, url, secret string, dropPending bool) error {
	params := &telego.SetWebhookParams{
		URL:                url,
		SecretToken:        secret,
		AllowedUpdates:     []string{"message"},
		DropPendingUpdates: dropPending,
	}
	if err := c.bot.SetWebhook(ctx, params); err != nil {
		return fmt.Errorf("telegram: setWebhook: %w", err)
	}
	logger.InfoCF("telegram", "Webhook registered", map[string]any{"url": url})
	return nil
}

func (c *Client) DeleteWebhook(ctx context.Context, dropPending bool) error {
	if err := c.bot.DeleteWebhook(ctx, &telego.DeleteWebhookParams{DropPendingUpdates: dropPending}); err != nil {
		return fmt.Errorf("telegram: deleteWebhook: %w", err)
	}
	logger.InfoC("telegram", "Webhook deleted")
	return nil
}

// WebhookInfo is the subset of Telegram's webhook status the CLI prints.
type WebhookInfo struct {
	URL                string
	PendingUpdateCount int
	LastErrorMessage   string
}

func (c *Client) WebhookInfo(ctx context.Context) (*WebhookInfo, error) {
	info, err := c.bot.GetWebhookInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("telegram: getWebhookInfo: %w", err)
	}
	return &WebhookInfo{
		URL:                info.URL,
		PendingUpdateCount: info.PendingUpdateCount,
		LastErrorMessage:   info.LastErrorMessage,
	}, nil
}
