// Package webhook serves the Telegram webhook callback and the health
// endpoints.
package webhook

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mymmrac/telego"

	"github.com/tinyland-inc/tgrelay/pkg/config"
	"github.com/tinyland-inc/tgrelay/pkg/logger"
	"github.com/tinyland-inc/tgrelay/pkg/relay"
	"github.com/tinyland-inc/tgrelay/pkg/telegram"
)

// SecretHeader is set by Telegram on every webhook call when a secret token
// was registered with setWebhook.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

const maxBodyBytes = 4 << 20

// UpdateHandler processes one classified update and delivers its reply.
// *relay.Dispatcher implements it.
type UpdateHandler interface {
	Handle(ctx context.Context, u relay.Update) (relay.Reply, error)
}

// Factory builds the UpdateHandler on first use.
type Factory func(ctx context.Context) (UpdateHandler, error)

type Options struct {
	Secret        string
	AllowFrom     []string
	UpdateTimeout time.Duration
}

type Handler struct {
	factory Factory
	opts    Options
	allow   telegram.AllowList

	mu    sync.Mutex
	relay UpdateHandler
	fatal error
}

func NewHandler(factory Factory, opts Options) *Handler {
	return &Handler{
		factory: factory,
		opts:    opts,
		allow:   telegram.AllowList(opts.AllowFrom),
	}
}

// Init returns the cached UpdateHandler, building it if needed. A
// configuration error is remembered and returned for every later call;
// other build errors are retried on the next call.
func (h *Handler) Init(ctx context.Context) (UpdateHandler, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.relay != nil {
		return h.relay, nil
	}
	if h.fatal != nil {
		return nil, h.fatal
	}

	r, err := h.factory(ctx)
	if err != nil {
		if config.IsConfigError(err) {
			h.fatal = err
		}
		return nil, err
	}
	h.relay = r
	logger.InfoC("webhook", "Relay initialised")
	return r, nil
}

func (h *Handler) Ready() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.relay != nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.opts.Secret != "" {
		got := r.Header.Get(SecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.opts.Secret)) != 1 {
			logger.WarnCF("webhook", "Rejected webhook call with bad secret token", map[string]any{
				"remote": r.RemoteAddr,
			})
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
	}

	rel, err := h.Init(r.Context())
	if err != nil {
		logger.ErrorCF("webhook", "Relay unavailable", map[string]any{"error": err.Error()})
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var upd telego.Update
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&upd); err != nil {
		logger.ErrorCF("webhook", "Failed to decode update", map[string]any{"error": err.Error()})
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	msg, ok := telegram.ToMessage(upd)
	if !ok {
		logger.DebugCF("webhook", "Update without message ignored", map[string]any{"update_id": upd.UpdateID})
		writeOK(w)
		return
	}

	if !h.allow.IsAllowed(msg.SenderID) {
		logger.DebugCF("webhook", "Message rejected by allowlist", map[string]any{
			"sender_id": msg.SenderID,
			"chat_id":   msg.ChatID,
		})
		writeOK(w)
		return
	}

	u := relay.Classify(msg)
	u.RequestID = uuid.New().String()
	logger.InfoCF("webhook", "Update received", map[string]any{
		"request_id": u.RequestID,
		"update_id":  u.UpdateID,
		"kind":       u.Kind.String(),
		"chat_id":    u.ChatID,
	})

	// UpdateTimeout bounds the branch; the dispatcher sends the reply under
	// its own deadline.
	ctx := r.Context()
	if h.opts.UpdateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opts.UpdateTimeout)
		defer cancel()
	}

	if _, err := rel.Handle(ctx, u); err != nil {
		logger.ErrorCF("webhook", "Update processing failed", map[string]any{
			"request_id": u.RequestID,
			"chat_id":    u.ChatID,
			"error":      err.Error(),
		})
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeOK(w)
}

func writeOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}
