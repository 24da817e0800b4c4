package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tinyland-inc/tgrelay/cmd/tgrelay/internal"
	"github.com/tinyland-inc/tgrelay/pkg/config"
	"github.com/tinyland-inc/tgrelay/pkg/logger"
	"github.com/tinyland-inc/tgrelay/pkg/relay"
	"github.com/tinyland-inc/tgrelay/pkg/webhook"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(debug bool) error {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	internal.SetupLogging(cfg, debug)
	if debug {
		fmt.Println("🔍 Debug mode enabled")
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := newHandler(cfg, debug)
	if _, err := handler.Init(ctx); err != nil {
		return fmt.Errorf("error initialising relay: %w", err)
	}

	if cfg.Telegram.WebhookURL != "" {
		tg, err := internal.NewTelegramClient(cfg, debug)
		if err != nil {
			return err
		}
		if err := tg.SetWebhook(ctx, cfg.Telegram.WebhookURL, cfg.Telegram.WebhookSecret, false); err != nil {
			return fmt.Errorf("error registering webhook: %w", err)
		}
		fmt.Printf("✓ Webhook registered: %s\n", cfg.Telegram.WebhookURL)
	}

	// The write timeout covers a branch that ran into UpdateTimeout plus the
	// reply sent after it.
	writeTimeout := cfg.Relay.UpdateTimeout + relay.DeliverTimeout + 10*time.Second
	server := webhook.NewServer(cfg.ListenAddr(), cfg.Gateway.WebhookPath, handler, writeTimeout)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	logger.InfoCF("serve", "Relay started", map[string]any{
		"addr":       cfg.ListenAddr(),
		"path":       cfg.Gateway.WebhookPath,
		"provider":   cfg.AI.Provider,
		"photo_mode": cfg.Relay.PhotoMode,
		"audio_mode": cfg.Relay.AudioMode,
	})
	fmt.Printf("%s Relay listening on http://%s%s\n", internal.Logo, cfg.ListenAddr(), cfg.Gateway.WebhookPath)
	fmt.Printf("✓ Health endpoints available at http://%s/health and /ready\n", cfg.ListenAddr())
	fmt.Println("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	fmt.Println("\nShutting down...")
	cancel()
	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()
	if err := server.Stop(stopCtx); err != nil {
		logger.ErrorCF("serve", "Graceful shutdown failed", map[string]any{"error": err.Error()})
	}
	fmt.Println("✓ Relay stopped")

	return nil
}

func newHandler(cfg *config.Config, debug bool) *webhook.Handler {
	factory := func(ctx context.Context) (webhook.UpdateHandler, error) {
		d, err := internal.BuildDispatcher(ctx, cfg, debug)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	return webhook.NewHandler(factory, webhook.Options{
		Secret:        cfg.Telegram.WebhookSecret,
		AllowFrom:     cfg.Telegram.AllowFrom,
		UpdateTimeout: cfg.Relay.UpdateTimeout,
	})
}
