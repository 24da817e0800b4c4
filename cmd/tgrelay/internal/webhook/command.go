package webhook

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tinyland-inc/tgrelay/cmd/tgrelay/internal"
	"github.com/tinyland-inc/tgrelay/pkg/config"
	"github.com/tinyland-inc/tgrelay/pkg/telegram"
)

func NewWebhookCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Manage the Telegram webhook registration",
		Example: `  tgrelay webhook set https://relay.example.com/api/telegram-webhook
  tgrelay webhook info
  tgrelay webhook delete --drop-pending`,
	}

	cmd.AddCommand(newSetCommand(), newDeleteCommand(), newInfoCommand())

	return cmd
}

func newSetCommand() *cobra.Command {
	var (
		secret      string
		dropPending bool
	)

	cmd := &cobra.Command{
		Use:   "set [url]",
		Short: "Register the webhook URL (default: TELEGRAM_WEBHOOK_URL)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, tg, err := loadClient()
			if err != nil {
				return err
			}

			url := cfg.Telegram.WebhookURL
			if len(args) == 1 {
				url = args[0]
			}
			if url == "" {
				return fmt.Errorf("no webhook URL: pass one or set TELEGRAM_WEBHOOK_URL")
			}
			if !cmd.Flags().Changed("secret") {
				secret = cfg.Telegram.WebhookSecret
			}

			if err := tg.SetWebhook(context.Background(), url, secret, dropPending); err != nil {
				return err
			}
			fmt.Printf("✓ Webhook set to %s\n", url)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "",
		"Secret token Telegram echoes back (default: TELEGRAM_WEBHOOK_SECRET)")
	cmd.Flags().BoolVar(&dropPending, "drop-pending", false,
		"Drop updates queued while no webhook was set")

	return cmd
}

func newDeleteCommand() *cobra.Command {
	var dropPending bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Remove the webhook registration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, tg, err := loadClient()
			if err != nil {
				return err
			}
			if err := tg.DeleteWebhook(context.Background(), dropPending); err != nil {
				return err
			}
			fmt.Println("✓ Webhook deleted")
			return nil
		},
	}

	cmd.Flags().BoolVar(&dropPending, "drop-pending", false, "Drop pending updates")

	return cmd
}

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the current webhook status",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, tg, err := loadClient()
			if err != nil {
				return err
			}
			info, err := tg.WebhookInfo(context.Background())
			if err != nil {
				return err
			}
			printInfo(info)
			return nil
		},
	}
}

func loadClient() (*config.Config, *telegram.Client, error) {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("error loading config: %w", err)
	}
	internal.SetupLogging(cfg, false)
	if cfg.Telegram.Token == "" {
		return nil, nil, &config.ConfigError{Missing: []string{"TELEGRAM_BOT_TOKEN"}}
	}
	tg, err := internal.NewTelegramClient(cfg, false)
	if err != nil {
		return nil, nil, err
	}
	return cfg, tg, nil
}

func printInfo(info *telegram.WebhookInfo) {
	url := info.URL
	if url == "" {
		url = "(none)"
	}
	fmt.Printf("URL:             %s\n", url)
	fmt.Printf("Pending updates: %d\n", info.PendingUpdateCount)
	if info.LastErrorMessage != "" {
		fmt.Printf("Last error:      %s\n", info.LastErrorMessage)
	}
}
