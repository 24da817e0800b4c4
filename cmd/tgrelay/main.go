// tgrelay - Telegram webhook relay to generative AI backends.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinyland-inc/tgrelay/cmd/tgrelay/internal"
	"github.com/tinyland-inc/tgrelay/cmd/tgrelay/internal/chat"
	"github.com/tinyland-inc/tgrelay/cmd/tgrelay/internal/serve"
	"github.com/tinyland-inc/tgrelay/cmd/tgrelay/internal/version"
	"github.com/tinyland-inc/tgrelay/cmd/tgrelay/internal/webhook"
)

func NewTgrelayCommand() *cobra.Command {
	short := fmt.Sprintf("%s tgrelay - Telegram to AI relay v%s\n\n", internal.Logo, internal.GetVersion())

	cmd := &cobra.Command{
		Use:     "tgrelay",
		Short:   short,
		Example: "tgrelay serve",
	}

	cmd.AddCommand(
		serve.NewServeCommand(),
		chat.NewChatCommand(),
		webhook.NewWebhookCommand(),
		version.NewVersionCommand(),
	)

	return cmd
}

func main() {
	cmd := NewTgrelayCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
