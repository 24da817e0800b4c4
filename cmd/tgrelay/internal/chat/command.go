package chat

import (
	"github.com/spf13/cobra"
)

func NewChatCommand() *cobra.Command {
	var (
		message string
		debug   bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the relay's text path from the terminal",
		Args:  cobra.NoArgs,
		Example: `  tgrelay chat
  tgrelay chat -m "Hello"
  tgrelay chat -m "/stable a lighthouse at dusk"`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return chatCmd(message, debug)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Send a single message and exit")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	return cmd
}
