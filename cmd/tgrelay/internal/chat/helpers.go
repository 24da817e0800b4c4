package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/tinyland-inc/tgrelay/cmd/tgrelay/internal"
	"github.com/tinyland-inc/tgrelay/pkg/relay"
)

// consoleChatID stands in for a Telegram chat id in terminal sessions.
const consoleChatID = 0

func chatCmd(message string, debug bool) error {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	internal.SetupLogging(cfg, debug)
	if debug {
		fmt.Println("🔍 Debug mode enabled")
	}

	if err := cfg.ValidateAI(); err != nil {
		return err
	}

	ctx := context.Background()
	deps, err := internal.BuildBackends(ctx, cfg)
	if err != nil {
		return err
	}
	out := &console{out: os.Stdout}
	deps.Sender = out
	deps.Files = out

	opts, err := internal.RelayOptions(cfg)
	if err != nil {
		return err
	}

	d, err := relay.NewDispatcher(deps, opts)
	if err != nil {
		return err
	}

	if message != "" {
		return processLine(ctx, d, message)
	}

	fmt.Printf("%s Interactive mode (Ctrl+C to exit)\n\n", internal.Logo)
	interactiveMode(d)

	return nil
}

// processLine runs one line through the relay as if it had arrived as a
// Telegram text message, so commands like /stable work too.
func processLine(ctx context.Context, d *relay.Dispatcher, line string) error {
	u := relay.Classify(relay.Message{ChatID: consoleChatID, SenderID: "cli", Text: line})
	_, err := d.Handle(ctx, u)
	return err
}

func interactiveMode(d *relay.Dispatcher) {
	prompt := fmt.Sprintf("%s You: ", internal.Logo)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     filepath.Join(os.TempDir(), ".tgrelay_history"),
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("Error initializing readline: %v\n", err)
		fmt.Println("Falling back to simple input mode...")
		simpleInteractiveMode(d, os.Stdin)
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				fmt.Println("\nGoodbye!")
				return
			}
			fmt.Printf("Error reading input: %v\n", err)
			continue
		}

		if !handleInput(d, line) {
			return
		}
	}
}

func simpleInteractiveMode(d *relay.Dispatcher, in io.Reader) {
	reader := bufio.NewReader(in)
	for {
		fmt.Printf("%s You: ", internal.Logo)
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Println("\nGoodbye!")
				return
			}
			fmt.Printf("Error reading input: %v\n", err)
			continue
		}

		if !handleInput(d, line) {
			return
		}
	}
}

// handleInput returns false when the user asked to leave.
func handleInput(d *relay.Dispatcher, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}

	if input == "exit" || input == "quit" {
		fmt.Println("Goodbye!")
		return false
	}

	if err := processLine(context.Background(), d, input); err != nil {
		fmt.Printf("Error: %v\n", err)
	}
	return true
}
