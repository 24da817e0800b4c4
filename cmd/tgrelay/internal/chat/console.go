package chat

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tinyland-inc/tgrelay/cmd/tgrelay/internal"
)

var errNoFiles = errors.New("chat: file attachments are not available in the terminal")

// console prints replies instead of sending them to a chat. It has no files
// to resolve, so media branches always fail over to their fixed replies.
type console struct {
	out io.Writer
}

func (c *console) SendText(_ context.Context, _ int64, text string) error {
	_, err := fmt.Fprintf(c.out, "\n%s %s\n\n", internal.Logo, text)
	return err
}

func (c *console) SendPhoto(_ context.Context, _ int64, photoURL string, data []byte) error {
	if photoURL != "" {
		_, err := fmt.Fprintf(c.out, "\n%s [image] %s\n\n", internal.Logo, photoURL)
		return err
	}
	_, err := fmt.Fprintf(c.out, "\n%s [image, %d bytes]\n\n", internal.Logo, len(data))
	return err
}

func (c *console) SendAudio(_ context.Context, _ int64, data []byte, caption string) error {
	_, err := fmt.Fprintf(c.out, "\n%s [audio, %d bytes] %s\n\n", internal.Logo, len(data), caption)
	return err
}

func (c *console) SendVoice(_ context.Context, _ int64, data []byte, caption string) error {
	_, err := fmt.Fprintf(c.out, "\n%s [voice, %d bytes] %s\n\n", internal.Logo, len(data), caption)
	return err
}

func (c *console) ResolveFileURL(context.Context, string) (string, error) {
	return "", errNoFiles
}
