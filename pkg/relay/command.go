package relay

import (
	"context"
	"errors"
	"strings"
)

func (d *Dispatcher) handleCommand(ctx context.Context, u Update) Reply {
	switch u.Command {
	case "start", "help":
		return textReply(u, d.opts.Messages.Help)
	case d.opts.ImageCommand:
		return d.handleImage(ctx, u)
	}
	// Unknown commands are ordinary prompts.
	return d.handleText(ctx, u, u.Text)
}

// handleImage sends the command's argument to the image backend and replies
// with the first generated image.
func (d *Dispatcher) handleImage(ctx context.Context, u Update) Reply {
	prompt := strings.TrimSpace(u.Args)
	if prompt == "" {
		return textReply(u, d.opts.Messages.ImagePromptMissing)
	}

	if d.deps.Images == nil {
		return textReply(u, d.opts.Messages.ImageDisabled)
	}

	urls, err := d.deps.Images.GenerateImage(ctx, prompt)
	if err != nil {
		d.logFailure(u, "image", err)
		return textReply(u, d.opts.Messages.ImageRejected)
	}
	if len(urls) == 0 || urls[0] == "" {
		d.logFailure(u, "image", errors.New("image backend returned no images"))
		return textReply(u, d.opts.Messages.ImageFailed)
	}

	return Reply{Kind: ReplyPhoto, ChatID: u.ChatID, PhotoURL: urls[0]}
}
