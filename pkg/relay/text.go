package relay

import (
	"context"
	"errors"
	"strings"
)

var errEmptyGeneration = errors.New("generator returned empty text")

// handleText submits text as a single-part prompt and replies with the
// generated answer unchanged.
func (d *Dispatcher) handleText(ctx context.Context, u Update, text string) Reply {
	if strings.TrimSpace(text) == "" {
		return textReply(u, d.opts.Messages.EmptyPrompt)
	}

	answer, err := d.generate(ctx, []Part{TextPart(text)})
	if err != nil {
		d.logFailure(u, "text", err)
		return textReply(u, d.opts.Messages.GenericError)
	}

	return textReply(u, answer)
}

func (d *Dispatcher) generate(ctx context.Context, parts []Part) (string, error) {
	answer, err := d.deps.Generator.Generate(ctx, parts)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return "", errEmptyGeneration
	}
	return answer, nil
}
