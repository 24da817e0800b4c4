// Package relay turns classified chat updates into exactly one reply.
//
// Each update is routed by its Kind to one branch: text generation, audio
// transcription, photo description (or URL passthrough) and the image
// generation command. A branch performs its external calls sequentially and
// returns a Reply value; the Dispatcher then delivers that reply. Branch
// failures are logged and turned into a fixed reply string, they never reach
// the caller.
package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tinyland-inc/tgrelay/pkg/logger"
)

// PhotoMode selects how photo updates are answered.
type PhotoMode string

const (
	PhotoVision      PhotoMode = "vision"
	PhotoPassthrough PhotoMode = "passthrough"
)

// AudioMode selects what happens with a transcribed audio or voice message.
type AudioMode string

const (
	// AudioReroute feeds the transcript into the text path as a new prompt.
	AudioReroute AudioMode = "reroute"
	// AudioTranscript replies with the labelled transcript.
	AudioTranscript AudioMode = "transcript"
	// AudioEcho re-uploads the downloaded buffer without calling the model.
	AudioEcho AudioMode = "echo"
)

const (
	DefaultImageCommand = "stable"
	defaultVoiceMIME    = "audio/ogg"
	defaultAudioMIME    = "audio/mpeg"
	defaultPhotoMIME    = "image/jpeg"

	// DeliverTimeout bounds the outbound reply call. It is counted from the
	// end of the branch, not from the start of the update.
	DeliverTimeout = 30 * time.Second
)

var (
	ErrMissingSender    = errors.New("relay: sender is required")
	ErrMissingResolver  = errors.New("relay: file resolver is required")
	ErrMissingGenerator = errors.New("relay: generator is required")
	ErrMissingFile      = errors.New("relay: update has no file reference")
)

// Deps are the external capabilities the dispatcher consumes. Images is
// optional; the image command answers with a fixed message when it is nil.
type Deps struct {
	Sender     Sender
	Files      FileResolver
	Generator  Generator
	Images     ImageGenerator
	Downloader Downloader
}

type Options struct {
	PhotoMode    PhotoMode
	AudioMode    AudioMode
	ImageCommand string
	Messages     Messages
}

type Dispatcher struct {
	deps Deps
	opts Options
}

func NewDispatcher(deps Deps, opts Options) (*Dispatcher, error) {
	if deps.Sender == nil {
		return nil, ErrMissingSender
	}
	if deps.Files == nil {
		return nil, ErrMissingResolver
	}
	if deps.Generator == nil {
		return nil, ErrMissingGenerator
	}
	if deps.Downloader == nil {
		return nil, errors.New("relay: downloader is required")
	}

	switch opts.PhotoMode {
	case "":
		opts.PhotoMode = PhotoVision
	case PhotoVision, PhotoPassthrough:
	default:
		return nil, fmt.Errorf("relay: unknown photo mode %q", opts.PhotoMode)
	}

	switch opts.AudioMode {
	case "":
		opts.AudioMode = AudioReroute
	case AudioReroute, AudioTranscript, AudioEcho:
	default:
		return nil, fmt.Errorf("relay: unknown audio mode %q", opts.AudioMode)
	}

	if opts.ImageCommand == "" {
		opts.ImageCommand = DefaultImageCommand
	}
	opts.ImageCommand = strings.ToLower(strings.TrimPrefix(opts.ImageCommand, "/"))
	opts.Messages = opts.Messages.WithDefaults()
	opts.Messages.Help = strings.ReplaceAll(opts.Messages.Help, CommandPlaceholder, "/"+opts.ImageCommand)

	return &Dispatcher{deps: deps, opts: opts}, nil
}

// Options returns the effective options after defaults were applied.
func (d *Dispatcher) Options() Options {
	return d.opts
}

// Handle routes u and delivers the resulting reply. A deadline on ctx bounds
// the branch only: the reply is sent under a fresh DeliverTimeout so that a
// timed-out backend call still produces its fallback reply. The returned
// error is non-nil only when delivery itself failed; branch failures have
// already been converted into a reply.
func (d *Dispatcher) Handle(ctx context.Context, u Update) (Reply, error) {
	if u.RequestID == "" {
		u.RequestID = uuid.New().String()
	}

	reply := d.Route(ctx, u)
	if reply.Kind == ReplyNone {
		logger.DebugCF("relay", "Update left unhandled", map[string]any{
			"request_id": u.RequestID,
			"kind":       u.Kind.String(),
			"chat_id":    u.ChatID,
		})
		return reply, nil
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DeliverTimeout)
	defer cancel()
	if err := d.Deliver(sendCtx, reply); err != nil {
		return reply, fmt.Errorf("delivering %s reply to chat %d: %w", reply.Kind, reply.ChatID, err)
	}

	logger.InfoCF("relay", "Reply delivered", map[string]any{
		"request_id": u.RequestID,
		"kind":       u.Kind.String(),
		"reply":      reply.Kind.String(),
		"chat_id":    u.ChatID,
	})
	return reply, nil
}

// Route selects the branch for u and returns its reply without delivering it.
func (d *Dispatcher) Route(ctx context.Context, u Update) Reply {
	switch u.Kind {
	case KindCommand:
		return d.handleCommand(ctx, u)
	case KindText:
		return d.handleText(ctx, u, u.Text)
	case KindPhoto:
		return d.handlePhoto(ctx, u)
	case KindAudio, KindVoice:
		return d.handleAudio(ctx, u)
	case KindUnknown:
		return Reply{}
	}

	logger.WarnCF("relay", "Unrecognised update kind", map[string]any{
		"request_id": u.RequestID,
		"kind":       u.Kind.String(),
	})
	return Reply{}
}

// Deliver performs the single outbound call for r.
func (d *Dispatcher) Deliver(ctx context.Context, r Reply) error {
	s := d.deps.Sender
	switch r.Kind {
	case ReplyText:
		return s.SendText(ctx, r.ChatID, r.Text)
	case ReplyPhoto:
		return s.SendPhoto(ctx, r.ChatID, r.PhotoURL, r.Data)
	case ReplyAudio:
		return s.SendAudio(ctx, r.ChatID, r.Data, r.Caption)
	case ReplyVoice:
		return s.SendVoice(ctx, r.ChatID, r.Data, r.Caption)
	case ReplyNone:
		return nil
	}
	return fmt.Errorf("unknown reply kind %s", r.Kind)
}

func textReply(u Update, text string) Reply {
	return Reply{Kind: ReplyText, ChatID: u.ChatID, Text: text}
}

func (d *Dispatcher) logFailure(u Update, branch string, err error) {
	logger.ErrorCF("relay", "Branch failed", map[string]any{
		"request_id": u.RequestID,
		"branch":     branch,
		"kind":       u.Kind.String(),
		"chat_id":    u.ChatID,
		"error":      err.Error(),
	})
}
