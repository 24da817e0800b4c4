package relay

import (
	"context"
	"fmt"
	"strings"
)

// fetch resolves and downloads the update's file. The returned MIME type is
// the declared one, or fallback when the platform did not declare any.
func (d *Dispatcher) fetch(ctx context.Context, ref *FileRef, fallback string) ([]byte, string, error) {
	if ref == nil || ref.FileID == "" {
		return nil, "", ErrMissingFile
	}

	url, err := d.deps.Files.ResolveFileURL(ctx, ref.FileID)
	if err != nil {
		return nil, "", fmt.Errorf("resolving file %s: %w", ref.FileID, err)
	}

	data, err := d.deps.Downloader.Download(ctx, url)
	if err != nil {
		return nil, "", fmt.Errorf("downloading file %s: %w", ref.FileID, err)
	}

	mimeType := strings.TrimSpace(ref.MIMEType)
	if mimeType == "" {
		mimeType = fallback
	}
	return data, mimeType, nil
}

// handleAudio downloads an audio or voice attachment, transcribes it and,
// depending on the audio mode, re-routes the transcript into the text path.
func (d *Dispatcher) handleAudio(ctx context.Context, u Update) Reply {
	fallback := defaultAudioMIME
	if u.Kind == KindVoice {
		fallback = defaultVoiceMIME
	}

	data, mimeType, err := d.fetch(ctx, u.File, fallback)
	if err != nil {
		d.logFailure(u, "audio", err)
		return textReply(u, d.opts.Messages.AudioTooLarge)
	}

	if d.opts.AudioMode == AudioEcho {
		kind := ReplyAudio
		if u.Kind == KindVoice {
			kind = ReplyVoice
		}
		return Reply{Kind: kind, ChatID: u.ChatID, Data: data, Caption: u.Caption}
	}

	transcript, err := d.generate(ctx, []Part{
		InlinePart(mimeType, data),
		TextPart(d.opts.Messages.TranscribeInstruction),
	})
	if err != nil {
		d.logFailure(u, "audio", fmt.Errorf("transcribing: %w", err))
		return textReply(u, d.opts.Messages.AudioTooLarge)
	}

	if d.opts.AudioMode == AudioTranscript {
		return textReply(u, d.opts.Messages.TranscriptLabel+transcript)
	}

	// The transcript enters the text path directly, so it can never be
	// classified as audio again.
	return d.handleText(ctx, u, transcript)
}

// handlePhoto answers a photo with either its public URL or a model
// generated description of the largest size.
func (d *Dispatcher) handlePhoto(ctx context.Context, u Update) Reply {
	if d.opts.PhotoMode == PhotoPassthrough {
		if u.File == nil || u.File.FileID == "" {
			d.logFailure(u, "photo", ErrMissingFile)
			return textReply(u, d.opts.Messages.GenericError)
		}
		url, err := d.deps.Files.ResolveFileURL(ctx, u.File.FileID)
		if err != nil {
			d.logFailure(u, "photo", fmt.Errorf("resolving file %s: %w", u.File.FileID, err))
			return textReply(u, d.opts.Messages.GenericError)
		}
		return textReply(u, url)
	}

	data, mimeType, err := d.fetch(ctx, u.File, defaultPhotoMIME)
	if err != nil {
		d.logFailure(u, "photo", err)
		return textReply(u, d.opts.Messages.GenericError)
	}

	instruction := u.Caption
	if strings.TrimSpace(instruction) == "" {
		instruction = d.opts.Messages.PhotoInstruction
	}

	description, err := d.generate(ctx, []Part{
		InlinePart(mimeType, data),
		TextPart(instruction),
	})
	if err != nil {
		d.logFailure(u, "photo", fmt.Errorf("describing: %w", err))
		return textReply(u, d.opts.Messages.GenericError)
	}

	return textReply(u, description)
}
