package relay

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoice_TranscriptIsReroutedIntoTextPath(t *testing.T) {
	h := newHarness()
	h.generator.answers = []string{"turn on the lights", "Lights are on."}
	d := newDispatcher(t, h, Options{})

	u := Classify(Message{ChatID: 9, Voice: &FileRef{FileID: "f1", FilePath: "f1.ogg"}})
	_, err := d.Handle(context.Background(), u)
	require.NoError(t, err)

	assert.Len(t, h.downloader.calls, 1)
	require.Len(t, h.generator.calls, 2)

	transcription := h.generator.calls[0]
	require.Len(t, transcription, 2)
	assert.True(t, transcription[0].IsInline())
	assert.Equal(t, "audio/ogg", transcription[0].MIMEType)
	assert.Equal(t, []byte("binary"), transcription[0].Data)
	assert.Equal(t, DefaultMessages().TranscribeInstruction, transcription[1].Text)

	second := h.generator.calls[1]
	require.Len(t, second, 1)
	assert.Equal(t, "turn on the lights", second[0].Text)

	require.Len(t, h.sender.sent, 1)
	assert.Equal(t, "Lights are on.", h.sender.sent[0].text)
}

func TestAudio_DefaultsToMPEG(t *testing.T) {
	h := newHarness()
	h.generator.answers = []string{"hello", "world"}
	d := newDispatcher(t, h, Options{})

	u := Classify(Message{ChatID: 9, Audio: &FileRef{FileID: "a1"}})
	_, err := d.Handle(context.Background(), u)
	require.NoError(t, err)

	require.NotEmpty(t, h.generator.calls)
	assert.Equal(t, "audio/mpeg", h.generator.calls[0][0].MIMEType)
}

func TestAudio_DeclaredMIMEIsKept(t *testing.T) {
	h := newHarness()
	h.generator.answers = []string{"hello", "world"}
	d := newDispatcher(t, h, Options{})

	u := Classify(Message{ChatID: 9, Audio: &FileRef{FileID: "a1", MIMEType: "audio/wav"}})
	_, err := d.Handle(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, "audio/wav", h.generator.calls[0][0].MIMEType)
}

func TestAudio_TranscriptMode(t *testing.T) {
	h := newHarness()
	h.generator.answers = []string{"turn on the lights"}
	d := newDispatcher(t, h, Options{AudioMode: AudioTranscript})

	_, err := d.Handle(context.Background(), Classify(Message{ChatID: 9, Voice: &FileRef{FileID: "f1"}}))
	require.NoError(t, err)

	assert.Len(t, h.generator.calls, 1)
	require.Len(t, h.sender.sent, 1)
	assert.Equal(t, DefaultMessages().TranscriptLabel+"turn on the lights", h.sender.sent[0].text)
}

func TestAudio_EchoModeReuploadsBuffer(t *testing.T) {
	h := newHarness()
	d := newDispatcher(t, h, Options{AudioMode: AudioEcho})

	_, err := d.Handle(context.Background(), Classify(Message{ChatID: 9, Voice: &FileRef{FileID: "f1"}, Caption: "c"}))
	require.NoError(t, err)
	_, err = d.Handle(context.Background(), Classify(Message{ChatID: 9, Audio: &FileRef{FileID: "a1"}}))
	require.NoError(t, err)

	assert.Empty(t, h.generator.calls)
	require.Len(t, h.sender.sent, 2)
	assert.Equal(t, ReplyVoice, h.sender.sent[0].kind)
	assert.Equal(t, "c", h.sender.sent[0].caption)
	assert.Equal(t, []byte("binary"), h.sender.sent[0].data)
	assert.Equal(t, ReplyAudio, h.sender.sent[1].kind)
}

func TestAudio_FailuresReplyAudioTooLarge(t *testing.T) {
	cases := map[string]func(h *harness){
		"resolve":  func(h *harness) { h.resolver.err = errors.New("file is too big") },
		"download": func(h *harness) { h.downloader.err = errNetwork },
		"generate": func(h *harness) { h.generator.err = errNetwork },
	}

	for name, breakIt := range cases {
		t.Run(name, func(t *testing.T) {
			h := newHarness()
			breakIt(h)
			d := newDispatcher(t, h, Options{})

			_, err := d.Handle(context.Background(), Classify(Message{ChatID: 9, Voice: &FileRef{FileID: "f1"}}))
			require.NoError(t, err)
			require.Len(t, h.sender.sent, 1)
			assert.Equal(t, DefaultMessages().AudioTooLarge, h.sender.sent[0].text)
		})
	}
}

func TestAudio_MissingFileReference(t *testing.T) {
	h := newHarness()
	d := newDispatcher(t, h, Options{})

	_, err := d.Handle(context.Background(), Update{Kind: KindVoice, Message: Message{ChatID: 9}})
	require.NoError(t, err)
	assert.Empty(t, h.downloader.calls)
	require.Len(t, h.sender.sent, 1)
	assert.Equal(t, DefaultMessages().AudioTooLarge, h.sender.sent[0].text)
}

func TestPhoto_VisionUsesCaptionVerbatim(t *testing.T) {
	h := newHarness()
	h.generator.answers = []string{"A cat on a sofa."}
	d := newDispatcher(t, h, Options{PhotoMode: PhotoVision})

	u := Classify(Message{
		ChatID:  5,
		Caption: "  Who is this?  ",
		Photo:   []FileRef{{FileID: "s"}, {FileID: "m"}, {FileID: "l"}},
	})
	_, err := d.Handle(context.Background(), u)
	require.NoError(t, err)

	assert.Equal(t, []string{"l"}, h.resolver.calls)
	require.Len(t, h.generator.calls, 1)
	parts := h.generator.calls[0]
	require.Len(t, parts, 2)
	assert.Equal(t, "image/jpeg", parts[0].MIMEType)
	assert.Equal(t, "  Who is this?  ", parts[1].Text)
	require.Len(t, h.sender.sent, 1)
	assert.Equal(t, "A cat on a sofa.", h.sender.sent[0].text)
}

func TestPhoto_VisionDefaultInstruction(t *testing.T) {
	h := newHarness()
	h.generator.answers = []string{"A dog."}
	d := newDispatcher(t, h, Options{})

	_, err := d.Handle(context.Background(), Classify(Message{ChatID: 5, Photo: []FileRef{{FileID: "p"}}}))
	require.NoError(t, err)
	assert.Equal(t, DefaultMessages().PhotoInstruction, h.generator.calls[0][1].Text)
}

func TestPhoto_PassthroughRepliesURL(t *testing.T) {
	h := newHarness()
	d := newDispatcher(t, h, Options{PhotoMode: PhotoPassthrough})

	_, err := d.Handle(context.Background(), Classify(Message{ChatID: 5, Photo: []FileRef{{FileID: "s"}, {FileID: "l"}}}))
	require.NoError(t, err)

	assert.Empty(t, h.generator.calls)
	assert.Empty(t, h.downloader.calls)
	require.Len(t, h.sender.sent, 1)
	assert.Equal(t, "https://files.example/l", h.sender.sent[0].text)
}

func TestPhoto_FailureRepliesGenericMessage(t *testing.T) {
	for _, mode := range []PhotoMode{PhotoVision, PhotoPassthrough} {
		h := newHarness()
		h.resolver.err = errNetwork
		d := newDispatcher(t, h, Options{PhotoMode: mode})

		_, err := d.Handle(context.Background(), Classify(Message{ChatID: 5, Photo: []FileRef{{FileID: "p"}}}))
		require.NoError(t, err)
		require.Len(t, h.sender.sent, 1, "mode %s", mode)
		assert.Equal(t, DefaultMessages().GenericError, h.sender.sent[0].text)
	}
}
