package relay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	voice := &FileRef{FileID: "v"}
	audio := &FileRef{FileID: "a"}

	tests := []struct {
		name    string
		msg     Message
		want    Kind
		file    string
		command string
		args    string
	}{
		{name: "text", msg: Message{Text: "hello"}, want: KindText},
		{name: "command", msg: Message{Text: "/stable a red fox"}, want: KindCommand, command: "stable", args: "a red fox"},
		{name: "command with bot name", msg: Message{Text: "/Stable@relay_bot\nsunset"}, want: KindCommand, command: "stable", args: "sunset"},
		{name: "bare command", msg: Message{Text: "/help"}, want: KindCommand, command: "help"},
		{name: "photo", msg: Message{Photo: []FileRef{{FileID: "1"}, {FileID: "2"}}}, want: KindPhoto, file: "2"},
		{name: "voice", msg: Message{Voice: voice}, want: KindVoice, file: "v"},
		{name: "audio", msg: Message{Audio: audio}, want: KindAudio, file: "a"},
		{name: "empty", msg: Message{}, want: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := Classify(tt.msg)
			assert.Equal(t, tt.want, u.Kind)
			assert.Equal(t, tt.command, u.Command)
			assert.Equal(t, tt.args, u.Args)
			if tt.file == "" {
				assert.Nil(t, u.File)
			} else {
				require.NotNil(t, u.File)
				assert.Equal(t, tt.file, u.File.FileID)
			}
		})
	}
}

func TestLargestPhoto(t *testing.T) {
	assert.Nil(t, LargestPhoto(nil))
	got := LargestPhoto([]FileRef{{FileID: "a"}, {FileID: "b"}})
	require.NotNil(t, got)
	assert.Equal(t, "b", got.FileID)
}

func TestImageCommand_RepliesFirstImage(t *testing.T) {
	h := newHarness()
	h.images.urls = []string{"https://img.example/1.png", "https://img.example/2.png"}
	d := newDispatcher(t, h, Options{})

	reply, err := d.Handle(context.Background(), textUpdate("/stable a red fox"))
	require.NoError(t, err)

	assert.Equal(t, ReplyPhoto, reply.Kind)
	assert.Equal(t, []string{"a red fox"}, h.images.prompts)
	require.Len(t, h.sender.sent, 1)
	assert.Equal(t, "https://img.example/1.png", h.sender.sent[0].url)
	assert.Empty(t, h.generator.calls)
}

func TestImageCommand_MissingPrompt(t *testing.T) {
	h := newHarness()
	d := newDispatcher(t, h, Options{})

	_, err := d.Handle(context.Background(), textUpdate("/stable   "))
	require.NoError(t, err)
	assert.Empty(t, h.images.prompts)
	assert.Equal(t, DefaultMessages().ImagePromptMissing, h.sender.sent[0].text)
}

func TestImageCommand_EmptyResult(t *testing.T) {
	h := newHarness()
	d := newDispatcher(t, h, Options{})

	_, err := d.Handle(context.Background(), textUpdate("/stable fox"))
	require.NoError(t, err)
	assert.Equal(t, DefaultMessages().ImageFailed, h.sender.sent[0].text)
}

func TestImageCommand_ErrorUsesSafetyMessage(t *testing.T) {
	h := newHarness()
	h.images.err = errNetwork
	d := newDispatcher(t, h, Options{})

	_, err := d.Handle(context.Background(), textUpdate("/stable fox"))
	require.NoError(t, err)
	assert.Equal(t, DefaultMessages().ImageRejected, h.sender.sent[0].text)
	assert.NotEqual(t, DefaultMessages().GenericError, h.sender.sent[0].text)
}

func TestImageCommand_Disabled(t *testing.T) {
	h := newHarness()
	deps := h.deps()
	deps.Images = nil
	d, err := NewDispatcher(deps, Options{})
	require.NoError(t, err)

	_, err = d.Handle(context.Background(), textUpdate("/stable fox"))
	require.NoError(t, err)
	assert.Equal(t, DefaultMessages().ImageDisabled, h.sender.sent[0].text)
}

func TestImageCommand_CustomToken(t *testing.T) {
	h := newHarness()
	h.images.urls = []string{"https://img.example/x.png"}
	h.generator.answers = []string{"text answer"}
	d := newDispatcher(t, h, Options{ImageCommand: "draw"})

	_, err := d.Handle(context.Background(), textUpdate("/draw fox"))
	require.NoError(t, err)
	assert.Equal(t, ReplyPhoto, h.sender.sent[0].kind)

	// The default token is now an ordinary prompt.
	_, err = d.Handle(context.Background(), textUpdate("/stable fox"))
	require.NoError(t, err)
	assert.Equal(t, "text answer", h.sender.sent[1].text)
}

func TestHelpCommand(t *testing.T) {
	h := newHarness()
	d := newDispatcher(t, h, Options{})

	_, err := d.Handle(context.Background(), textUpdate("/start"))
	require.NoError(t, err)
	assert.Contains(t, h.sender.sent[0].text, "/stable <")
	assert.NotContains(t, h.sender.sent[0].text, CommandPlaceholder)
	assert.Empty(t, h.generator.calls)
}

func TestHelpCommand_NamesConfiguredImageCommand(t *testing.T) {
	h := newHarness()
	d := newDispatcher(t, h, Options{
		ImageCommand: "/Draw",
		Messages:     Messages{Help: "For an image: {command} <description>."},
	})

	_, err := d.Handle(context.Background(), textUpdate("/help"))
	require.NoError(t, err)
	require.Len(t, h.sender.sent, 1)
	assert.Equal(t, "For an image: /draw <description>.", h.sender.sent[0].text)
	assert.NotContains(t, h.sender.sent[0].text, "/stable")
}
