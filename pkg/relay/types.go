package relay

import (
	"context"
	"fmt"
)

// Kind is the primary content kind of an inbound update.
type Kind int

const (
	KindUnknown Kind = iota
	KindText
	KindCommand
	KindPhoto
	KindAudio
	KindVoice
)

var kindNames = map[Kind]string{
	KindUnknown: "unknown",
	KindText:    "text",
	KindCommand: "command",
	KindPhoto:   "photo",
	KindAudio:   "audio",
	KindVoice:   "voice",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// FileRef points at a file held by the chat platform.
type FileRef struct {
	FileID   string `json:"file_id"`
	FilePath string `json:"file_path,omitempty"`
	MIMEType string `json:"mime_type,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
}

// Message is the platform-neutral shape of an inbound chat message before
// classification. At most one of Text, Photo, Audio and Voice is expected to
// be set.
type Message struct {
	UpdateID int64     `json:"update_id"`
	ChatID   int64     `json:"chat_id"`
	SenderID string    `json:"sender_id"`
	Text     string    `json:"text,omitempty"`
	Caption  string    `json:"caption,omitempty"`
	Photo    []FileRef `json:"photo,omitempty"` // ascending resolution
	Audio    *FileRef  `json:"audio,omitempty"`
	Voice    *FileRef  `json:"voice,omitempty"`
}

// Update is a classified message. File is the attachment the selected branch
// works on; for photos it is the largest size.
type Update struct {
	Message
	Kind      Kind     `json:"kind"`
	RequestID string   `json:"request_id,omitempty"`
	Command   string   `json:"command,omitempty"`
	Args      string   `json:"args,omitempty"`
	File      *FileRef `json:"file,omitempty"`
}

// Part is one segment of a generation request: either inline binary data
// with its MIME type, or a plain text instruction.
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

func TextPart(text string) Part {
	return Part{Text: text}
}

func InlinePart(mimeType string, data []byte) Part {
	return Part{MIMEType: mimeType, Data: data}
}

func (p Part) IsInline() bool {
	return p.Data != nil
}

// ReplyKind selects the outbound delivery call.
type ReplyKind int

const (
	ReplyNone ReplyKind = iota
	ReplyText
	ReplyPhoto
	ReplyAudio
	ReplyVoice
)

var replyKindNames = map[ReplyKind]string{
	ReplyNone:  "none",
	ReplyText:  "text",
	ReplyPhoto: "photo",
	ReplyAudio: "audio",
	ReplyVoice: "voice",
}

func (k ReplyKind) String() string {
	if name, ok := replyKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("reply(%d)", int(k))
}

// Reply is the single outbound action produced for one update.
type Reply struct {
	Kind     ReplyKind
	ChatID   int64
	Text     string
	PhotoURL string
	Data     []byte
	Caption  string
}

// Sender delivers replies to a chat.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendPhoto(ctx context.Context, chatID int64, photoURL string, data []byte) error
	SendAudio(ctx context.Context, chatID int64, data []byte, caption string) error
	SendVoice(ctx context.Context, chatID int64, data []byte, caption string) error
}

// FileResolver turns a platform file id into a fetchable URL.
type FileResolver interface {
	ResolveFileURL(ctx context.Context, fileID string) (string, error)
}

// Messenger is the full chat-platform capability set.
type Messenger interface {
	Sender
	FileResolver
}

// Generator submits an ordered list of parts to a generative model and
// returns the text of its answer.
type Generator interface {
	Generate(ctx context.Context, parts []Part) (string, error)
}

// ImageGenerator produces image URLs for a prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]string, error)
}

// Downloader fetches a whole file into memory.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}
