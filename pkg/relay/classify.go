package relay

import (
	"strings"
	"unicode"
)

// Classify selects the update kind from the fields present on the message.
// Commands are recognised before plain text.
func Classify(m Message) Update {
	u := Update{Message: m}

	switch {
	case strings.HasPrefix(m.Text, "/"):
		u.Kind = KindCommand
		u.Command, u.Args = parseCommand(m.Text)
	case m.Text != "":
		u.Kind = KindText
	case len(m.Photo) > 0:
		u.Kind = KindPhoto
		u.File = LargestPhoto(m.Photo)
	case m.Voice != nil:
		u.Kind = KindVoice
		u.File = m.Voice
	case m.Audio != nil:
		u.Kind = KindAudio
		u.File = m.Audio
	default:
		u.Kind = KindUnknown
	}

	return u
}

// LargestPhoto returns the last entry of sizes, which the platform orders by
// ascending resolution.
func LargestPhoto(sizes []FileRef) *FileRef {
	if len(sizes) == 0 {
		return nil
	}
	largest := sizes[len(sizes)-1]
	return &largest
}

// parseCommand splits "/cmd@bot rest of text" into "cmd" and "rest of text".
func parseCommand(text string) (string, string) {
	body := strings.TrimPrefix(text, "/")
	token, args := body, ""
	if i := strings.IndexFunc(body, unicode.IsSpace); i >= 0 {
		token, args = body[:i], body[i:]
	}
	if name, _, ok := strings.Cut(token, "@"); ok {
		token = name
	}
	return strings.ToLower(strings.TrimSpace(token)), strings.TrimSpace(args)
}
