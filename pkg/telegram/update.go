package telegram

import (
	"strconv"

	"github.com/mymmrac/telego"

	"github.com/tinyland-inc/tgrelay/pkg/media"
	"github.com/tinyland-inc/tgrelay/pkg/relay"
)

// ToMessage converts a Telegram update into the relay's platform-neutral
// message. ok is false when the update carries no message (edits, callback
// queries, membership changes and so on).
func ToMessage(u telego.Update) (relay.Message, bool) {
	m := u.Message
	if m == nil {
		return relay.Message{}, false
	}

	msg := relay.Message{
		UpdateID: int64(u.UpdateID),
		ChatID:   m.Chat.ID,
		SenderID: SenderID(m.From),
		Text:     m.Text,
		Caption:  m.Caption,
	}

	for _, p := range m.Photo {
		msg.Photo = append(msg.Photo, relay.FileRef{
			FileID:   p.FileID,
			FileSize: int64(p.FileSize),
		})
	}

	if a := m.Audio; a != nil {
		mimeType := a.MimeType
		if mimeType == "" {
			mimeType = media.MIMEFromPath(a.FileName)
		}
		msg.Audio = &relay.FileRef{
			FileID:   a.FileID,
			MIMEType: mimeType,
			FileSize: int64(a.FileSize),
		}
	}

	if v := m.Voice; v != nil {
		msg.Voice = &relay.FileRef{
			FileID:   v.FileID,
			MIMEType: v.MimeType,
			FileSize: int64(v.FileSize),
		}
	}

	return msg, true
}

// SenderID renders a user as "id|username", or just "id" when the user has
// no username.
func SenderID(from *telego.User) string {
	if from == nil {
		return ""
	}
	id := strconv.FormatInt(from.ID, 10)
	if from.Username == "" {
		return id
	}
	return id + "|" + from.Username
}
