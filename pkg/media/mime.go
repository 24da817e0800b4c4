package media

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

var extensionMIME = map[string]string{
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/ogg",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// MIMEFromPath guesses a MIME type from a file path's extension. It returns
// "" for unknown extensions so callers can apply their own default.
func MIMEFromPath(p string) string {
	return extensionMIME[strings.ToLower(path.Ext(p))]
}

// Telegram file URLs embed the bot token: /file/bot<token>/<path>.
var botTokenPath = regexp.MustCompile(`/bot[^/]+/`)

// redact strips credentials from a URL before it reaches a log line or an
// error message.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	u.User = nil
	u.RawQuery = ""
	u.Path = botTokenPath.ReplaceAllString(u.Path, "/botREDACTED/")
	u.RawPath = ""
	return u.String()
}
