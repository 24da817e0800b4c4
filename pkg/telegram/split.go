package telegram

import "strings"

// SplitMessage cuts text into chunks of at most limit runes, preferring to
// break after a newline and then after a space. A limit of 0 or less returns
// text unchanged.
func SplitMessage(text string, limit int) []string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return []string{text}
	}

	var chunks []string
	for len(runes) > limit {
		window := string(runes[:limit])
		cut := strings.LastIndex(window, "\n")
		if cut <= 0 {
			cut = strings.LastIndex(window, " ")
		}

		n := limit
		if cut > 0 {
			n = len([]rune(window[:cut])) + 1
		}

		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
