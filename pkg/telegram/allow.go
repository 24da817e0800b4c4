package telegram

import "strings"

// AllowList restricts which senders the relay answers. An empty list allows
// everyone. Entries are numeric ids, usernames (with or without "@"), or the
// compound "id|username" form.
type AllowList []string

func (a AllowList) IsAllowed(senderID string) bool {
	if len(a) == 0 {
		return true
	}

	idPart := senderID
	userPart := ""
	if idx := strings.Index(senderID, "|"); idx > 0 {
		idPart = senderID[:idx]
		userPart = senderID[idx+1:]
	}

	for _, allowed := range a {
		trimmed := strings.TrimPrefix(strings.TrimSpace(allowed), "@")
		if trimmed == "" {
			continue
		}
		allowedID := trimmed
		allowedUser := ""
		if idx := strings.Index(trimmed, "|"); idx > 0 {
			allowedID = trimmed[:idx]
			allowedUser = trimmed[idx+1:]
		}

		if senderID == trimmed ||
			idPart == allowedID ||
			(userPart != "" && (userPart == trimmed || userPart == allowedUser)) {
			return true
		}
	}

	return false
}
