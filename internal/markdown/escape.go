// Package markdown renders page content as Telegram MarkdownV2.
package markdown

import (
	"regexp"
	"strings"
)

// specialChars must be escaped anywhere outside of entities in MarkdownV2.
const specialChars = "_*[]()~`>#+-=|{}.!\\"

var mentionRe = regexp.MustCompile(`@[A-Za-z0-9_\\]+`)

// Escape prefixes every MarkdownV2 special character with a backslash.
func Escape(text string) string {
	if !strings.ContainsAny(text, specialChars) {
		return text
	}
	var sb strings.Builder
	sb.Grow(len(text) + 8)
	for _, r := range text {
		if strings.ContainsRune(specialChars, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// EscapeMentions makes sure every underscore inside an @handle is escaped.
// Telegram rejects a bare underscore right after a mention even where the
// surrounding text would otherwise be valid.
func EscapeMentions(text string) string {
	return mentionRe.ReplaceAllStringFunc(text, func(m string) string {
		var sb strings.Builder
		for i := 0; i < len(m); i++ {
			c := m[i]
			if c == '_' && (i == 0 || m[i-1] != '\\') {
				sb.WriteByte('\\')
			}
			sb.WriteByte(c)
		}
		return sb.String()
	})
}

// escapePre escapes the characters that stay special inside pre and code entities.
func escapePre(text string) string {
	return strings.NewReplacer("\\", "\\\\", "`", "\\`").Replace(text)
}

// escapeLinkURL escapes the characters that stay special inside the (...) part of a link.
func escapeLinkURL(url string) string {
	return strings.NewReplacer("\\", "\\\\", ")", "\\)").Replace(url)
}
