package markdown

import (
	"fmt"
	"strings"
)

// DefaultContextRadius is the number of bytes shown on each side of an error offset.
const DefaultContextRadius = 50

// ErrorContext shows the bytes of text around offset, with a marker under the
// offending byte. Offsets are byte offsets into the UTF-8 text, as reported by
// Telegram when it rejects MarkdownV2.
func ErrorContext(text string, offset, radius int) string {
	if offset < 0 || offset > len(text) {
		return fmt.Sprintf("Error position: %d is outside the text (total bytes: %d)", offset, len(text))
	}

	start := offset - radius
	if start < 0 {
		start = 0
	}
	end := offset + radius
	if end > len(text) {
		end = len(text)
	}

	snippet := strings.ToValidUTF8(text[start:end], "�")
	marker := strings.Repeat(" ", offset-start) + "▼"

	return fmt.Sprintf("Error position: %d (total bytes: %d)\nContext:\n%s\n%s", offset, len(text), snippet, marker)
}
