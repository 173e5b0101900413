package telegram

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var byteOffsetRe = regexp.MustCompile(`can't parse entities.*at byte offset (\d+)`)

// ParseError is returned when Telegram rejects the MarkdownV2 of a message.
// Offset is the byte offset Telegram reported.
type ParseError struct {
	Offset      int
	Description string
	Err         error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("markup rejected at byte offset %d: %s", e.Offset, e.Description)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// AsParseError reports whether err carries a markup rejection
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// classify turns a Telegram API error into a *ParseError when it describes a
// markup rejection, and returns other errors unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	desc := err.Error()
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		desc = apiErr.Message
	}

	m := byteOffsetRe.FindStringSubmatch(desc)
	if m == nil {
		return err
	}
	offset, convErr := strconv.Atoi(m[1])
	if convErr != nil {
		return err
	}
	return &ParseError{Offset: offset, Description: desc, Err: err}
}

func isNotModified(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}
