package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Service names an external system a Ref points into.
type Service string

const (
	ServiceNotion   Service = "notion"
	ServiceTelegram Service = "telegram"
)

// RefKind names the kind of resource a Ref points at.
type RefKind string

const (
	RefPage    RefKind = "page"
	RefMessage RefKind = "message"
)

// Ref is a structured reference to an external resource. URLs are only
// produced from it at the boundary, never parsed back inside the system.
type Ref struct {
	Service Service
	Kind    RefKind
	// Container is the chat id for Telegram messages, empty otherwise.
	Container string
	ID        string
}

var (
	notionIDRe     = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}|[0-9a-f]{32}`)
	pageIDRe       = regexp.MustCompile(`^[0-9a-f]{32}$`)
	messageURLRe   = regexp.MustCompile(`^https://t\.me/c/(-?\d+)/(\d+)$`)
	channelChatPfx = "-100"
)

// NormalizePageID strips hyphens and lowercases a Notion id.
func NormalizePageID(id string) string {
	return strings.ToLower(strings.ReplaceAll(id, "-", ""))
}

// NotionPageRef builds a page reference from a raw id with or without hyphens.
func NotionPageRef(id string) (Ref, error) {
	norm := NormalizePageID(id)
	if !pageIDRe.MatchString(norm) {
		return Ref{}, fmt.Errorf("invalid notion page id %q", id)
	}
	return Ref{Service: ServiceNotion, Kind: RefPage, ID: norm}, nil
}

// ParseNotionRef extracts the first Notion id found in s, which may be a bare
// id or any notion.so URL.
func ParseNotionRef(s string) (Ref, error) {
	m := notionIDRe.FindString(s)
	if m == "" {
		return Ref{}, fmt.Errorf("no notion id in %q", s)
	}
	return NotionPageRef(m)
}

// TelegramMessageRef builds a reference to a message in a chat.
func TelegramMessageRef(chatID int64, messageID int) Ref {
	return Ref{
		Service:   ServiceTelegram,
		Kind:      RefMessage,
		Container: strconv.FormatInt(chatID, 10),
		ID:        strconv.Itoa(messageID),
	}
}

// ParseTelegramMessageURL parses a https://t.me/c/<chat>/<message> link.
// Channel and supergroup links carry the chat id without its -100 prefix,
// basic group links keep the negative id as is.
func ParseTelegramMessageURL(s string) (Ref, error) {
	m := messageURLRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Ref{}, fmt.Errorf("invalid telegram message url %q", s)
	}
	chat := m[1]
	if !strings.HasPrefix(chat, "-") {
		chat = channelChatPfx + chat
	}
	return Ref{
		Service:   ServiceTelegram,
		Kind:      RefMessage,
		Container: chat,
		ID:        m[2],
	}, nil
}

// MessageID returns the numeric id of a Telegram message reference.
func (r Ref) MessageID() (int, error) {
	if r.Service != ServiceTelegram || r.Kind != RefMessage {
		return 0, fmt.Errorf("not a telegram message reference: %s", r)
	}
	return strconv.Atoi(r.ID)
}

// URL formats the reference as a public link.
func (r Ref) URL() string {
	switch r.Service {
	case ServiceNotion:
		return "https://www.notion.so/" + r.ID
	case ServiceTelegram:
		return fmt.Sprintf("https://t.me/c/%s/%s", strings.TrimPrefix(r.Container, channelChatPfx), r.ID)
	}
	return ""
}

func (r Ref) String() string {
	if r.Container != "" {
		return fmt.Sprintf("%s:%s:%s/%s", r.Service, r.Kind, r.Container, r.ID)
	}
	return fmt.Sprintf("%s:%s:%s", r.Service, r.Kind, r.ID)
}
