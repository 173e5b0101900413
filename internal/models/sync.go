package models

import (
	"strings"
	"time"
)

// SourcePage is a page directly under the configured root page.
type SourcePage struct {
	ID         string
	Title      string
	LastEdited time.Time
}

// Excluded reports whether the page title starts with one of the given prefixes.
func (p SourcePage) Excluded(prefixes []string) bool {
	title := strings.TrimSpace(p.Title)
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(title, prefix) {
			return true
		}
	}
	return false
}

// SyncRecord correlates one source page with its destination message.
type SyncRecord struct {
	PageID     string
	MessageID  int
	LastEdited time.Time
	Title      string
	Archived   bool
}

// Unix returns the last edited time in whole seconds, 0 for an unset time.
func (r SyncRecord) Unix() int64 {
	return UnixSeconds(r.LastEdited)
}

// Equal reports whether two records describe the same stored state.
func (r SyncRecord) Equal(o SyncRecord) bool {
	return r.PageID == o.PageID &&
		r.MessageID == o.MessageID &&
		r.Unix() == o.Unix() &&
		r.Title == o.Title &&
		r.Archived == o.Archived
}

// UnixSeconds converts t to Unix seconds, mapping the zero time to 0.
func UnixSeconds(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
