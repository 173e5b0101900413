package models

import (
	"testing"
	"time"
)

func TestParseNotionRef(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  string
		expectErr bool
	}{
		{
			name:     "Bare id",
			input:    "0123456789abcdef0123456789abcdef",
			expected: "0123456789abcdef0123456789abcdef",
		},
		{
			name:     "Hyphenated uuid",
			input:    "01234567-89ab-cdef-0123-456789ABCDEF",
			expected: "0123456789abcdef0123456789abcdef",
		},
		{
			name:     "Workspace url with slug",
			input:    "https://www.notion.so/acme/Team-Wiki-0123456789abcdef0123456789abcdef?pvs=4",
			expected: "0123456789abcdef0123456789abcdef",
		},
		{
			name:      "No id",
			input:     "https://www.notion.so/acme/Team-Wiki",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseNotionRef(tt.input)
			if tt.expectErr {
				if err == nil {
					t.Errorf("Expected error, got %v", ref)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if ref.ID != tt.expected {
				t.Errorf("ParseNotionRef() = %v, want %v", ref.ID, tt.expected)
			}
			if ref.URL() != "https://www.notion.so/"+tt.expected {
				t.Errorf("URL() = %v", ref.URL())
			}
		})
	}
}

func TestTelegramMessageRef(t *testing.T) {
	ref := TelegramMessageRef(-1001234567890, 42)
	if got := ref.URL(); got != "https://t.me/c/1234567890/42" {
		t.Fatalf("URL() = %v", got)
	}

	parsed, err := ParseTelegramMessageURL(ref.URL())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if parsed != ref {
		t.Errorf("ParseTelegramMessageURL() = %v, want %v", parsed, ref)
	}
	id, err := parsed.MessageID()
	if err != nil || id != 42 {
		t.Errorf("MessageID() = %v, %v", id, err)
	}

	group := TelegramMessageRef(-4012345, 42)
	if got := group.URL(); got != "https://t.me/c/-4012345/42" {
		t.Fatalf("URL() = %v", got)
	}
	parsed, err = ParseTelegramMessageURL(group.URL())
	if err != nil {
		t.Fatalf("Unexpected error for basic group link: %v", err)
	}
	if parsed != group {
		t.Errorf("ParseTelegramMessageURL() = %v, want %v", parsed, group)
	}

	if _, err := ParseTelegramMessageURL("https://t.me/c/123/"); err == nil {
		t.Error("Expected error for url without message id")
	}
	if _, err := (Ref{Service: ServiceNotion, Kind: RefPage, ID: "x"}).MessageID(); err == nil {
		t.Error("Expected error for notion reference")
	}
}

func TestSourcePageExcluded(t *testing.T) {
	prefixes := []string{"[DRAFT]", "[TG_SYNC]"}
	tests := []struct {
		title    string
		expected bool
	}{
		{"[DRAFT] Plans", true},
		{"  [TG_SYNC] Timestamp", true},
		{"Plans [DRAFT]", false},
		{"Hello", false},
	}
	for _, tt := range tests {
		if got := (SourcePage{Title: tt.title}).Excluded(prefixes); got != tt.expected {
			t.Errorf("Excluded(%q) = %v, want %v", tt.title, got, tt.expected)
		}
	}
}

func TestSyncRecordEqual(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	a := SyncRecord{PageID: "p", MessageID: 1, LastEdited: ts, Title: "T"}
	b := a
	b.LastEdited = ts.Add(300 * time.Millisecond).In(time.FixedZone("CET", 3600))
	if !a.Equal(b) {
		t.Error("Expected records differing below one second to be equal")
	}
	b.MessageID = 2
	if a.Equal(b) {
		t.Error("Expected records with different message ids to differ")
	}
	if (SyncRecord{}).Unix() != 0 {
		t.Error("Expected zero time to map to 0")
	}
}
