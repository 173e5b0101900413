package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/jomei/notionapi"
	"github.com/takak2166/notion2telegram/internal/logger"
	"github.com/takak2166/notion2telegram/internal/models"
	"github.com/takak2166/notion2telegram/internal/notion"
)

// SyncDatabase is the row access NotionStore needs, implemented by
// *notion.SyncDatabase
//
//go:generate mockgen -source=notion.go -destination=mock_store/mock_sync_database.go -package=mock_store
type SyncDatabase interface {
	QueryRows(ctx context.Context) ([]notionapi.Page, error)
	CreateRow(ctx context.Context, props notionapi.Properties) (notionapi.PageID, error)
	UpdateRow(ctx context.Context, rowID notionapi.PageID, props notionapi.Properties) error
	ArchiveRow(ctx context.Context, rowID notionapi.PageID) error
}

// NotionStore keeps records as rows of a Notion database under the root page.
// Each row links to its page and to the pinned message.
type NotionStore struct {
	db     SyncDatabase
	chatID int64

	mu   sync.Mutex
	rows map[string]notionapi.PageID
}

// NewNotionStore creates a store over db. chatID is used to build message links.
func NewNotionStore(db SyncDatabase, chatID int64) *NotionStore {
	return &NotionStore{
		db:     db,
		chatID: chatID,
		rows:   make(map[string]notionapi.PageID),
	}
}

func (s *NotionStore) LoadAll(ctx context.Context) (map[string]models.SyncRecord, error) {
	rows, err := s.db.QueryRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sync rows: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = make(map[string]notionapi.PageID, len(rows))
	out := make(map[string]models.SyncRecord, len(rows))
	for i := range rows {
		row := &rows[i]
		if row.Archived {
			continue
		}

		rec, ok := decodeRow(row)
		if !ok {
			logger.Warn("Skipping sync row without a page link", nil, map[string]interface{}{
				"row_id": row.ID,
			})
			continue
		}
		if _, dup := out[rec.PageID]; dup {
			logger.Warn("Duplicate sync row for page", nil, map[string]interface{}{
				"row_id":  row.ID,
				"page_id": rec.PageID,
			})
			continue
		}

		out[rec.PageID] = rec
		s.rows[rec.PageID] = notionapi.PageID(row.ID)
	}

	logger.Debug("Loaded sync rows", map[string]interface{}{
		"rows":    len(rows),
		"records": len(out),
	})
	return out, nil
}

func (s *NotionStore) Upsert(ctx context.Context, rec models.SyncRecord) error {
	rec.PageID = models.NormalizePageID(rec.PageID)
	props, err := s.encode(rec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	rowID, ok := s.rows[rec.PageID]
	s.mu.Unlock()

	if ok {
		return s.db.UpdateRow(ctx, rowID, props)
	}

	rowID, err = s.db.CreateRow(ctx, props)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.rows[rec.PageID] = rowID
	s.mu.Unlock()
	return nil
}

func (s *NotionStore) Archive(ctx context.Context, pageID string) error {
	pageID = models.NormalizePageID(pageID)

	s.mu.Lock()
	rowID, ok := s.rows[pageID]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	if err := s.db.ArchiveRow(ctx, rowID); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.rows, pageID)
	s.mu.Unlock()
	return nil
}

func (s *NotionStore) encode(rec models.SyncRecord) (notionapi.Properties, error) {
	page, err := models.NotionPageRef(rec.PageID)
	if err != nil {
		return nil, err
	}

	props := notionapi.Properties{
		notion.PropPage: notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{
					Text: &notionapi.Text{
						Content: rec.Title,
						Link:    &notionapi.Link{Url: page.URL()},
					},
				},
			},
		},
		notion.PropPageTitle: notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Text: &notionapi.Text{
						Content: rec.Title,
					},
				},
			},
		},
	}

	if rec.MessageID != 0 {
		props[notion.PropTelegram] = notionapi.URLProperty{
			URL: models.TelegramMessageRef(s.chatID, rec.MessageID).URL(),
		}
	}
	if !rec.LastEdited.IsZero() {
		edited := notionapi.Date(rec.LastEdited)
		props[notion.PropUpdated] = notionapi.DateProperty{
			Date: &notionapi.DateObject{
				Start: &edited,
			},
		}
	}

	return props, nil
}

// decodeRow reads a record from a row. The page id comes from the link on the
// title, the message id from the Telegram URL.
func decodeRow(row *notionapi.Page) (models.SyncRecord, bool) {
	title, ok := notion.TitleOf(row.Properties[notion.PropPage])
	if !ok || len(title) == 0 {
		return models.SyncRecord{}, false
	}

	link := title[0].Href
	if link == "" && title[0].Text != nil && title[0].Text.Link != nil {
		link = string(title[0].Text.Link.Url)
	}
	page, err := models.ParseNotionRef(link)
	if err != nil {
		return models.SyncRecord{}, false
	}

	rec := models.SyncRecord{
		PageID: page.ID,
		Title:  notion.PlainText(title),
	}
	if text, ok := notion.RichTextOf(row.Properties[notion.PropPageTitle]); ok && len(text) > 0 {
		rec.Title = notion.PlainText(text)
	}

	if url, ok := notion.URLOf(row.Properties[notion.PropTelegram]); ok && url != "" {
		msg, err := models.ParseTelegramMessageURL(url)
		if err == nil {
			rec.MessageID, err = msg.MessageID()
		}
		if err != nil {
			logger.Warn("Unreadable Telegram link in sync row", err, map[string]interface{}{
				"page_id": rec.PageID,
				"url":     url,
			})
		}
	}

	if edited, ok := notion.DateOf(row.Properties[notion.PropUpdated]); ok {
		rec.LastEdited = edited
	}

	return rec, true
}
