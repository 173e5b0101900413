package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"
	"github.com/takak2166/notion2telegram/internal/logger"
)

// SyncDatabaseTitle is the title of the mapping database under the root page.
// The prefix keeps it out of the synced pages.
const SyncDatabaseTitle = "[TG_SYNC] Timestamp"

// Columns of the sync database.
const (
	PropPage      = "Страница"
	PropTelegram  = "Telegram"
	PropUpdated   = "Обновлено"
	PropPageTitle = "PageTitle"
)

// SyncDatabase is the inline database under the root page that stores the
// page to message mapping
type SyncDatabase struct {
	client NotionClient
	id     notionapi.DatabaseID
}

// SyncDatabase finds the database with the given title among the root page's
// children, or creates it. A database created by an older version without the
// PageTitle column gets the column added.
func (c *Client) SyncDatabase(ctx context.Context, title string) (*SyncDatabase, error) {
	children, err := c.children(ctx, notionapi.BlockID(c.rootID))
	if err != nil {
		return nil, fmt.Errorf("failed to list root children: %w", err)
	}

	for _, child := range children {
		block, ok := child.(*notionapi.ChildDatabaseBlock)
		if !ok || block.ChildDatabase.Title != title {
			continue
		}

		id := notionapi.DatabaseID(block.ID)
		db, err := c.client.Database().Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get sync database: %w", err)
		}

		if _, ok := db.Properties[PropPageTitle]; !ok {
			_, err := c.client.Database().Update(ctx, id, &notionapi.DatabaseUpdateRequest{
				Properties: notionapi.PropertyConfigs{
					PropPageTitle: notionapi.RichTextPropertyConfig{
						Type:     "rich_text",
						RichText: struct{}{},
					},
				},
			})
			if err != nil {
				return nil, fmt.Errorf("failed to add %s column: %w", PropPageTitle, err)
			}
		}

		return &SyncDatabase{client: c.client, id: id}, nil
	}

	db, err := c.client.Database().Create(ctx, &notionapi.DatabaseCreateRequest{
		Parent: notionapi.Parent{
			Type:   "page_id",
			PageID: c.rootID,
		},
		Title: []notionapi.RichText{
			{
				Text: &notionapi.Text{
					Content: title,
				},
			},
		},
		Properties: notionapi.PropertyConfigs{
			PropPage: notionapi.TitlePropertyConfig{
				Type:  "title",
				Title: struct{}{},
			},
			PropTelegram: notionapi.URLPropertyConfig{
				Type: "url",
				URL:  struct{}{},
			},
			PropUpdated: notionapi.DatePropertyConfig{
				Type: "date",
				Date: struct{}{},
			},
			PropPageTitle: notionapi.RichTextPropertyConfig{
				Type:     "rich_text",
				RichText: struct{}{},
			},
		},
		IsInline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sync database: %w", err)
	}

	logger.Info("Created sync database", map[string]interface{}{
		"database_id": db.ID,
		"title":       title,
	})

	return &SyncDatabase{client: c.client, id: notionapi.DatabaseID(db.ID)}, nil
}

// ID returns the database id
func (d *SyncDatabase) ID() string {
	return string(d.id)
}

// QueryRows returns every row of the database, across all cursors
func (d *SyncDatabase) QueryRows(ctx context.Context) ([]notionapi.Page, error) {
	var (
		rows   []notionapi.Page
		cursor notionapi.Cursor
	)

	for {
		resp, err := d.client.Database().Query(ctx, d.id, &notionapi.DatabaseQueryRequest{
			StartCursor: cursor,
			PageSize:    pageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query sync database: %w", err)
		}

		rows = append(rows, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			return rows, nil
		}
		cursor = notionapi.Cursor(resp.NextCursor)
	}
}

// CreateRow adds a row and returns its page id
func (d *SyncDatabase) CreateRow(ctx context.Context, props notionapi.Properties) (notionapi.PageID, error) {
	page, err := d.client.Page().Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       "database_id",
			DatabaseID: d.id,
		},
		Properties: props,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create sync row: %w", err)
	}
	return notionapi.PageID(page.ID), nil
}

// UpdateRow replaces the given properties of a row
func (d *SyncDatabase) UpdateRow(ctx context.Context, rowID notionapi.PageID, props notionapi.Properties) error {
	if _, err := d.client.Page().Update(ctx, rowID, &notionapi.PageUpdateRequest{
		Properties: props,
	}); err != nil {
		return fmt.Errorf("failed to update sync row %s: %w", rowID, err)
	}
	return nil
}

// ArchiveRow archives a row. Archived rows stay in the workspace trash and
// are no longer returned by QueryRows.
func (d *SyncDatabase) ArchiveRow(ctx context.Context, rowID notionapi.PageID) error {
	if _, err := d.client.Page().Update(ctx, rowID, &notionapi.PageUpdateRequest{
		Archived:   true,
		Properties: notionapi.Properties{},
	}); err != nil {
		return fmt.Errorf("failed to archive sync row %s: %w", rowID, err)
	}
	return nil
}
