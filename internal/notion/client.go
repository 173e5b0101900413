package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"
	"github.com/takak2166/notion2telegram/internal/logger"
	"github.com/takak2166/notion2telegram/internal/models"
)

const pageSize = 100

// Client wraps the Notion API client
type Client struct {
	client NotionClient
	rootID notionapi.PageID
}

// New creates a new Notion client for the pages under rootPage, which may be
// a page URL or a bare page id
func New(apiKey, rootPage string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("NOTION_API_KEY is not set")
	}
	if rootPage == "" {
		return nil, fmt.Errorf("NOTION_ROOT_PAGE_URL is not set")
	}

	root, err := models.ParseNotionRef(rootPage)
	if err != nil {
		return nil, fmt.Errorf("failed to parse root page: %w", err)
	}

	notionClient := notionapi.NewClient(notionapi.Token(apiKey))
	return NewWithClient(newNotionClientAdapter(notionClient), root.ID), nil
}

// NewWithClient creates a Client on top of an existing NotionClient
func NewWithClient(client NotionClient, rootID string) *Client {
	return &Client{
		client: client,
		rootID: notionapi.PageID(models.NormalizePageID(rootID)),
	}
}

// RootID returns the normalized id of the root page
func (c *Client) RootID() string {
	return string(c.rootID)
}

// ListPages returns the child pages directly under the root page
func (c *Client) ListPages(ctx context.Context) ([]models.SourcePage, error) {
	children, err := c.children(ctx, notionapi.BlockID(c.rootID))
	if err != nil {
		return nil, fmt.Errorf("failed to list root children: %w", err)
	}

	logger.Info(fmt.Sprintf("Fetched %d children from Notion root page", len(children)), map[string]interface{}{
		"root_id": c.rootID,
	})

	var pages []models.SourcePage
	for _, child := range children {
		if _, ok := child.(*notionapi.ChildPageBlock); !ok {
			continue
		}

		page, err := c.client.Page().Get(ctx, notionapi.PageID(child.GetID()))
		if err != nil {
			return nil, fmt.Errorf("failed to get page %s: %w", child.GetID(), err)
		}

		pages = append(pages, models.SourcePage{
			ID:         models.NormalizePageID(string(page.ID)),
			Title:      PageTitle(page),
			LastEdited: page.LastEditedTime,
		})
	}

	return pages, nil
}

// ListBlocks returns all child blocks of a page or block, converted into
// content blocks
func (c *Client) ListBlocks(ctx context.Context, blockID string) ([]models.Block, error) {
	children, err := c.children(ctx, notionapi.BlockID(blockID))
	if err != nil {
		return nil, err
	}

	logger.Debug("Fetched Notion blocks", map[string]interface{}{
		"block_id": blockID,
		"count":    len(children),
	})

	return ConvertBlocks(children), nil
}

// children walks every cursor of a block's children
func (c *Client) children(ctx context.Context, id notionapi.BlockID) ([]notionapi.Block, error) {
	var (
		all    []notionapi.Block
		cursor notionapi.Cursor
	)

	for {
		logger.Debug("Fetching Notion children", map[string]interface{}{
			"block_id": id,
			"cursor":   cursor,
		})

		resp, err := c.client.Block().GetChildren(ctx, id, &notionapi.Pagination{
			StartCursor: cursor,
			PageSize:    pageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get children of %s: %w", id, err)
		}

		all = append(all, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			return all, nil
		}
		cursor = notionapi.Cursor(resp.NextCursor)
	}
}
