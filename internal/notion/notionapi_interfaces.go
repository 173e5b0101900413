package notion

import (
	"context"

	"github.com/jomei/notionapi"
)

// Subsets of the notionapi services used by this package.
//
//go:generate mockgen -source=notionapi_interfaces.go -destination=mock_notion/mock_notionapi.go -package=mock_notion
type (
	PageService interface {
		Create(context.Context, *notionapi.PageCreateRequest) (*notionapi.Page, error)
		Update(context.Context, notionapi.PageID, *notionapi.PageUpdateRequest) (*notionapi.Page, error)
		Get(context.Context, notionapi.PageID) (*notionapi.Page, error)
	}

	BlockService interface {
		GetChildren(context.Context, notionapi.BlockID, *notionapi.Pagination) (*notionapi.GetChildrenResponse, error)
	}

	DatabaseService interface {
		Create(context.Context, *notionapi.DatabaseCreateRequest) (*notionapi.Database, error)
		Get(context.Context, notionapi.DatabaseID) (*notionapi.Database, error)
		Query(context.Context, notionapi.DatabaseID, *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
		Update(context.Context, notionapi.DatabaseID, *notionapi.DatabaseUpdateRequest) (*notionapi.Database, error)
	}
)
