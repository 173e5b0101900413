package markdown

import (
	"context"
	"fmt"
	"strings"

	"github.com/takak2166/notion2telegram/internal/logger"
)

// Assembler builds the message body of a page from its blocks
type Assembler struct {
	blocks   ChildLister
	renderer *Renderer
}

// NewAssembler creates an Assembler fetching blocks from the given source
func NewAssembler(blocks ChildLister) *Assembler {
	return &Assembler{
		blocks:   blocks,
		renderer: NewRenderer(blocks),
	}
}

// Assemble renders all top-level blocks of a page in order. When the blocks
// cannot be fetched it returns an empty body together with the error.
func (a *Assembler) Assemble(ctx context.Context, pageID string) (string, error) {
	blocks, err := a.blocks.ListBlocks(ctx, pageID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch blocks of page %s: %w", pageID, err)
	}

	var sb strings.Builder
	for _, block := range blocks {
		sb.WriteString(a.renderer.Render(ctx, block))
	}

	logger.Debug("Assembled page content", map[string]interface{}{
		"page_id": pageID,
		"blocks":  len(blocks),
		"bytes":   sb.Len(),
	})

	return strings.TrimSpace(sb.String()), nil
}

// Message builds the text posted for a page: the bold title, then the body.
func Message(title, body string) string {
	head := "*" + Escape(title) + "*"
	if body == "" {
		return head
	}
	return head + "\n\n" + body
}
