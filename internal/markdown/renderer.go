package markdown

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/takak2166/notion2telegram/internal/logger"
	"github.com/takak2166/notion2telegram/internal/models"
)

const (
	divider   = "\\-\\-\\-\\-\\-\\-"
	imageLink = "🖼"
)

// ChildLister fetches the child blocks of a page or block.
type ChildLister interface {
	ListBlocks(ctx context.Context, blockID string) ([]models.Block, error)
}

// Renderer converts content blocks into MarkdownV2 fragments
type Renderer struct {
	children ChildLister
}

// NewRenderer creates a Renderer. children is used to fetch the rows of tables
// and the content of toggles that were not fetched together with the block.
func NewRenderer(children ChildLister) *Renderer {
	return &Renderer{children: children}
}

// Render converts a single block, and recursively its children, into a
// MarkdownV2 fragment. A block that cannot be rendered yields an empty
// fragment and never affects its siblings.
func (r *Renderer) Render(ctx context.Context, block models.Block) (out string) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("Failed to render block", fmt.Errorf("panic: %v", p), blockFields(block))
			out = ""
		}
	}()

	out, err := r.render(ctx, block)
	if err != nil {
		logger.Error("Failed to render block", err, blockFields(block))
		return ""
	}
	return out
}

func (r *Renderer) render(ctx context.Context, b models.Block) (string, error) {
	switch b.Kind {
	case models.KindParagraph:
		return r.text(b.Text) + "\n\n", nil
	case models.KindHeading1, models.KindHeading2, models.KindHeading3:
		return "*" + r.text(unbold(b.Text)) + "*\n\n", nil
	case models.KindBulleted:
		return "\\- " + r.text(b.Text) + "\n", nil
	case models.KindNumbered:
		// Telegram numbers nothing itself, so every item gets the same literal.
		return "1\\. " + r.text(b.Text) + "\n", nil
	case models.KindToggle:
		return r.toggle(ctx, b)
	case models.KindQuote:
		return "> " + r.text(b.Text) + "\n\n", nil
	case models.KindCallout:
		if b.Icon == "" {
			return r.text(b.Text) + "\n\n", nil
		}
		return b.Icon + " " + r.text(b.Text) + "\n\n", nil
	case models.KindCode:
		return "```\n" + escapePre(models.PlainText(b.Text)) + "\n```\n\n", nil
	case models.KindDivider:
		return divider + "\n\n", nil
	case models.KindImage:
		if b.URL == "" {
			return "", errors.New("image without url")
		}
		return "[" + imageLink + "](" + escapeLinkURL(b.URL) + ")\n\n", nil
	case models.KindTable:
		return r.table(ctx, b)
	case models.KindTableRow:
		return tableRow(b), nil
	case models.KindUnsupported:
		logger.Warn("Unsupported Notion block type", nil, blockFields(b))
		return "", nil
	default:
		logger.Warn("Unknown block kind", nil, blockFields(b))
		return "", nil
	}
}

func (r *Renderer) toggle(ctx context.Context, b models.Block) (string, error) {
	children, err := r.childrenOf(ctx, b)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, child := range children {
		sb.WriteString(r.Render(ctx, child))
	}
	content := strings.TrimSpace(sb.String())
	summary := r.text(unbold(b.Text))

	if content == "" {
		return "||" + summary + "||\n\n", nil
	}
	return "*" + summary + "*\n||" + content + "||\n\n", nil
}

func (r *Renderer) table(ctx context.Context, b models.Block) (string, error) {
	rows, err := r.childrenOf(ctx, b)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Kind != models.KindTableRow {
			continue
		}
		lines = append(lines, tableRow(row))
	}
	return "```\n" + strings.Join(lines, "\n") + "\n```\n\n", nil
}

func (r *Renderer) childrenOf(ctx context.Context, b models.Block) ([]models.Block, error) {
	if b.Children != nil || !b.HasChildren {
		return b.Children, nil
	}
	if r.children == nil {
		return nil, fmt.Errorf("children of %s block %s were not fetched", b.Kind, b.ID)
	}
	children, err := r.children.ListBlocks(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch children of block %s: %w", b.ID, err)
	}
	return children, nil
}

// text renders rich text runs with escaping.
func (r *Renderer) text(runs []models.TextRun) string {
	return renderRuns(runs, true)
}

// tableRow joins the cells of a row. Cells are pre-formatted and skip escaping.
func tableRow(b models.Block) string {
	cells := make([]string, len(b.Cells))
	for i, cell := range b.Cells {
		cells[i] = renderRuns(cell, false)
	}
	return strings.Join(cells, " | ")
}

func renderRuns(runs []models.TextRun, escape bool) string {
	var sb strings.Builder
	for _, run := range runs {
		sb.WriteString(renderRun(run, escape))
	}
	return sb.String()
}

func renderRun(run models.TextRun, escape bool) string {
	text := run.Text
	if escape {
		text = EscapeMentions(Escape(text))
	}

	if text != "" {
		switch {
		case run.Style.Bold:
			text = "*" + text + "*"
		case run.Style.Italic:
			text = "_" + text + "_"
		case run.Style.Strikethrough:
			text = "~" + text + "~"
		case run.Style.Code:
			text = "`" + text + "`"
		case run.Style.Underline:
			text = "__" + text + "__"
		}
	}

	if run.Href != "" {
		text = "[" + text + "](" + escapeLinkURL(run.Href) + ")"
	}
	return text
}

// unbold drops bold from runs that are already wrapped in a bold template.
func unbold(runs []models.TextRun) []models.TextRun {
	out := make([]models.TextRun, len(runs))
	for i, run := range runs {
		run.Style.Bold = false
		out[i] = run
	}
	return out
}

func blockFields(b models.Block) map[string]interface{} {
	fields := map[string]interface{}{
		"block_id": b.ID,
		"kind":     string(b.Kind),
	}
	if b.RawType != "" {
		fields["type"] = b.RawType
	}
	return fields
}
