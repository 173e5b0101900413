package notion

import (
	"github.com/jomei/notionapi"
	"github.com/takak2166/notion2telegram/internal/models"
)

// ConvertBlocks converts notionapi blocks into content blocks, keeping order
func ConvertBlocks(blocks []notionapi.Block) []models.Block {
	out := make([]models.Block, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, ConvertBlock(b))
	}
	return out
}

// ConvertBlock converts one notionapi block. Block types without a rendering
// become KindUnsupported with the source type kept in RawType.
func ConvertBlock(b notionapi.Block) models.Block {
	switch v := b.(type) {
	case *notionapi.ParagraphBlock:
		return textBlock(v.ID, models.KindParagraph, v.Paragraph.RichText)
	case *notionapi.Heading1Block:
		return textBlock(v.ID, models.KindHeading1, v.Heading1.RichText)
	case *notionapi.Heading2Block:
		return textBlock(v.ID, models.KindHeading2, v.Heading2.RichText)
	case *notionapi.Heading3Block:
		return textBlock(v.ID, models.KindHeading3, v.Heading3.RichText)
	case *notionapi.BulletedListItemBlock:
		return textBlock(v.ID, models.KindBulleted, v.BulletedListItem.RichText)
	case *notionapi.NumberedListItemBlock:
		return textBlock(v.ID, models.KindNumbered, v.NumberedListItem.RichText)
	case *notionapi.QuoteBlock:
		return textBlock(v.ID, models.KindQuote, v.Quote.RichText)
	case *notionapi.ToggleBlock:
		block := textBlock(v.ID, models.KindToggle, v.Toggle.RichText)
		block.HasChildren = v.HasChildren
		return block
	case *notionapi.CalloutBlock:
		block := textBlock(v.ID, models.KindCallout, v.Callout.RichText)
		if v.Callout.Icon != nil && v.Callout.Icon.Emoji != nil {
			block.Icon = string(*v.Callout.Icon.Emoji)
		}
		return block
	case *notionapi.CodeBlock:
		block := textBlock(v.ID, models.KindCode, v.Code.RichText)
		block.Language = string(v.Code.Language)
		return block
	case *notionapi.DividerBlock:
		return models.Block{ID: string(v.ID), Kind: models.KindDivider}
	case *notionapi.ImageBlock:
		block := models.Block{ID: string(v.ID), Kind: models.KindImage}
		switch {
		case v.Image.External != nil:
			block.URL = v.Image.External.URL
		case v.Image.File != nil:
			block.URL = v.Image.File.URL
		}
		return block
	case *notionapi.TableBlock:
		return models.Block{ID: string(v.ID), Kind: models.KindTable, HasChildren: v.HasChildren}
	case *notionapi.TableRowBlock:
		cells := make([][]models.TextRun, len(v.TableRow.Cells))
		for i, cell := range v.TableRow.Cells {
			cells[i] = TextRuns(cell)
		}
		return models.Block{ID: string(v.ID), Kind: models.KindTableRow, Cells: cells}
	default:
		return models.Block{
			ID:      string(b.GetID()),
			Kind:    models.KindUnsupported,
			RawType: string(b.GetType()),
		}
	}
}

func textBlock(id notionapi.BlockID, kind models.BlockKind, rich []notionapi.RichText) models.Block {
	return models.Block{ID: string(id), Kind: kind, Text: TextRuns(rich)}
}

// TextRuns converts Notion rich text into text runs
func TextRuns(rich []notionapi.RichText) []models.TextRun {
	runs := make([]models.TextRun, 0, len(rich))
	for _, rt := range rich {
		run := models.TextRun{
			Text: rt.PlainText,
			Href: rt.Href,
		}
		if run.Text == "" && rt.Text != nil {
			run.Text = rt.Text.Content
		}
		if run.Href == "" && rt.Text != nil && rt.Text.Link != nil {
			run.Href = string(rt.Text.Link.Url)
		}
		if a := rt.Annotations; a != nil {
			run.Style = models.Style{
				Bold:          a.Bold,
				Italic:        a.Italic,
				Strikethrough: a.Strikethrough,
				Code:          a.Code,
				Underline:     a.Underline,
			}
		}
		runs = append(runs, run)
	}
	return runs
}

// PlainText concatenates the plain text of Notion rich text
func PlainText(rich []notionapi.RichText) string {
	return models.PlainText(TextRuns(rich))
}
