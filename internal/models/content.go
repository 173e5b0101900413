package models

// BlockKind identifies the variant held by a Block.
type BlockKind string

// Supported block kinds. KindUnsupported carries any other source type in RawType.
const (
	KindParagraph   BlockKind = "paragraph"
	KindHeading1    BlockKind = "heading_1"
	KindHeading2    BlockKind = "heading_2"
	KindHeading3    BlockKind = "heading_3"
	KindBulleted    BlockKind = "bulleted_list_item"
	KindNumbered    BlockKind = "numbered_list_item"
	KindToggle      BlockKind = "toggle"
	KindQuote       BlockKind = "quote"
	KindCallout     BlockKind = "callout"
	KindCode        BlockKind = "code"
	KindDivider     BlockKind = "divider"
	KindImage       BlockKind = "image"
	KindTable       BlockKind = "table"
	KindTableRow    BlockKind = "table_row"
	KindUnsupported BlockKind = "unsupported"
)

// Block is one structural unit of a page body.
type Block struct {
	ID   string
	Kind BlockKind

	// Text holds the rich text of text-bearing kinds.
	Text []TextRun

	// Children are the nested blocks of toggles and tables. They are nil until
	// fetched; HasChildren tells whether the source reported any.
	Children    []Block
	HasChildren bool

	URL      string      // image
	Language string      // code
	Icon     string      // callout
	Cells    [][]TextRun // table_row

	// RawType is the source type name of an unsupported block.
	RawType string
}

// Style holds the annotations of a text run.
type Style struct {
	Bold          bool
	Italic        bool
	Strikethrough bool
	Code          bool
	Underline     bool
}

// TextRun is a span of text sharing one set of annotations.
type TextRun struct {
	Text  string
	Href  string
	Style Style
}

// PlainText concatenates the text of runs without any markup.
func PlainText(runs []TextRun) string {
	var n int
	for _, r := range runs {
		n += len(r.Text)
	}
	buf := make([]byte, 0, n)
	for _, r := range runs {
		buf = append(buf, r.Text...)
	}
	return string(buf)
}
