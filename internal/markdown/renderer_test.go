package markdown

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/takak2166/notion2telegram/internal/models"
)

// stubLister serves child blocks from a map and fails for ids in errs.
type stubLister struct {
	children map[string][]models.Block
	errs     map[string]error
	calls    []string
}

func (s *stubLister) ListBlocks(_ context.Context, blockID string) ([]models.Block, error) {
	s.calls = append(s.calls, blockID)
	if err, ok := s.errs[blockID]; ok {
		return nil, err
	}
	return s.children[blockID], nil
}

func plain(text string) []models.TextRun {
	return []models.TextRun{{Text: text}}
}

func TestEscape(t *testing.T) {
	input := "a_b*c[d]e(f)g~h`i>j#k+l-m=n|o{p}q.r!s\\t"
	expected := "a\\_b\\*c\\[d\\]e\\(f\\)g\\~h\\`i\\>j\\#k\\+l\\-m\\=n\\|o\\{p\\}q\\.r\\!s\\\\t"
	if got := Escape(input); got != expected {
		t.Errorf("Escape() = %v, want %v", got, expected)
	}

	for _, c := range specialChars {
		if got := Escape(string(c)); got != "\\"+string(c) {
			t.Errorf("Escape(%q) = %q", c, got)
		}
	}

	if got := Escape("Привет мир"); got != "Привет мир" {
		t.Errorf("Escape() changed plain text: %v", got)
	}
}

func TestEscapeMentions(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Raw handle",
			input:    "ping @john_doe_1 now",
			expected: "ping @john\\_doe\\_1 now",
		},
		{
			name:     "Already escaped handle",
			input:    "ping @john\\_doe",
			expected: "ping @john\\_doe",
		},
		{
			name:     "Underscore outside handle",
			input:    "snake_case",
			expected: "snake_case",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeMentions(tt.input); got != tt.expected {
				t.Errorf("EscapeMentions() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRenderRunStylePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		run      models.TextRun
		expected string
	}{
		{
			name:     "Bold and italic",
			run:      models.TextRun{Text: "x", Style: models.Style{Bold: true, Italic: true}},
			expected: "*x*",
		},
		{
			name:     "Italic and code",
			run:      models.TextRun{Text: "x", Style: models.Style{Italic: true, Code: true}},
			expected: "_x_",
		},
		{
			name:     "Strikethrough and underline",
			run:      models.TextRun{Text: "x", Style: models.Style{Strikethrough: true, Underline: true}},
			expected: "~x~",
		},
		{
			name:     "Code",
			run:      models.TextRun{Text: "a.b", Style: models.Style{Code: true}},
			expected: "`a\\.b`",
		},
		{
			name:     "Underline",
			run:      models.TextRun{Text: "x", Style: models.Style{Underline: true}},
			expected: "__x__",
		},
		{
			name:     "Italic handle keeps closing marker",
			run:      models.TextRun{Text: "@john", Style: models.Style{Italic: true}},
			expected: "_@john_",
		},
		{
			name:     "Underlined text ending in a handle",
			run:      models.TextRun{Text: "ping @john", Style: models.Style{Underline: true}},
			expected: "__ping @john__",
		},
		{
			name:     "Italic handle with underscore",
			run:      models.TextRun{Text: "@john_doe", Style: models.Style{Italic: true}},
			expected: "_@john\\_doe_",
		},
		{
			name:     "Link around styled text",
			run:      models.TextRun{Text: "docs!", Href: "https://example.com/a_(b)", Style: models.Style{Bold: true}},
			expected: "[*docs\\!*](https://example.com/a_(b\\))",
		},
		{
			name:     "Empty styled run",
			run:      models.TextRun{Text: "", Style: models.Style{Bold: true}},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderRun(tt.run, true); got != tt.expected {
				t.Errorf("renderRun() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		block    models.Block
		expected string
	}{
		{
			name:     "Paragraph",
			block:    models.Block{Kind: models.KindParagraph, Text: plain("Hello, world.")},
			expected: "Hello, world\\.\n\n",
		},
		{
			name: "Heading drops nested bold",
			block: models.Block{Kind: models.KindHeading2, Text: []models.TextRun{
				{Text: "Plan "},
				{Text: "v2", Style: models.Style{Bold: true}},
			}},
			expected: "*Plan v2*\n\n",
		},
		{
			name:     "Bulleted item",
			block:    models.Block{Kind: models.KindBulleted, Text: plain("milk")},
			expected: "\\- milk\n",
		},
		{
			name:     "Numbered item uses a fixed literal",
			block:    models.Block{Kind: models.KindNumbered, Text: plain("second")},
			expected: "1\\. second\n",
		},
		{
			name:     "Quote",
			block:    models.Block{Kind: models.KindQuote, Text: plain("wise words")},
			expected: "> wise words\n\n",
		},
		{
			name:     "Callout",
			block:    models.Block{Kind: models.KindCallout, Icon: "💡", Text: plain("Tip")},
			expected: "💡 Tip\n\n",
		},
		{
			name:     "Callout without icon",
			block:    models.Block{Kind: models.KindCallout, Text: plain("Tip")},
			expected: "Tip\n\n",
		},
		{
			name:     "Code keeps raw text",
			block:    models.Block{Kind: models.KindCode, Language: "go", Text: plain("fmt.Println(`hi`)")},
			expected: "```\nfmt.Println(\\`hi\\`)\n```\n\n",
		},
		{
			name:     "Divider",
			block:    models.Block{Kind: models.KindDivider},
			expected: "\\-\\-\\-\\-\\-\\-\n\n",
		},
		{
			name:     "Image",
			block:    models.Block{Kind: models.KindImage, URL: "https://cdn.example.com/cat.png"},
			expected: "[🖼](https://cdn.example.com/cat.png)\n\n",
		},
		{
			name:     "Image without url",
			block:    models.Block{Kind: models.KindImage},
			expected: "",
		},
		{
			name: "Table with fetched rows skips escaping",
			block: models.Block{Kind: models.KindTable, Children: []models.Block{
				{Kind: models.KindTableRow, Cells: [][]models.TextRun{plain("v1.2"), plain("a-b")}},
				{Kind: models.KindTableRow, Cells: [][]models.TextRun{plain("x"), plain("y!")}},
			}},
			expected: "```\nv1.2 | a-b\nx | y!\n```\n\n",
		},
		{
			name:     "Table row alone",
			block:    models.Block{Kind: models.KindTableRow, Cells: [][]models.TextRun{plain("a"), plain("b"), plain("c")}},
			expected: "a | b | c",
		},
		{
			name:     "Unsupported",
			block:    models.Block{Kind: models.KindUnsupported, RawType: "synced_block"},
			expected: "",
		},
		{
			name:     "Unknown kind",
			block:    models.Block{Kind: models.BlockKind("mystery")},
			expected: "",
		},
	}

	r := NewRenderer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Render(context.Background(), tt.block); got != tt.expected {
				t.Errorf("Render() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRenderToggle(t *testing.T) {
	lister := &stubLister{
		children: map[string][]models.Block{
			"toggle-1": {
				{Kind: models.KindParagraph, Text: plain("inside.")},
				{Kind: models.KindBulleted, Text: plain("item")},
			},
			"toggle-2": {
				{Kind: models.KindUnsupported, RawType: "embed"},
			},
		},
		errs: map[string]error{"toggle-3": errors.New("rate limited")},
	}
	r := NewRenderer(lister)
	ctx := context.Background()

	got := r.Render(ctx, models.Block{ID: "toggle-1", Kind: models.KindToggle, HasChildren: true, Text: plain("More")})
	if want := "*More*\n||inside\\.\n\n\\- item||\n\n"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}

	got = r.Render(ctx, models.Block{ID: "toggle-2", Kind: models.KindToggle, HasChildren: true, Text: plain("Empty")})
	if want := "||Empty||\n\n"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}

	got = r.Render(ctx, models.Block{ID: "toggle-3", Kind: models.KindToggle, HasChildren: true, Text: plain("Broken")})
	if got != "" {
		t.Errorf("Expected empty fragment for failing child fetch, got %q", got)
	}

	got = r.Render(ctx, models.Block{ID: "toggle-4", Kind: models.KindToggle, Text: plain("Leaf")})
	if want := "||Leaf||\n\n"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}

	if strings.Join(lister.calls, ",") != "toggle-1,toggle-2,toggle-3" {
		t.Errorf("Unexpected child fetches: %v", lister.calls)
	}
}

func TestRenderTableFetchesRows(t *testing.T) {
	lister := &stubLister{
		children: map[string][]models.Block{
			"table-1": {
				{Kind: models.KindTableRow, Cells: [][]models.TextRun{plain("Name"), plain("Qty")}},
				{Kind: models.KindTableRow, Cells: [][]models.TextRun{plain("apples"), plain("3")}},
			},
		},
	}
	r := NewRenderer(lister)

	got := r.Render(context.Background(), models.Block{ID: "table-1", Kind: models.KindTable, HasChildren: true})
	if want := "```\nName | Qty\napples | 3\n```\n\n"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderWithoutListerFailsOnlyThatBlock(t *testing.T) {
	r := NewRenderer(nil)
	got := r.Render(context.Background(), models.Block{ID: "t", Kind: models.KindTable, HasChildren: true})
	if got != "" {
		t.Errorf("Expected empty fragment, got %q", got)
	}
}
