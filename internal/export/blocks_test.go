package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/deal-engine/internal/model"
)

func plainItems(items []inline) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.plain()
	}
	return out
}

func plainRows(rows [][]inline) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = plainItems(r)
	}
	return out
}

func TestParseBlocks(t *testing.T) {
	content := "### Financial Due Diligence\n\n" +
		"First line\ncontinues here.\n\n" +
		"- one\n* two\n\n" +
		"1. alpha\n2. beta\n\n" +
		"| A | B |\n| --- | :---: |\n| 1 | 2 |\n"

	blocks := parseBlocks(content)
	require.Len(t, blocks, 5)

	assert.Equal(t, blockHeading, blocks[0].kind)
	assert.Equal(t, 3, blocks[0].level)
	assert.Equal(t, "Financial Due Diligence", blocks[0].text.plain())

	assert.Equal(t, blockParagraph, blocks[1].kind)
	assert.Equal(t, "First line continues here.", blocks[1].text.plain())

	assert.Equal(t, blockBullets, blocks[2].kind)
	assert.Equal(t, []string{"one", "two"}, plainItems(blocks[2].items))

	assert.Equal(t, blockNumbered, blocks[3].kind)
	assert.Equal(t, []string{"alpha", "beta"}, plainItems(blocks[3].items))

	assert.Equal(t, blockTable, blocks[4].kind)
	assert.Equal(t, [][]string{{"A", "B"}, {"1", "2"}}, plainRows(blocks[4].rows))
}

func TestParseBlocksTables(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    [][]string
	}{
		{"dash cell", "| Criterion | Category |\n| --- | --- |\n| Growth | - |", [][]string{{"Criterion", "Category"}, {"Growth", "-"}}},
		{"escaped pipe", "| Term | Note |\n| --- | --- |\n| a \\| b | c |", [][]string{{"Term", "Note"}, {"a | b", "c"}}},
		{"bold cell", "| Metric | Value |\n| --- | --- |\n| **IRR** | 22% |", [][]string{{"Metric", "Value"}, {"IRR", "22%"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := parseBlocks(tt.content)
			require.Len(t, blocks, 1)
			assert.Equal(t, blockTable, blocks[0].kind)
			assert.Equal(t, tt.want, plainRows(blocks[0].rows))
		})
	}
}

func TestParseBlocksNestedListFlattens(t *testing.T) {
	blocks := parseBlocks("- parent\n  - child\n- sibling")
	require.Len(t, blocks, 1)
	assert.Equal(t, []string{"parent child", "sibling"}, plainItems(blocks[0].items))
}

func TestInlineSpans(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []span
	}{
		{"bold", "a **bold** b", []span{{text: "a "}, {text: "bold", bold: true}, {text: " b"}}},
		{"unmatched marker", "unmatched ** marker", []span{{text: "unmatched ** marker"}}},
		{"intraword", "net**worth**gain", []span{{text: "net"}, {text: "worth", bold: true}, {text: "gain"}}},
		{"italic is plain", "an *aside* here", []span{{text: "an aside here"}}},
		{"entity", "R&amp;D spend", []span{{text: "R&D spend"}}},
		{"inline html kept as text", "Exit <Options> now", []span{{text: "Exit <Options> now"}}},
		{"code span", "use `a|b` here", []span{{text: "use a|b here"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := parseBlocks(tt.content)
			require.Len(t, blocks, 1)
			assert.Equal(t, tt.want, blocks[0].text.spans)
		})
	}
}

func TestInlineMarkdownKeepsSource(t *testing.T) {
	blocks := parseBlocks("Deal **Bold** tail\nnext line")
	require.Len(t, blocks, 1)
	assert.Equal(t, "Deal **Bold** tail next line", blocks[0].text.markdown())
	assert.Equal(t, "Deal Bold tail next line", blocks[0].text.plain())

	built := inline{spans: []span{{text: "a "}, {text: "b", bold: true}}}
	assert.Equal(t, "a **b**", built.markdown())
	assert.Equal(t, []span{{text: "a ", bold: true}, {text: "b", bold: true}}, built.emboldened().spans)
}

func TestSlugifyAndAnchors(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Deal Overview", "deal-overview"},
		{"AI-Enhanced Risk Factors", "ai-enhanced-risk-factors"},
		{"Team & Resources", "team--resources"},
		{"**Bold** Title", "bold-title"},
		{"!!!", "section"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, slugify(tt.in), tt.in)
	}
}

func TestAnchorsUnique(t *testing.T) {
	tests := []struct {
		name   string
		titles []string
		want   []string
	}{
		{"repeated", []string{"Notes", "Notes", "Notes"}, []string{"notes", "notes-1", "notes-2"}},
		{"suffix already taken", []string{"A", "A", "A-1"}, []string{"a", "a-1", "a-1-1"}},
		{"suffix taken first", []string{"A-1", "A", "A"}, []string{"a-1", "a", "a-2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections := make([]model.Section, len(tt.titles))
			for i, title := range tt.titles {
				sections[i] = model.Section{Title: title}
			}
			assert.Equal(t, tt.want, anchors(sections))
		})
	}
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"the quick", "brown fox"}, wrap("the quick brown fox", 10))
	assert.Nil(t, wrap("   ", 10))
	assert.Equal(t, []string{"supercalifragilistic"}, wrap("supercalifragilistic", 5))
}

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "a\n\nb\n", normalizeWhitespace("a  \r\n\n\n\nb\n\n"))
}
