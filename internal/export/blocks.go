package export

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/sells-group/deal-engine/internal/model"
)

// contentParser reads section content as CommonMark with GFM tables.
var contentParser = goldmark.New(goldmark.WithExtensions(extension.Table)).Parser()

type blockKind int

const (
	blockParagraph blockKind = iota
	blockHeading
	blockBullets
	blockNumbered
	blockTable
)

// block is one structural element of section content.
type block struct {
	kind  blockKind
	level int        // heading level
	text  inline     // paragraph or heading text
	items []inline   // list items
	rows  [][]inline // table rows, header first
}

// span is a run of inline text, optionally bold.
type span struct {
	text string
	bold bool
}

// inline is the inline content of a block: styled spans plus the markdown
// source they came from.
type inline struct {
	spans  []span
	source string
}

func literal(s string) inline {
	return inline{spans: []span{{text: s}}, source: s}
}

// plain drops inline markup.
func (in inline) plain() string {
	var b strings.Builder
	for _, sp := range in.spans {
		b.WriteString(sp.text)
	}
	return b.String()
}

// markdown returns the inline content as markdown.
func (in inline) markdown() string {
	if in.source != "" {
		return in.source
	}
	var b strings.Builder
	for _, sp := range in.spans {
		if sp.bold {
			b.WriteString("**" + sp.text + "**")
			continue
		}
		b.WriteString(sp.text)
	}
	return b.String()
}

// emboldened returns a copy with every span bold.
func (in inline) emboldened() inline {
	out := inline{spans: make([]span, len(in.spans)), source: in.source}
	for i, sp := range in.spans {
		out.spans[i] = span{text: sp.text, bold: true}
	}
	return out
}

func (in inline) add(s string, bold bool) inline {
	if s == "" {
		return in
	}
	if n := len(in.spans); n > 0 && in.spans[n-1].bold == bold {
		in.spans[n-1].text += s
		return in
	}
	in.spans = append(in.spans, span{text: s, bold: bold})
	return in
}

func (in inline) join(other inline) inline {
	if len(in.spans) == 0 {
		return other
	}
	in = in.add(" ", false)
	for _, sp := range other.spans {
		in = in.add(sp.text, sp.bold)
	}
	in.source = strings.TrimSpace(in.source + " " + other.source)
	return in
}

var blankRunsRe = regexp.MustCompile(`\n{3,}`)

// parseBlocks reads section content into blocks. Adjacent lists of the same
// kind are merged.
func parseBlocks(content string) []block {
	src := []byte(content)
	doc := contentParser.Parse(text.NewReader(src))
	var out []block
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		out = appendBlock(out, n, src)
	}
	return out
}

func appendBlock(out []block, n ast.Node, src []byte) []block {
	switch n := n.(type) {
	case *ast.Heading:
		return append(out, block{kind: blockHeading, level: n.Level, text: inlineOf(n, src)})
	case *ast.Paragraph, *ast.TextBlock:
		return append(out, block{kind: blockParagraph, text: inlineOf(n, src)})
	case *ast.List:
		kind := blockBullets
		if n.IsOrdered() {
			kind = blockNumbered
		}
		var items []inline
		for li := n.FirstChild(); li != nil; li = li.NextSibling() {
			items = append(items, itemInline(li, src))
		}
		if k := len(out); k > 0 && out[k-1].kind == kind {
			out[k-1].items = append(out[k-1].items, items...)
			return out
		}
		return append(out, block{kind: kind, items: items})
	case *extast.Table:
		var rows [][]inline
		for r := n.FirstChild(); r != nil; r = r.NextSibling() {
			var row []inline
			for c := r.FirstChild(); c != nil; c = c.NextSibling() {
				row = append(row, inlineOf(c, src))
			}
			rows = append(rows, row)
		}
		return append(out, block{kind: blockTable, rows: rows})
	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
		if s := sourceOf(n, src); s != "" {
			return append(out, block{kind: blockParagraph, text: literal(s)})
		}
		return out
	case *ast.ThematicBreak:
		return out
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = appendBlock(out, c, src)
	}
	return out
}

// itemInline flattens a list item, nested lists included, into one line.
func itemInline(li ast.Node, src []byte) inline {
	var out inline
	_ = ast.Walk(li, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
			out = out.join(inlineOf(n, src))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return out
}

// inlineOf collects the inline children of a block node.
func inlineOf(n ast.Node, src []byte) inline {
	var out inline
	var walk func(parent ast.Node, bold bool)
	walk = func(parent ast.Node, bold bool) {
		for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
			switch c := c.(type) {
			case *ast.Text:
				out = out.add(textValue(c.Segment.Value(src)), bold)
				if c.SoftLineBreak() || c.HardLineBreak() {
					out = out.add(" ", bold)
				}
			case *ast.String:
				out = out.add(string(c.Value), bold)
			case *ast.CodeSpan:
				for t := c.FirstChild(); t != nil; t = t.NextSibling() {
					if tx, ok := t.(*ast.Text); ok {
						out = out.add(string(tx.Segment.Value(src)), bold)
					}
				}
			case *ast.Emphasis:
				walk(c, bold || c.Level >= 2)
			case *ast.AutoLink:
				out = out.add(string(c.Label(src)), bold)
			case *ast.RawHTML:
				for i := 0; i < c.Segments.Len(); i++ {
					seg := c.Segments.At(i)
					out = out.add(string(seg.Value(src)), bold)
				}
			default:
				walk(c, bold)
			}
		}
	}
	walk(n, false)

	if k := len(out.spans); k > 0 {
		out.spans[0].text = strings.TrimLeft(out.spans[0].text, " ")
		out.spans[k-1].text = strings.TrimRight(out.spans[k-1].text, " ")
	}
	out.source = sourceOf(n, src)
	return out
}

func textValue(raw []byte) string {
	return string(util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(raw))))
}

// sourceOf returns the node's source lines joined by single spaces.
func sourceOf(n ast.Node, src []byte) string {
	lines := n.Lines()
	if lines == nil {
		return ""
	}
	parts := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		if s := strings.TrimSpace(string(seg.Value(src))); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// slugify builds a GitHub-style anchor.
func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "section"
	}
	return b.String()
}

// anchors returns a unique slug per section. A suffixed slug is also checked
// against slugs already taken.
func anchors(sections []model.Section) []string {
	used := make(map[string]bool, len(sections))
	out := make([]string, len(sections))
	for i, s := range sections {
		base := slugify(s.Title)
		slug := base
		for n := 1; used[slug]; n++ {
			slug = base + "-" + strconv.Itoa(n)
		}
		used[slug] = true
		out[i] = slug
	}
	return out
}

// wrap breaks text into lines no wider than width.
func wrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}
