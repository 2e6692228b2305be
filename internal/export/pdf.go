package export

import (
	"fmt"
	"strings"
)

const pointsPerInch = 72

// pageGeometry returns the page size in inches, honouring orientation.
func pageGeometry(l Layout) (width, height float64) {
	switch strings.ToLower(l.PageSize) {
	case "a4":
		width, height = 8.27, 11.69
	case "legal":
		width, height = 8.5, 14
	default:
		width, height = 8.5, 11
	}
	if strings.EqualFold(l.Orientation, "landscape") {
		width, height = height, width
	}
	return width, height
}

// pageCapacity returns lines per page and characters per line for the
// layout and typography.
func pageCapacity(o Options) (lines, chars int) {
	w, h := pageGeometry(o.Layout)
	size := o.Typography.FontSize
	if size <= 0 {
		size = 11
	}
	lh := o.Typography.LineHeight
	if lh <= 0 {
		lh = 1.2
	}
	cols := max(o.Layout.Columns, 1)
	usableH := (h - o.Layout.Margins.Top - o.Layout.Margins.Bottom) * pointsPerInch
	usableW := (w - o.Layout.Margins.Left - o.Layout.Margins.Right) * pointsPerInch / float64(cols)
	lines = max(int(usableH/(size*lh)), 10)
	chars = max(int(usableW/(size*0.5)), 30)
	return lines, chars
}

// pdfString escapes a PDF literal string.
func pdfString(s string) string {
	return strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(s)
}

// textLines renders section content as plain wrapped lines.
func textLines(content string, width int) []string {
	var out []string
	for i, b := range parseBlocks(content) {
		if i > 0 {
			out = append(out, "")
		}
		switch b.kind {
		case blockHeading:
			out = append(out, b.text.plain())
		case blockParagraph:
			out = append(out, wrap(b.text.plain(), width)...)
		case blockBullets:
			for _, it := range b.items {
				out = append(out, hanging("  • ", wrap(it.plain(), width-4))...)
			}
		case blockNumbered:
			for n, it := range b.items {
				out = append(out, hanging(fmt.Sprintf("  %d. ", n+1), wrap(it.plain(), width-5))...)
			}
		case blockTable:
			out = append(out, alignTable(b.rows)...)
		}
	}
	return out
}

func hanging(prefix string, lines []string) []string {
	pad := strings.Repeat(" ", len([]rune(prefix)))
	for i := range lines {
		if i == 0 {
			lines[i] = prefix + lines[i]
		} else {
			lines[i] = pad + lines[i]
		}
	}
	return lines
}

// alignTable pads cells into fixed-width columns.
func alignTable(rows [][]inline) []string {
	var widths []int
	for _, r := range rows {
		for i, c := range r {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], len([]rune(c.plain())))
		}
	}
	format := func(r []inline) string {
		cells := make([]string, len(widths))
		for i := range widths {
			c := ""
			if i < len(r) {
				c = r[i].plain()
			}
			cells[i] = c + strings.Repeat(" ", widths[i]-len([]rune(c)))
		}
		return strings.TrimRight(strings.Join(cells, "  "), " ")
	}
	out := make([]string, 0, len(rows)+1)
	for i, r := range rows {
		out = append(out, format(r))
		if i == 0 {
			seps := make([]string, len(widths))
			for j, w := range widths {
				seps[j] = strings.Repeat("-", w)
			}
			out = append(out, strings.Join(seps, "  "))
		}
	}
	return out
}

type pdfPage struct {
	section string // section that starts on this page, if any
	lines   []string
}

// renderPDF produces a print-oriented PDF source listing: info dictionary,
// cover, table of contents with page references, one page run per section
// and an outline for navigation.
func renderPDF(in RenderInput) (string, []string) {
	o := in.Options
	title := documentTitle(in.Document)
	linesPerPage, width := pageCapacity(o)
	applied := []string{optPDFMetadata, optPDFLayout, optPDFTypography}

	var pages []pdfPage
	if o.Structure.IncludeCoverPage {
		cover := []string{"", title, ""}
		if o.Compliance.Confidential {
			cover = append(cover, "CONFIDENTIAL")
		}
		cover = append(cover, "Prepared "+in.Generated.UTC().Format("January 2, 2006"))
		if o.Compliance.Disclaimer != "" {
			cover = append(cover, "")
			cover = append(cover, wrap(o.Compliance.Disclaimer, width)...)
		}
		pages = append(pages, pdfPage{lines: cover})
		applied = append(applied, optCoverPage)
	}

	// Without a cover page the title opens the first page.
	var lead []string
	if !o.Structure.IncludeCoverPage {
		lead = []string{title, ""}
	}

	tocIndex := -1
	if o.Structure.IncludeTableOfContents && len(in.Sections) > 0 {
		tocIndex = len(pages)
		pages = append(pages, pdfPage{})
		applied = append(applied, optTableOfContents)
	}

	startPage := make([]int, len(in.Sections))
	for i, s := range in.Sections {
		body := append([]string{s.Title, strings.Repeat("=", min(len([]rune(s.Title)), width)), ""}, textLines(s.Content, width)...)
		if i == 0 && tocIndex < 0 {
			body = append(lead, body...)
		}
		startPage[i] = len(pages) + 1
		for first := true; len(body) > 0 || first; first = false {
			n := min(len(body), linesPerPage)
			page := pdfPage{lines: body[:n]}
			if first {
				page.section = s.Title
			}
			pages = append(pages, page)
			body = body[n:]
		}
	}
	if len(in.Sections) == 0 && len(pages) == 0 {
		pages = append(pages, pdfPage{lines: []string{title}})
	}

	if tocIndex >= 0 {
		toc := append(lead, tocTitle, "")
		for i, s := range in.Sections {
			num := fmt.Sprintf("%d", startPage[i])
			dots := max(width-len([]rune(s.Title))-len(num)-2, 3)
			toc = append(toc, s.Title+" "+strings.Repeat(".", dots)+" "+num)
		}
		pages[tocIndex].lines = toc
	}

	var b strings.Builder
	b.WriteString("%PDF-1.7\n")
	fmt.Fprintf(&b, "1 0 obj << /Type /Info /Title (%s) /Producer (deal-engine) /CreationDate (D:%s) /Quality (%s)",
		pdfString(title), in.Generated.UTC().Format("20060102150405Z"), o.Export.Quality)
	if o.Compliance.Industry != "" {
		fmt.Fprintf(&b, " /Subject (%s)", pdfString(o.Compliance.Industry))
	}
	if o.Compliance.Confidential {
		b.WriteString(" /Classification (Confidential)")
	}
	b.WriteString(" >> endobj\n")
	w, h := pageGeometry(o.Layout)
	fmt.Fprintf(&b, "%% Layout: %s %s %.2fx%.2fin, %d column(s), margins %.2f/%.2f/%.2f/%.2fin\n",
		o.Layout.PageSize, o.Layout.Orientation, w, h, max(o.Layout.Columns, 1),
		o.Layout.Margins.Top, o.Layout.Margins.Right, o.Layout.Margins.Bottom, o.Layout.Margins.Left)
	fmt.Fprintf(&b, "%% Typography: body %s %.1fpt, headings %s, line height %.2f, embedded fonts %t, compression %t\n",
		o.Typography.FontFamily, o.Typography.FontSize, o.Typography.HeadingFont, o.Typography.LineHeight,
		o.Export.EmbedFonts, o.Export.Compression)
	if o.Compliance.Watermark != "" {
		fmt.Fprintf(&b, "%% Watermark: %s\n", o.Compliance.Watermark)
	}

	for i, p := range pages {
		num := i + 1
		fmt.Fprintf(&b, "\n%d 0 obj << /Type /Page /Number %d >> stream\n", num+1, num)
		if o.Structure.Headers && !(o.Structure.IncludeCoverPage && i == 0) {
			fmt.Fprintf(&b, "[header] %s\n", title)
		}
		for _, l := range p.lines {
			b.WriteString(l + "\n")
		}
		if o.Structure.Footers || o.Structure.PageNumbers {
			var parts []string
			if o.Structure.Footers && o.Compliance.Confidential {
				parts = append(parts, "Confidential")
			}
			if o.Structure.PageNumbers {
				parts = append(parts, fmt.Sprintf("Page %d of %d", num, len(pages)))
			}
			if len(parts) > 0 {
				fmt.Fprintf(&b, "[footer] %s\n", strings.Join(parts, " | "))
			}
		}
		b.WriteString("endstream endobj\n")
	}

	fmt.Fprintf(&b, "\n%d 0 obj << /Type /Outlines /Count %d >>\n", len(pages)+2, len(in.Sections))
	for i, s := range in.Sections {
		fmt.Fprintf(&b, "  << /Title (%s) /Dest [%d /Fit] >>\n", pdfString(s.Title), startPage[i])
	}
	b.WriteString("endobj\n%%EOF\n")
	applied = append(applied, optPDFNavigation)

	return b.String(), applied
}
