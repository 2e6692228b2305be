package export

import (
	"fmt"
	"html"
	"strings"
)

const analystPlaceholder = "[To be completed by analyst]"

// xmlText writes character data. Text with markup characters goes into a
// CDATA section so it stays as written; a literal "]]>" splits the section.
func xmlText(s string) string {
	if !strings.ContainsAny(s, "<>&") {
		return s
	}
	return "<![CDATA[" + strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>") + "]]>"
}

// docxRuns renders inline text as WordprocessingML runs.
func docxRuns(in inline) string {
	var b strings.Builder
	for _, sp := range in.spans {
		b.WriteString("<w:r>")
		if sp.bold {
			b.WriteString("<w:rPr><w:b/></w:rPr>")
		}
		fmt.Fprintf(&b, `<w:t xml:space="preserve">%s</w:t></w:r>`, xmlText(sp.text))
	}
	return b.String()
}

func docxPara(style string, in inline) string {
	return fmt.Sprintf(`<w:p><w:pPr><w:pStyle w:val="%s"/></w:pPr>%s</w:p>`+"\n", style, docxRuns(in))
}

type docxComment struct {
	id     int
	author string
	text   string
}

// renderDOCX produces a WordprocessingML document body with style
// definitions, review comments and formatted tables.
func renderDOCX(in RenderInput) (string, []string) {
	o := in.Options
	title := documentTitle(in.Document)
	applied := []string{optDOCXStyles}

	var comments []docxComment
	addComment := func(text string) int {
		id := len(comments)
		comments = append(comments, docxComment{id: id, author: "Deal Engine", text: text})
		return id
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` + "\n")

	fmt.Fprintf(&b, `<w:styles><w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="%s"/><w:sz w:val="%d"/></w:rPr></w:rPrDefault>`+
		`<w:pPrDefault><w:pPr><w:spacing w:line="%d"/></w:pPr></w:pPrDefault></w:docDefaults>`+"\n",
		html.EscapeString(o.Typography.FontFamily), int(o.Typography.FontSize*2), int(o.Typography.LineHeight*240))
	for _, st := range []struct {
		id   string
		size float64
	}{{"Title", 2.2}, {"Heading1", 1.6}, {"Heading2", 1.3}, {"Heading3", 1.15}} {
		fmt.Fprintf(&b, `<w:style w:type="paragraph" w:styleId="%s"><w:rPr><w:rFonts w:ascii="%s"/><w:b/><w:sz w:val="%d"/></w:rPr></w:style>`+"\n",
			st.id, html.EscapeString(o.Typography.HeadingFont), int(o.Typography.FontSize*st.size*2))
	}
	b.WriteString(`<w:style w:type="paragraph" w:styleId="Normal"/><w:style w:type="paragraph" w:styleId="ListBullet"/><w:style w:type="paragraph" w:styleId="ListNumber"/>` + "\n")
	b.WriteString(`<w:style w:type="table" w:styleId="DealTable"><w:tblPr><w:tblBorders><w:insideH w:val="single"/><w:insideV w:val="single"/></w:tblBorders></w:tblPr></w:style>` + "\n")
	b.WriteString("</w:styles>\n<w:body>\n")

	if o.Export.AllowEditing {
		b.WriteString(`<w:settings><w:trackRevisions/></w:settings>` + "\n")
	}
	if o.Structure.Headers {
		fmt.Fprintf(&b, `<w:hdr>%s</w:hdr>`+"\n", docxRuns(literal(title)))
	}

	b.WriteString(docxPara("Title", literal(title)))
	if o.Compliance.Confidential {
		b.WriteString(docxPara("Subtitle", literal("CONFIDENTIAL")))
	}
	if o.Structure.IncludeCoverPage {
		fmt.Fprintf(&b, `<w:p>%s</w:p>`+"\n", docxRuns(literal("Prepared "+in.Generated.UTC().Format("January 2, 2006"))))
		b.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>` + "\n")
		applied = append(applied, optCoverPage)
	}

	if o.Structure.IncludeTableOfContents && len(in.Sections) > 0 {
		b.WriteString(`<w:sdt><w:sdtPr><w:docPartObj><w:docPartGallery w:val="Table of Contents"/></w:docPartObj></w:sdtPr><w:sdtContent>` + "\n")
		b.WriteString(docxPara("TOCHeading", literal(tocTitle)))
		for _, s := range in.Sections {
			b.WriteString(docxPara("TOC1", literal(s.Title)))
		}
		b.WriteString("</w:sdtContent></w:sdt>\n")
		applied = append(applied, optTableOfContents)
	}

	tables := 0
	for _, s := range in.Sections {
		if strings.TrimSpace(s.Content) == analystPlaceholder {
			id := addComment("Analyst input required before circulation.")
			fmt.Fprintf(&b, `<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:commentRangeStart w:id="%d"/>%s<w:commentRangeEnd w:id="%d"/><w:r><w:commentReference w:id="%d"/></w:r></w:p>`+"\n",
				id, docxRuns(literal(s.Title)), id, id)
		} else {
			b.WriteString(docxPara("Heading1", literal(s.Title)))
		}

		for _, blk := range parseBlocks(s.Content) {
			switch blk.kind {
			case blockHeading:
				b.WriteString(docxPara(fmt.Sprintf("Heading%d", min(blk.level, 3)), blk.text))
			case blockParagraph:
				b.WriteString(docxPara("Normal", blk.text))
			case blockBullets:
				for _, it := range blk.items {
					fmt.Fprintf(&b, `<w:p><w:pPr><w:pStyle w:val="ListBullet"/><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr>%s</w:p>`+"\n", docxRuns(it))
				}
			case blockNumbered:
				for _, it := range blk.items {
					fmt.Fprintf(&b, `<w:p><w:pPr><w:pStyle w:val="ListNumber"/><w:numPr><w:ilvl w:val="0"/><w:numId w:val="2"/></w:numPr></w:pPr>%s</w:p>`+"\n", docxRuns(it))
				}
			case blockTable:
				tables++
				writeDOCXTable(&b, blk.rows)
			}
		}
	}

	if o.Compliance.Disclaimer != "" {
		b.WriteString(docxPara("Disclaimer", literal(o.Compliance.Disclaimer)))
	}
	if o.Structure.Footers || o.Structure.PageNumbers {
		b.WriteString("<w:ftr>")
		if o.Structure.Footers && o.Compliance.Confidential {
			b.WriteString(docxRuns(literal("Confidential")))
		}
		if o.Structure.PageNumbers {
			b.WriteString(`<w:fldSimple w:instr="PAGE"/>`)
		}
		b.WriteString("</w:ftr>\n")
	}

	m := o.Layout.Margins
	w, h := pageGeometry(o.Layout)
	fmt.Fprintf(&b, `<w:sectPr><w:pgSz w:w="%d" w:h="%d" w:orient="%s"/><w:pgMar w:top="%d" w:bottom="%d" w:left="%d" w:right="%d"/><w:cols w:num="%d"/></w:sectPr>`+"\n",
		int(w*1440), int(h*1440), html.EscapeString(o.Layout.Orientation),
		int(m.Top*1440), int(m.Bottom*1440), int(m.Left*1440), int(m.Right*1440), max(o.Layout.Columns, 1))
	b.WriteString("</w:body>\n")

	if o.Export.AllowEditing {
		addComment("Draft generated for review. Track changes is enabled.")
	}
	if len(comments) > 0 {
		b.WriteString("<w:comments>\n")
		for _, c := range comments {
			fmt.Fprintf(&b, `<w:comment w:id="%d" w:author="%s">%s</w:comment>`+"\n", c.id, c.author, docxPara("CommentText", literal(c.text)))
		}
		b.WriteString("</w:comments>\n")
		applied = append(applied, optDOCXComments)
	}
	b.WriteString("</w:document>\n")

	if tables > 0 {
		applied = append(applied, optDOCXTables)
	}
	return b.String(), applied
}

func writeDOCXTable(b *strings.Builder, rows [][]inline) {
	b.WriteString(`<w:tbl><w:tblPr><w:tblStyle w:val="DealTable"/><w:tblW w:w="5000" w:type="pct"/></w:tblPr>` + "\n")
	for i, r := range rows {
		b.WriteString("<w:tr>")
		if i == 0 {
			b.WriteString(`<w:trPr><w:tblHeader/></w:trPr>`)
		}
		for _, c := range r {
			if i == 0 {
				c = c.emboldened()
			}
			fmt.Fprintf(b, `<w:tc><w:p>%s</w:p></w:tc>`, docxRuns(c))
		}
		b.WriteString("</w:tr>\n")
	}
	b.WriteString("</w:tbl>\n")
}
