package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/deal-engine/internal/model"
)

const htmlStyles = `body{margin:0 auto;max-width:60rem;padding:1rem;font-family:%s,serif;font-size:%.0fpt;line-height:%.2f}
h1,h2,h3{font-family:%s,sans-serif}
.skip-link{position:absolute;left:-999px}.skip-link:focus{left:1rem}
.sr-only{position:absolute;width:1px;height:1px;overflow:hidden;clip:rect(0 0 0 0)}
.table-scroll{overflow-x:auto}
table{border-collapse:collapse;width:100%%}th,td{border:1px solid #ccc;padding:.4rem;text-align:left}
.section-toggle{background:none;border:0;cursor:pointer;font:inherit}
@media (max-width:640px){body{padding:.5rem;font-size:%.0fpt}nav.toc{display:none}}
@media print{.section-toggle,.skip-link{display:none}}
`

const htmlScript = `document.querySelectorAll('.section-toggle').forEach(function(btn){btn.addEventListener('click',function(){var body=document.getElementById(btn.getAttribute('aria-controls'));var open=btn.getAttribute('aria-expanded')==='true';btn.setAttribute('aria-expanded',String(!open));body.hidden=open;});});`

func htmlInline(in inline) string {
	var b strings.Builder
	for _, sp := range in.spans {
		if sp.bold {
			fmt.Fprintf(&b, "<strong>%s</strong>", html.EscapeString(sp.text))
			continue
		}
		b.WriteString(html.EscapeString(sp.text))
	}
	return b.String()
}

func metaDescription(sections []string) string {
	for _, content := range sections {
		for _, blk := range parseBlocks(content) {
			if blk.kind == blockParagraph {
				words := strings.Fields(blk.text.plain())
				if len(words) > 30 {
					words = append(words[:30], "...")
				}
				return strings.Join(words, " ")
			}
		}
	}
	return ""
}

// renderHTML produces a standalone accessible, responsive page.
func renderHTML(in RenderInput) (string, []string) {
	o := in.Options
	title := documentTitle(in.Document)
	ids := anchors(in.Sections)
	applied := []string{optHTMLAccessibility, optHTMLResponsive, optHTMLInteractive, optHTMLSEO}

	contents := make([]string, len(in.Sections))
	for i, s := range in.Sections {
		contents[i] = s.Content
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	if desc := metaDescription(contents); desc != "" {
		fmt.Fprintf(&b, "<meta name=\"description\" content=\"%s\">\n", html.EscapeString(desc))
	}
	fmt.Fprintf(&b, "<meta property=\"og:title\" content=\"%s\">\n", html.EscapeString(title))
	b.WriteString("<meta property=\"og:type\" content=\"article\">\n")
	if o.Compliance.Industry != "" {
		fmt.Fprintf(&b, "<meta name=\"keywords\" content=\"%s, private equity, deal\">\n", html.EscapeString(o.Compliance.Industry))
	}
	if o.Compliance.Confidential {
		b.WriteString("<meta name=\"robots\" content=\"noindex, nofollow\">\n")
	}
	if ld, err := structuredData(title, in.Sections); err != nil {
		zap.L().Warn("export: structured data skipped", zap.Error(err))
	} else {
		fmt.Fprintf(&b, "<script type=\"application/ld+json\">%s</script>\n", ld)
	}
	fmt.Fprintf(&b, "<meta name=\"generated\" content=\"%s\">\n", in.Generated.UTC().Format("2006-01-02T15:04:05Z"))
	fmt.Fprintf(&b, "<style>\n"+htmlStyles+"</style>\n",
		html.EscapeString(o.Typography.FontFamily), o.Typography.FontSize, o.Typography.LineHeight,
		html.EscapeString(o.Typography.HeadingFont), max(o.Typography.FontSize-1, 9))
	b.WriteString("</head>\n<body>\n")
	b.WriteString("<a class=\"skip-link\" href=\"#main\">Skip to content</a>\n")

	if o.Structure.Headers || o.Structure.IncludeCoverPage {
		b.WriteString("<header role=\"banner\">\n")
	}
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(title))
	if o.Compliance.Confidential {
		b.WriteString("<p class=\"classification\">Confidential</p>\n")
	}
	if o.Structure.Headers || o.Structure.IncludeCoverPage {
		b.WriteString("</header>\n")
	}

	if o.Structure.IncludeTableOfContents && len(in.Sections) > 0 {
		b.WriteString("<nav class=\"toc\" aria-labelledby=\"toc-heading\">\n")
		fmt.Fprintf(&b, "<h2 id=\"toc-heading\">%s</h2>\n<ol>\n", tocTitle)
		for i, s := range in.Sections {
			fmt.Fprintf(&b, "<li><a href=\"#%s\">%s</a></li>\n", ids[i], html.EscapeString(s.Title))
		}
		b.WriteString("</ol>\n</nav>\n")
		applied = append(applied, optTableOfContents)
	}

	b.WriteString("<main id=\"main\" role=\"main\">\n")
	for i, s := range in.Sections {
		id := ids[i]
		fmt.Fprintf(&b, "<section id=\"%s\" aria-labelledby=\"%s-heading\">\n", id, id)
		fmt.Fprintf(&b, "<h2 id=\"%s-heading\"><button class=\"section-toggle\" aria-expanded=\"true\" aria-controls=\"%s-body\">%s</button></h2>\n",
			id, id, html.EscapeString(s.Title))
		fmt.Fprintf(&b, "<div id=\"%s-body\">\n", id)
		writeHTMLBlocks(&b, s.Content, s.Title)
		b.WriteString("</div>\n</section>\n")
	}
	b.WriteString("</main>\n")

	if o.Structure.Footers {
		b.WriteString("<footer role=\"contentinfo\">\n")
		if o.Compliance.Disclaimer != "" {
			fmt.Fprintf(&b, "<p><small>%s</small></p>\n", html.EscapeString(o.Compliance.Disclaimer))
		}
		b.WriteString("</footer>\n")
	}
	fmt.Fprintf(&b, "<script>%s</script>\n", htmlScript)
	b.WriteString("</body>\n</html>\n")
	return b.String(), applied
}

type reportPart struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type reportData struct {
	Context string       `json:"@context"`
	Type    string       `json:"@type"`
	Name    string       `json:"name"`
	HasPart []reportPart `json:"hasPart,omitempty"`
}

// scriptSafe keeps embedded JSON from closing its script element.
var scriptSafe = strings.NewReplacer("</", `<\/`, "<!--", `\u003c!--`)

// structuredData describes the document outline as schema.org JSON-LD.
// Titles are written unescaped so they read exactly as given.
func structuredData(title string, sections []model.Section) (string, error) {
	data := reportData{Context: "https://schema.org", Type: "Report", Name: title}
	for _, s := range sections {
		data.HasPart = append(data.HasPart, reportPart{Type: "WebPageElement", Name: s.Title})
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return "", err
	}
	return scriptSafe.Replace(strings.TrimSpace(buf.String())), nil
}

func writeHTMLBlocks(b *strings.Builder, content, sectionTitle string) {
	for _, blk := range parseBlocks(content) {
		switch blk.kind {
		case blockHeading:
			level := min(blk.level+1, 6)
			fmt.Fprintf(b, "<h%d>%s</h%d>\n", level, htmlInline(blk.text), level)
		case blockParagraph:
			fmt.Fprintf(b, "<p>%s</p>\n", htmlInline(blk.text))
		case blockBullets, blockNumbered:
			tag := "ul"
			if blk.kind == blockNumbered {
				tag = "ol"
			}
			fmt.Fprintf(b, "<%s>\n", tag)
			for _, it := range blk.items {
				fmt.Fprintf(b, "<li>%s</li>\n", htmlInline(it))
			}
			fmt.Fprintf(b, "</%s>\n", tag)
		case blockTable:
			b.WriteString("<div class=\"table-scroll\" role=\"region\" tabindex=\"0\">\n<table>\n")
			fmt.Fprintf(b, "<caption class=\"sr-only\">%s</caption>\n", html.EscapeString(sectionTitle))
			for i, r := range blk.rows {
				if i == 0 {
					b.WriteString("<thead><tr>")
					for _, c := range r {
						fmt.Fprintf(b, "<th scope=\"col\">%s</th>", htmlInline(c))
					}
					b.WriteString("</tr></thead>\n<tbody>\n")
					continue
				}
				b.WriteString("<tr>")
				for _, c := range r {
					fmt.Fprintf(b, "<td>%s</td>", htmlInline(c))
				}
				b.WriteString("</tr>\n")
			}
			b.WriteString("</tbody>\n</table>\n</div>\n")
		}
	}
}
