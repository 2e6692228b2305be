package export

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type frontMatter struct {
	Title        string            `yaml:"title"`
	DocumentID   string            `yaml:"document_id,omitempty"`
	Generated    string            `yaml:"generated"`
	Industry     string            `yaml:"industry,omitempty"`
	Confidential bool              `yaml:"confidential"`
	Sections     int               `yaml:"sections"`
	Metadata     map[string]string `yaml:"metadata,omitempty"`
}

// renderMarkdown produces markdown with YAML front matter, an anchor-linked
// table of contents and normalised whitespace.
func renderMarkdown(in RenderInput) (string, []string) {
	o := in.Options
	title := documentTitle(in.Document)
	ids := anchors(in.Sections)
	var applied []string

	var b strings.Builder
	fm, err := yaml.Marshal(frontMatter{
		Title:        title,
		DocumentID:   in.Document.ID,
		Generated:    in.Generated.UTC().Format("2006-01-02T15:04:05Z"),
		Industry:     o.Compliance.Industry,
		Confidential: o.Compliance.Confidential,
		Sections:     len(in.Sections),
		Metadata:     in.Document.Metadata,
	})
	if err != nil {
		zap.L().Warn("export: front matter skipped", zap.Error(err))
	} else {
		b.WriteString("---\n")
		b.Write(fm)
		b.WriteString("---\n\n")
		applied = append(applied, optMDFrontMatter)
	}

	fmt.Fprintf(&b, "# %s\n\n", title)

	if o.Structure.IncludeTableOfContents && len(in.Sections) > 0 {
		fmt.Fprintf(&b, "## %s\n\n", tocTitle)
		for i, s := range in.Sections {
			fmt.Fprintf(&b, "- [%s](#%s)\n", s.Title, ids[i])
		}
		b.WriteString("\n")
		applied = append(applied, optMDAnchorTOC, optTableOfContents)
	}

	for _, s := range in.Sections {
		fmt.Fprintf(&b, "## %s\n\n", s.Title)
		writeMarkdownBlocks(&b, s.Content)
	}

	if o.Structure.Footers && o.Compliance.Disclaimer != "" {
		fmt.Fprintf(&b, "---\n\n_%s_\n", o.Compliance.Disclaimer)
	}

	applied = append(applied, optMDWhitespace)
	return normalizeWhitespace(b.String()), applied
}

func writeMarkdownBlocks(b *strings.Builder, content string) {
	for _, blk := range parseBlocks(content) {
		switch blk.kind {
		case blockHeading:
			fmt.Fprintf(b, "%s %s\n", strings.Repeat("#", blk.level), blk.text.markdown())
		case blockParagraph:
			b.WriteString(blk.text.markdown() + "\n")
		case blockBullets:
			for _, it := range blk.items {
				fmt.Fprintf(b, "- %s\n", it.markdown())
			}
		case blockNumbered:
			for i, it := range blk.items {
				fmt.Fprintf(b, "%d. %s\n", i+1, it.markdown())
			}
		case blockTable:
			for i, r := range blk.rows {
				cells := make([]string, len(r))
				for j, c := range r {
					cells[j] = markdownCell(c)
				}
				fmt.Fprintf(b, "| %s |\n", strings.Join(cells, " | "))
				if i == 0 {
					seps := make([]string, len(r))
					for j := range seps {
						seps[j] = "---"
					}
					fmt.Fprintf(b, "| %s |\n", strings.Join(seps, " | "))
				}
			}
		}
		b.WriteString("\n")
	}
}

// markdownCell keeps cell pipes escaped.
func markdownCell(c inline) string {
	if c.source != "" {
		return c.source
	}
	return strings.ReplaceAll(c.markdown(), "|", `\|`)
}

// normalizeWhitespace trims trailing spaces, collapses blank-line runs and
// ends the text with a single newline.
func normalizeWhitespace(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	s = blankRunsRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(s) + "\n"
}
