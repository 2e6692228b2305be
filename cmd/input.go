package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/deal-engine/internal/model"
)

// readRecord decodes a YAML or JSON file into out. JSON is a subset of YAML
// so a single decoder covers both.
func readRecord(path string, out any) error {
	if path == "" {
		return eris.New("input: path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "input: read %s", path)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return eris.Wrapf(err, "input: parse %s", path)
	}
	return nil
}

func loadOpportunity(path string) (model.Opportunity, error) {
	var opp model.Opportunity
	if err := readRecord(path, &opp); err != nil {
		return opp, err
	}
	if opp.ID == "" && opp.Name == "" {
		return opp, eris.Errorf("input: %s: opportunity needs an id or name", path)
	}
	return opp, nil
}

// loadTemplate reads a screening template from YAML, JSON or an XLSX
// criteria sheet.
func loadTemplate(path string) (model.ScreeningTemplate, error) {
	var tmpl model.ScreeningTemplate
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		t, err := readTemplateXLSX(path)
		if err != nil {
			return tmpl, err
		}
		tmpl = t
	} else if err := readRecord(path, &tmpl); err != nil {
		return tmpl, err
	}
	if len(tmpl.Criteria) == 0 {
		return tmpl, eris.Errorf("input: %s: template has no criteria", path)
	}
	return tmpl, nil
}

func loadScreening(path string) (model.ScreeningResult, error) {
	var res model.ScreeningResult
	err := readRecord(path, &res)
	return res, err
}

// loadWorkflow returns nil when no path is given.
func loadWorkflow(path string) (*model.Workflow, error) {
	if path == "" {
		return nil, nil
	}
	var wf model.Workflow
	if err := readRecord(path, &wf); err != nil {
		return nil, err
	}
	return &wf, nil
}

func loadStructural(path string) (model.StructuralDocument, error) {
	var doc model.StructuralDocument
	if err := readRecord(path, &doc); err != nil {
		return doc, err
	}
	if doc.Title == "" && len(doc.Sections) == 0 {
		return doc, eris.Errorf("input: %s: document has no title or sections", path)
	}
	return doc, nil
}

// openOutput returns stdout when path is empty. The caller closes the file.
func openOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "output: create %s", path)
	}
	return f, func() { f.Close() }, nil //nolint:errcheck
}

var criteriaColumns = []string{"id", "name", "category", "min_value", "max_value", "weight"}

// readTemplateXLSX reads criteria from the first sheet of a workbook. The
// first row is a header naming the criteriaColumns in any order; the sheet
// name becomes the template name.
func readTemplateXLSX(path string) (model.ScreeningTemplate, error) {
	var tmpl model.ScreeningTemplate

	f, err := xlsx.OpenFile(path)
	if err != nil {
		return tmpl, eris.Wrapf(err, "input: open %s", path)
	}
	if len(f.Sheets) == 0 {
		return tmpl, eris.Errorf("input: %s has no sheets", path)
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return tmpl, eris.Errorf("input: %s: sheet %q is empty", path, sheet.Name)
	}

	col := make(map[string]int)
	for i, cell := range sheet.Rows[0].Cells {
		col[strings.ToLower(strings.TrimSpace(cell.String()))] = i
	}
	for _, name := range criteriaColumns {
		if _, ok := col[name]; !ok {
			return tmpl, eris.Errorf("input: %s: missing column %q", path, name)
		}
	}

	tmpl.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	tmpl.Name = sheet.Name
	for i, row := range sheet.Rows[1:] {
		cell := func(name string) string {
			j := col[name]
			if j >= len(row.Cells) {
				return ""
			}
			return strings.TrimSpace(row.Cells[j].String())
		}
		if cell("id") == "" {
			continue
		}
		c := model.Criterion{
			ID:       cell("id"),
			Name:     cell("name"),
			Category: model.Category(strings.ToLower(cell("category"))),
		}
		var errs []string
		for _, field := range []struct {
			name string
			dst  *float64
		}{{"min_value", &c.MinValue}, {"max_value", &c.MaxValue}, {"weight", &c.Weight}} {
			v, err := strconv.ParseFloat(cell(field.name), 64)
			if err != nil {
				errs = append(errs, field.name)
				continue
			}
			*field.dst = v
		}
		if len(errs) > 0 {
			return tmpl, eris.Errorf("input: %s row %d: invalid %s", path, i+2, strings.Join(errs, ", "))
		}
		tmpl.Criteria = append(tmpl.Criteria, c)
	}
	return tmpl, nil
}
