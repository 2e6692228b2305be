package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/deal-engine/internal/export"
	"github.com/sells-group/deal-engine/internal/model"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List curated export templates",
	RunE: func(cmd *cobra.Command, _ []string) error {
		formatFlag, _ := cmd.Flags().GetString("format")
		industry, _ := cmd.Flags().GetString("industry")

		var format model.ExportFormat
		if formatFlag != "" {
			f, err := model.ParseExportFormat(formatFlag)
			if err != nil {
				return err
			}
			format = f
		}

		list := export.NewTemplateRegistry().Templates(format, industry)
		return writeTemplateTable(cmd.OutOrStdout(), list)
	},
}

func init() {
	templatesCmd.Flags().String("format", "", "filter by export format")
	templatesCmd.Flags().String("industry", "", "filter by industry (general templates always match)")
	rootCmd.AddCommand(templatesCmd)
}

func writeTemplateTable(w io.Writer, list []export.Template) error {
	var b strings.Builder
	if len(list) == 0 {
		b.WriteString("No templates.\n")
	} else {
		fmt.Fprintf(&b, "%-28s %-9s %-20s %6s %7s  %s\n", "ID", "Format", "Industry", "Rating", "Uses", "Name")
		fmt.Fprintln(&b, strings.Repeat("-", 100))
		for _, t := range list {
			fmt.Fprintf(&b, "%-28s %-9s %-20s %6.1f %7d  %s\n", t.ID, t.Format, t.Industry, t.Rating, t.UsageCount, t.Name)
		}
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return eris.Wrap(err, "templates: write")
	}
	return nil
}
