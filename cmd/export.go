package main

import (
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/deal-engine/internal/export"
	"github.com/sells-group/deal-engine/internal/model"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a structured document for a delivery format",
	Long: `Renders a structured document (title plus titled sections, YAML or JSON)
for PDF, DOCX, HTML or Markdown delivery. With --template the curated
template's format and options are used and --format is ignored.`,
	RunE: runExport,
}

func init() {
	f := exportCmd.Flags()
	f.String("input", "", "structured document record (YAML or JSON)")
	f.String("format", "", "export format (default from config)")
	f.String("template", "", "curated template ID (see 'templates')")
	f.String("output", "", "output file path (default: stdout)")
	_ = exportCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	inputPath, _ := cmd.Flags().GetString("input")
	formatFlag, _ := cmd.Flags().GetString("format")
	templateID, _ := cmd.Flags().GetString("template")
	outputPath, _ := cmd.Flags().GetString("output")

	doc, err := loadStructural(inputPath)
	if err != nil {
		return err
	}

	svc, err := newServices(cfg)
	if err != nil {
		return err
	}

	var res *export.Result
	if templateID != "" {
		res, err = svc.optimizer.OptimizeWithTemplate(ctx, doc, templateID, nil)
	} else {
		if formatFlag == "" {
			formatFlag = cfg.Export.DefaultFormat
		}
		format, perr := model.ParseExportFormat(formatFlag)
		if perr != nil {
			return perr
		}
		res, err = svc.optimizer.Optimize(ctx, doc, format, nil)
	}
	if err != nil {
		return err
	}

	w, done, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer done()

	if _, err := io.WriteString(w, res.Content); err != nil {
		return eris.Wrap(err, "export: write")
	}
	printExportSummary(cmd.ErrOrStderr(), res)
	return nil
}

func printExportSummary(w io.Writer, res *export.Result) {
	m := res.Metadata
	fmt.Fprintf(w, "\n--- Export (%s) ---\n", m.Format)
	fmt.Fprintf(w, "Words:         %d\n", m.WordCount)
	fmt.Fprintf(w, "Pages:         %d\n", m.PageCount)
	fmt.Fprintf(w, "Est. size:     %d bytes\n", m.FileSize)
	fmt.Fprintf(w, "Quality:       %.2f\n", m.QualityScore)
	fmt.Fprintf(w, "Optimizations: %s\n", strings.Join(m.OptimizationsApplied, ", "))
	fmt.Fprintf(w, "Download:      %s\n", res.DownloadURL)
	if res.PreviewURL != "" {
		fmt.Fprintf(w, "Preview:       %s\n", res.PreviewURL)
	}
	fmt.Fprintf(w, "Share:         %s\n", res.ShareableURL)
}
