package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/deal-engine/internal/document"
	"github.com/sells-group/deal-engine/internal/model"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Assemble an investment document from a screening result",
	Long: `Assembles an investment summary, committee memo, due diligence plan or
risk assessment from an opportunity and its screening result.

With --export the document is rendered through the format optimizer
instead of printed as markdown.`,
	RunE: runDocument,
}

func init() {
	f := documentCmd.Flags()
	f.String("deal", "", "opportunity record (YAML or JSON)")
	f.String("screening", "", "screening result record (YAML or JSON)")
	f.String("type", string(model.DocumentInvestmentSummary), "document type: investment_summary, committee_memo, due_diligence_plan or risk_assessment")
	f.String("mode", string(model.ModeAssisted), "evaluation mode: traditional, assisted or autonomous")
	f.String("workflow", "", "post-screening workflow record (optional)")
	f.String("export", "", "render with this export format (pdf, docx, html, markdown)")
	f.String("output", "", "output file path (default: stdout)")
	_ = documentCmd.MarkFlagRequired("deal")
	_ = documentCmd.MarkFlagRequired("screening")

	rootCmd.AddCommand(documentCmd)
}

func runDocument(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dealPath, _ := cmd.Flags().GetString("deal")
	screeningPath, _ := cmd.Flags().GetString("screening")
	typeFlag, _ := cmd.Flags().GetString("type")
	modeFlag, _ := cmd.Flags().GetString("mode")
	workflowPath, _ := cmd.Flags().GetString("workflow")
	exportFlag, _ := cmd.Flags().GetString("export")
	outputPath, _ := cmd.Flags().GetString("output")

	docType, err := model.ParseDocumentType(typeFlag)
	if err != nil {
		return err
	}
	mode, err := model.ParseMode(modeFlag)
	if err != nil {
		return err
	}
	var format model.ExportFormat
	if exportFlag != "" {
		if format, err = model.ParseExportFormat(exportFlag); err != nil {
			return err
		}
	}

	opp, err := loadOpportunity(dealPath)
	if err != nil {
		return err
	}
	screening, err := loadScreening(screeningPath)
	if err != nil {
		return err
	}
	workflow, err := loadWorkflow(workflowPath)
	if err != nil {
		return err
	}

	svc, err := newServices(cfg)
	if err != nil {
		return err
	}

	res, err := svc.assembler.Generate(ctx, docType, document.Request{
		Opportunity: opp,
		Screening:   screening,
		Workflow:    workflow,
		Mode:        mode,
	})
	if err != nil {
		return err
	}

	w, done, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer done()

	if format == "" {
		if _, err := io.WriteString(w, res.Document.Content); err != nil {
			return eris.Wrap(err, "document: write")
		}
		printDocumentSummary(cmd.ErrOrStderr(), res)
		return nil
	}

	out, err := svc.optimizer.Optimize(ctx, res.Document.Structural(), format, nil)
	if err != nil {
		return err
	}
	zap.L().Info("document exported",
		zap.String("document_id", res.Document.ID),
		zap.String("format", string(format)),
		zap.Int("file_size", out.Metadata.FileSize),
	)
	if _, err := io.WriteString(w, out.Content); err != nil {
		return eris.Wrap(err, "document: write export")
	}
	printDocumentSummary(cmd.ErrOrStderr(), res)
	return nil
}

func printDocumentSummary(w io.Writer, res *document.Result) {
	fmt.Fprintf(w, "\n--- %s ---\n", res.Document.Title)
	fmt.Fprintf(w, "Document ID:      %s\n", res.Document.ID)
	fmt.Fprintf(w, "Sections:         %d\n", len(res.Document.Sections))
	fmt.Fprintf(w, "Generated by:     %s\n", res.Document.GeneratedBy)
	fmt.Fprintf(w, "Automation level: %.0f%%\n", res.AutomationLevel*100)
	fmt.Fprintf(w, "Quality score:    %.3f\n", res.QualityScore)
	fmt.Fprintf(w, "Review required:  %v\n", res.ReviewRequired)
	fmt.Fprintf(w, "Download:         %s\n", res.Document.DownloadURL)
}
