package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/deal-engine/internal/benchmark"
	"github.com/sells-group/deal-engine/internal/config"
	"github.com/sells-group/deal-engine/internal/document"
	"github.com/sells-group/deal-engine/internal/export"
	"github.com/sells-group/deal-engine/internal/monitoring"
	"github.com/sells-group/deal-engine/internal/scorer"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "deal-engine",
	Short: "Deal screening suggestions, document assembly and export",
	Long:  "Scores private-equity opportunities against screening templates, assembles investment documents from the results, and renders them for PDF, DOCX, HTML or Markdown delivery.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		// help and completion run without validation.
		switch cmd.Name() {
		case "score", "document", "export", "templates", "serve":
			return cfg.Validate(cmd.Name())
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// services bundles the engines every command and handler works with.
type services struct {
	engine    *scorer.Engine
	assembler *document.Assembler
	optimizer *export.Optimizer
	metrics   *monitoring.Collector
	alerter   *monitoring.Alerter
}

// newServices wires the engines from configuration.
func newServices(c *config.Config) (*services, error) {
	table := benchmark.Default()
	if c.Screening.BenchmarkFile != "" {
		t, err := benchmark.LoadFile(c.Screening.BenchmarkFile)
		if err != nil {
			return nil, eris.Wrap(err, "services: benchmark table")
		}
		table = t
	}
	table, err := table.WithFallback(c.Screening.FallbackSector)
	if err != nil {
		return nil, eris.Wrap(err, "services: fallback sector")
	}

	scoring := scorer.DefaultConfig()
	scoring.BatchConcurrency = c.Screening.BatchConcurrency
	if err := scorer.ValidateConfig(scoring); err != nil {
		return nil, err
	}

	return &services{
		engine:    scorer.NewEngine(table, scoring),
		assembler: document.NewAssembler(c.Documents.Timeout()),
		optimizer: export.NewOptimizer(export.NewTemplateRegistry(), c.Export.Timeout()),
		metrics:   monitoring.NewCollector(nil),
		alerter:   monitoring.NewAlerter(c.Monitoring),
	}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
