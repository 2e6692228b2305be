package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/deal-engine/internal/benchmark"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"score", "document", "export", "templates", "serve"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "deal-engine", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		cmd      string
		flag     string
		defValue string
	}{
		{"score", "format", "table"},
		{"score", "criterion", ""},
		{"document", "type", "investment_summary"},
		{"document", "mode", "assisted"},
		{"export", "template", ""},
		{"templates", "industry", ""},
		{"serve", "port", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.cmd+"/"+tt.flag, func(t *testing.T) {
			c, _, err := rootCmd.Find([]string{tt.cmd})
			require.NoError(t, err)
			f := c.Flags().Lookup(tt.flag)
			require.NotNil(t, f)
			assert.Equal(t, tt.defValue, f.DefValue)
		})
	}
}

func TestNewServices(t *testing.T) {
	svc, err := newServices(testConfig())
	require.NoError(t, err)
	assert.NotNil(t, svc.engine)
	assert.NotNil(t, svc.assembler)
	assert.NotNil(t, svc.optimizer)
}

func TestNewServicesErrors(t *testing.T) {
	t.Run("unknown fallback sector", func(t *testing.T) {
		c := testConfig()
		c.Screening.FallbackSector = "Mining"
		_, err := newServices(c)
		assert.ErrorContains(t, err, "fallback sector")
	})

	t.Run("missing benchmark file", func(t *testing.T) {
		c := testConfig()
		c.Screening.BenchmarkFile = "does-not-exist.yaml"
		_, err := newServices(c)
		assert.ErrorContains(t, err, "benchmark table")
	})

	t.Run("bad concurrency", func(t *testing.T) {
		c := testConfig()
		c.Screening.BatchConcurrency = 0
		_, err := newServices(c)
		assert.ErrorContains(t, err, "batch_concurrency")
	})
}

func TestNewServicesFallbackSector(t *testing.T) {
	c := testConfig()
	c.Screening.FallbackSector = "Healthcare"
	_, err := newServices(c)
	require.NoError(t, err)

	tbl, err := benchmark.Default().WithFallback("Healthcare")
	require.NoError(t, err)
	assert.Equal(t, "Healthcare", tbl.Fallback())
}
