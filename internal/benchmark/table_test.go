package benchmark

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/deal-engine/internal/model"
)

func TestDefaultTable(t *testing.T) {
	tbl := Default()
	assert.Equal(t, "Technology", tbl.Fallback())
	assert.Contains(t, tbl.Sectors(), "Healthcare")
	assert.Contains(t, tbl.Sectors(), "Energy")

	tech, known := tbl.Lookup("Technology")
	require.True(t, known)
	assert.InDelta(t, 24.5, tech.Financial.AverageIRR, 1e-9)
	for _, c := range model.Categories {
		assert.Greater(t, tech.AverageScore(c), 0.0, string(c))
	}
}

func TestLookupCaseInsensitive(t *testing.T) {
	sb, known := Default().Lookup("  healthcare ")
	assert.True(t, known)
	assert.Equal(t, "Healthcare", sb.Sector)
}

func TestLookupFallsBackToTechnology(t *testing.T) {
	sb, known := Default().Lookup("Space Mining")
	assert.False(t, known)
	assert.Equal(t, "Technology", sb.Sector)
}

func TestLookupReturnsCopy(t *testing.T) {
	tbl := Default()
	sb, _ := tbl.Lookup("Technology")
	sb.Financial.CommonRisks[0] = "mutated"

	again, _ := tbl.Lookup("Technology")
	assert.NotEqual(t, "mutated", again.Financial.CommonRisks[0])
}

func TestLoadRejectsInvalidTables(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"empty", "sectors: []", "no sectors"},
		{"bad yaml", "sectors: [", "parse table"},
		{"missing fallback", `
fallback_sector: Mining
sectors:
  - sector: Energy
    financial: {average_score: 6, average_irr: 16, average_multiple: 2}
    operational: {average_score: 6}
    strategic: {average_score: 6}
    risk: {average_score: 6, average_risk: 0.2}
`, "fallback sector"},
		{"zero average", `
fallback_sector: Energy
sectors:
  - sector: Energy
    financial: {average_score: 6, average_irr: 16, average_multiple: 2}
    operational: {average_score: 0}
    strategic: {average_score: 6}
    risk: {average_score: 6, average_risk: 0.2}
`, "operational average_score"},
		{"duplicate", `
fallback_sector: Energy
sectors:
  - sector: Energy
    financial: {average_score: 6, average_irr: 16, average_multiple: 2}
    operational: {average_score: 6}
    strategic: {average_score: 6}
    risk: {average_score: 6, average_risk: 0.2}
  - sector: energy
    financial: {average_score: 6, average_irr: 16, average_multiple: 2}
    operational: {average_score: 6}
    strategic: {average_score: 6}
    risk: {average_score: 6, average_risk: 0.2}
`, "duplicate sector"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sectors:
  - sector: Technology
    financial: {average_score: 7, average_irr: 20, average_multiple: 3}
    operational: {average_score: 7}
    strategic: {average_score: 7}
    risk: {average_score: 7, average_risk: 0.1}
`), 0o600))

	tbl, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultFallbackSector, tbl.Fallback())
	assert.Equal(t, []string{"Technology"}, tbl.Sectors())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWithFallback(t *testing.T) {
	tbl, err := Default().WithFallback("healthcare")
	require.NoError(t, err)
	assert.Equal(t, "healthcare", tbl.Fallback())

	b, known := tbl.Lookup("Aerospace")
	assert.False(t, known)
	assert.Equal(t, "Healthcare", b.Sector)

	// The default table is untouched.
	assert.Equal(t, DefaultFallbackSector, Default().Fallback())

	same, err := Default().WithFallback("")
	require.NoError(t, err)
	assert.Same(t, Default(), same)

	_, err = Default().WithFallback("Mining")
	assert.ErrorContains(t, err, "not in table")
}
