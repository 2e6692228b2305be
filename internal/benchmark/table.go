// Package benchmark holds the static per-sector reference data used to
// contextualise deal scores.
package benchmark

import (
	_ "embed"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/deal-engine/internal/model"
)

// DefaultFallbackSector is used when a table does not name one.
const DefaultFallbackSector = "Technology"

//go:embed benchmarks.yaml
var embedded []byte

// Table is an immutable sector benchmark lookup. It is safe for concurrent
// use because nothing mutates it after Load returns.
type Table struct {
	sectors  map[string]model.SectorBenchmark
	order    []string
	fallback string
}

type fileFormat struct {
	FallbackSector string                  `yaml:"fallback_sector"`
	Sectors        []model.SectorBenchmark `yaml:"sectors"`
}

var defaultTable = sync.OnceValues(func() (*Table, error) {
	return Load(embedded)
})

// Default returns the embedded benchmark table. It panics if the embedded
// data is invalid.
func Default() *Table {
	t, err := defaultTable()
	if err != nil {
		panic(err)
	}
	return t
}

// LoadFile reads a benchmark table from a YAML file.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "benchmark: read %s", path)
	}
	return Load(data)
}

// Load parses and validates a YAML benchmark table.
func Load(data []byte) (*Table, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "benchmark: parse table")
	}
	if len(f.Sectors) == 0 {
		return nil, eris.New("benchmark: table has no sectors")
	}

	t := &Table{
		sectors:  make(map[string]model.SectorBenchmark, len(f.Sectors)),
		fallback: f.FallbackSector,
	}
	if t.fallback == "" {
		t.fallback = DefaultFallbackSector
	}

	for _, sb := range f.Sectors {
		if err := validate(sb); err != nil {
			return nil, err
		}
		key := normalize(sb.Sector)
		if _, dup := t.sectors[key]; dup {
			return nil, eris.Errorf("benchmark: duplicate sector %q", sb.Sector)
		}
		t.sectors[key] = sb
		t.order = append(t.order, sb.Sector)
	}

	if _, ok := t.sectors[normalize(t.fallback)]; !ok {
		return nil, eris.Errorf("benchmark: fallback sector %q not in table", t.fallback)
	}
	return t, nil
}

func validate(sb model.SectorBenchmark) error {
	if strings.TrimSpace(sb.Sector) == "" {
		return eris.New("benchmark: sector name is required")
	}
	for _, c := range model.Categories {
		if sb.AverageScore(c) <= 0 {
			return eris.Errorf("benchmark: %s %s average_score must be > 0", sb.Sector, c)
		}
	}
	if sb.Financial.AverageIRR <= 0 || sb.Financial.AverageMultiple <= 0 {
		return eris.Errorf("benchmark: %s financial averages must be > 0", sb.Sector)
	}
	if sb.Risk.AverageRisk <= 0 {
		return eris.Errorf("benchmark: %s average_risk must be > 0", sb.Sector)
	}
	return nil
}

// Lookup returns the benchmark for a sector (case-insensitive). Unknown
// sectors resolve to the fallback sector with known=false.
func (t *Table) Lookup(sector string) (sb model.SectorBenchmark, known bool) {
	if b, ok := t.sectors[normalize(sector)]; ok {
		return clone(b), true
	}
	return clone(t.sectors[normalize(t.fallback)]), false
}

// Fallback returns the name of the fallback sector.
func (t *Table) Fallback() string { return t.fallback }

// WithFallback returns a copy of the table that resolves unknown sectors to
// sector. An empty sector keeps the current fallback.
func (t *Table) WithFallback(sector string) (*Table, error) {
	if strings.TrimSpace(sector) == "" {
		return t, nil
	}
	if _, ok := t.sectors[normalize(sector)]; !ok {
		return nil, eris.Errorf("benchmark: fallback sector %q not in table", sector)
	}
	return &Table{sectors: t.sectors, order: t.order, fallback: sector}, nil
}

// Sectors returns sector names in table order.
func (t *Table) Sectors() []string { return slices.Clone(t.order) }

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// clone copies the descriptive lists out of table state.
func clone(b model.SectorBenchmark) model.SectorBenchmark {
	b.Financial.SuccessFactors = slices.Clone(b.Financial.SuccessFactors)
	b.Financial.CommonRisks = slices.Clone(b.Financial.CommonRisks)
	b.Operational.KeyIndicators = slices.Clone(b.Operational.KeyIndicators)
	b.Operational.CommonRisks = slices.Clone(b.Operational.CommonRisks)
	b.Strategic.SuccessFactors = slices.Clone(b.Strategic.SuccessFactors)
	b.Strategic.CommonRisks = slices.Clone(b.Strategic.CommonRisks)
	b.Risk.KeyIndicators = slices.Clone(b.Risk.KeyIndicators)
	b.Risk.CommonRisks = slices.Clone(b.Risk.CommonRisks)
	return b
}
