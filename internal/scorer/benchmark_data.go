package scorer

import (
	"hash/fnv"
	"math"
	"math/rand/v2"

	"github.com/sells-group/deal-engine/internal/model"
)

const benchmarkDataSource = "Sector peer set (illustrative, not audited)"

// benchmarkData builds comparison figures around the category average. The
// figures are illustrative; they are seeded from the opportunity and
// criterion IDs so repeated runs agree.
func benchmarkData(opportunityID, criterionID string, categoryAvg float64) model.BenchmarkData {
	r := seededRand(opportunityID, criterionID)

	portfolio := round2(categoryAvg + (r.Float64()-0.5)*1.0)
	median := round2(categoryAvg - 0.3 + r.Float64()*0.6)
	top := round2(math.Max(portfolio, median) + 0.8 + r.Float64()*0.7)

	return model.BenchmarkData{
		PortfolioAverage: portfolio,
		IndustryMedian:   median,
		TopQuartile:      top,
		SampleSize:       50 + r.IntN(151),
		DataSource:       benchmarkDataSource,
	}
}

func seededRand(parts ...string) *rand.Rand {
	h := fnv.New64a()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	seed := h.Sum64()
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
