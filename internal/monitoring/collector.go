// Package monitoring tracks in-process operation metrics for the HTTP API
// and raises alerts when failure rates or latencies breach thresholds.
package monitoring

import (
	"sort"
	"sync"
	"time"
)

// Operation names recorded by the API.
const (
	OpSuggestions = "suggestions"
	OpDocument    = "document"
	OpExport      = "export"
)

// OperationStats is the aggregate for one operation.
type OperationStats struct {
	Name       string        `json:"name"`
	Total      int           `json:"total"`
	Failed     int           `json:"failed"`
	FailRate   float64       `json:"fail_rate"`
	AvgLatency time.Duration `json:"avg_latency"`
	MaxLatency time.Duration `json:"max_latency"`
}

// MetricsSnapshot holds a point-in-time view of operation health.
type MetricsSnapshot struct {
	Operations  []OperationStats `json:"operations"`
	Uptime      time.Duration    `json:"uptime"`
	CollectedAt time.Time        `json:"collected_at"`
}

// Operation returns the stats for name, or zero stats when unseen.
func (s *MetricsSnapshot) Operation(name string) OperationStats {
	for _, op := range s.Operations {
		if op.Name == name {
			return op
		}
	}
	return OperationStats{Name: name}
}

type counter struct {
	total, failed int
	latency, max  time.Duration
}

// Collector accumulates operation outcomes. It is safe for concurrent use.
type Collector struct {
	mu      sync.Mutex
	ops     map[string]*counter
	started time.Time
	now     func() time.Time
}

// NewCollector creates a collector. A nil clock uses time.Now.
func NewCollector(now func() time.Time) *Collector {
	if now == nil {
		now = time.Now
	}
	return &Collector{
		ops:     make(map[string]*counter),
		started: now(),
		now:     now,
	}
}

// Record adds one completed operation.
func (c *Collector) Record(op string, latency time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctr, ok := c.ops[op]
	if !ok {
		ctr = &counter{}
		c.ops[op] = ctr
	}
	ctr.total++
	if err != nil {
		ctr.failed++
	}
	ctr.latency += latency
	if latency > ctr.max {
		ctr.max = latency
	}
}

// Collect returns a snapshot with operations sorted by name.
func (c *Collector) Collect() *MetricsSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	snap := &MetricsSnapshot{
		Uptime:      now.Sub(c.started),
		CollectedAt: now.UTC(),
	}
	for name, ctr := range c.ops {
		st := OperationStats{
			Name:       name,
			Total:      ctr.total,
			Failed:     ctr.failed,
			MaxLatency: ctr.max,
		}
		if ctr.total > 0 {
			st.FailRate = float64(ctr.failed) / float64(ctr.total)
			st.AvgLatency = ctr.latency / time.Duration(ctr.total)
		}
		snap.Operations = append(snap.Operations, st)
	}
	sort.Slice(snap.Operations, func(i, j int) bool {
		return snap.Operations[i].Name < snap.Operations[j].Name
	})
	return snap
}
