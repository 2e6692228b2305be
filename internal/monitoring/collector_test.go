package monitoring

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepClock struct {
	t time.Time
}

func (c *stepClock) now() time.Time { return c.t }

func TestCollector_Collect(t *testing.T) {
	clk := &stepClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	c := NewCollector(clk.now)

	c.Record(OpExport, 30*time.Millisecond, nil)
	c.Record(OpDocument, 10*time.Millisecond, nil)
	c.Record(OpDocument, 30*time.Millisecond, errors.New("boom"))
	clk.t = clk.t.Add(time.Minute)

	snap := c.Collect()
	require.Len(t, snap.Operations, 2)
	assert.Equal(t, OpDocument, snap.Operations[0].Name)
	assert.Equal(t, OpExport, snap.Operations[1].Name)
	assert.Equal(t, time.Minute, snap.Uptime)

	doc := snap.Operation(OpDocument)
	assert.Equal(t, 2, doc.Total)
	assert.Equal(t, 1, doc.Failed)
	assert.InDelta(t, 0.5, doc.FailRate, 1e-9)
	assert.Equal(t, 20*time.Millisecond, doc.AvgLatency)
	assert.Equal(t, 30*time.Millisecond, doc.MaxLatency)

	unseen := snap.Operation(OpSuggestions)
	assert.Equal(t, OperationStats{Name: OpSuggestions}, unseen)
}

func TestCollector_ConcurrentRecord(t *testing.T) {
	c := NewCollector(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Record(OpSuggestions, time.Millisecond, nil)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, c.Collect().Operation(OpSuggestions).Total)
}
