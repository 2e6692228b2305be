package monitoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/sells-group/deal-engine/internal/config"
)

func TestChecker_RunStopsOnCancel(t *testing.T) {
	cfg := config.MonitoringConfig{CheckIntervalSecs: 1, FailureRateThreshold: 0.10}
	checker := NewChecker(NewCollector(nil), NewAlerter(cfg), cfg)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		checker.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Checker.Run did not stop after context cancellation")
	}
}

func TestChecker_DefaultInterval(t *testing.T) {
	checker := NewChecker(NewCollector(nil), NewAlerter(config.MonitoringConfig{}), config.MonitoringConfig{})

	// Zero interval defaults to 5 minutes; a cancelled context returns at once.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	checker.Run(ctx)
}

func TestChecker_Check(t *testing.T) {
	cfg := config.MonitoringConfig{FailureRateThreshold: 0.10, MinSamples: 2}
	collector := NewCollector(nil)
	checker := NewChecker(collector, NewAlerter(cfg), cfg)

	assert.Equal(t, 0, checker.check(zap.NewNop()))

	collector.Record(OpExport, time.Millisecond, errors.New("unsupported"))
	collector.Record(OpExport, time.Millisecond, nil)
	assert.Equal(t, 1, checker.check(zap.NewNop()))
}
