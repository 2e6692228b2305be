package monitoring

import (
	"fmt"
	"time"

	"github.com/sells-group/deal-engine/internal/config"
)

// AlertType identifies the kind of alert.
type AlertType string

const (
	AlertFailureRate   AlertType = "failure_rate"
	AlertSlowOperation AlertType = "slow_operation"
)

// Alert represents a single breached threshold.
type Alert struct {
	Type      AlertType      `json:"type"`
	Severity  string         `json:"severity"`
	Operation string         `json:"operation"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Alerter evaluates a MetricsSnapshot against configured thresholds.
type Alerter struct {
	cfg config.MonitoringConfig
}

// NewAlerter creates a new Alerter with the given monitoring config.
func NewAlerter(cfg config.MonitoringConfig) *Alerter {
	return &Alerter{cfg: cfg}
}

// Evaluate checks the snapshot against thresholds and returns any alerts.
// Operations with fewer than MinSamples calls are not judged.
func (a *Alerter) Evaluate(snap *MetricsSnapshot) []Alert {
	var alerts []Alert
	slow := time.Duration(a.cfg.SlowOperationMs) * time.Millisecond

	for _, op := range snap.Operations {
		if op.Total < a.cfg.MinSamples || op.Total == 0 {
			continue
		}

		if a.cfg.FailureRateThreshold > 0 && op.FailRate > a.cfg.FailureRateThreshold {
			alerts = append(alerts, Alert{
				Type:      AlertFailureRate,
				Severity:  "high",
				Operation: op.Name,
				Message: fmt.Sprintf(
					"%s failure rate %.1f%% exceeds threshold %.1f%% (%d failed / %d)",
					op.Name, op.FailRate*100, a.cfg.FailureRateThreshold*100, op.Failed, op.Total,
				),
				Details: map[string]any{
					"failure_rate": op.FailRate,
					"threshold":    a.cfg.FailureRateThreshold,
					"failed":       op.Failed,
					"total":        op.Total,
				},
				Timestamp: snap.CollectedAt,
			})
		}

		if slow > 0 && op.AvgLatency > slow {
			alerts = append(alerts, Alert{
				Type:      AlertSlowOperation,
				Severity:  "medium",
				Operation: op.Name,
				Message: fmt.Sprintf("%s average latency %s exceeds %s",
					op.Name, op.AvgLatency.Round(time.Millisecond), slow),
				Details: map[string]any{
					"avg_latency_ms": op.AvgLatency.Milliseconds(),
					"max_latency_ms": op.MaxLatency.Milliseconds(),
					"threshold_ms":   a.cfg.SlowOperationMs,
				},
				Timestamp: snap.CollectedAt,
			})
		}
	}

	return alerts
}
