package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "counterpos"

// Commit outcomes used as label values.
const (
	OutcomeCommitted = "committed"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

// SaleMetrics records sale commit activity.
type SaleMetrics struct {
	duration     *prometheus.HistogramVec
	commits      *prometheus.CounterVec
	lines        prometheus.Counter
	droppedLines prometheus.Counter
}

// NewSaleMetrics registers the sale metrics on reg. A nil reg yields a no-op recorder.
func NewSaleMetrics(reg prometheus.Registerer) *SaleMetrics {
	if reg == nil {
		return &SaleMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sale_commit_duration_seconds",
		Help:      "Duration of sale commits in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"outcome"})
	commits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sale_commits_total",
		Help:      "Sale commit attempts by outcome.",
	}, []string{"outcome"})
	lines := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sale_lines_persisted_total",
		Help:      "Sale lines written to the ledger.",
	})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sale_custom_lines_dropped_total",
		Help:      "Custom cart lines left out of committed sales.",
	})
	reg.MustRegister(duration, commits, lines, dropped)
	return &SaleMetrics{
		duration:     duration,
		commits:      commits,
		lines:        lines,
		droppedLines: dropped,
	}
}

// ObserveCommit records one commit attempt.
func (m *SaleMetrics) ObserveCommit(outcome string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	m.duration.WithLabelValues(outcome).Observe(duration.Seconds())
	m.commits.WithLabelValues(outcome).Inc()
}

// AddLines counts persisted and dropped lines of a committed sale.
func (m *SaleMetrics) AddLines(persisted, dropped int) {
	if m == nil || m.lines == nil {
		return
	}
	m.lines.Add(float64(persisted))
	m.droppedLines.Add(float64(dropped))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
