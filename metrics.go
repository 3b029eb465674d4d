package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// ScanMetrics counts scan outcomes and writes them to a node_exporter
// textfile after every scan.  The access point runs no HTTP listener, so the
// collector on the host picks the file up instead.
type ScanMetrics struct {
	path      string
	registry  *prometheus.Registry
	scans     *prometheus.CounterVec
	malformed prometheus.Counter
	latency   prometheus.Histogram
}

// NewScanMetrics registers the collectors on a private registry.
func NewScanMetrics(path string) *ScanMetrics {
	m := &ScanMetrics{
		path:     path,
		registry: prometheus.NewRegistry(),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gatepoint",
			Name:      "scans_total",
			Help:      "Resolved badge scans by outcome.",
		}, []string{"outcome"}),
		malformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gatepoint",
			Name:      "malformed_verdicts_total",
			Help:      "Verdicts without a boolean success field.",
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gatepoint",
			Name:      "verdict_duration_seconds",
			Help:      "Time spent waiting for the validation server.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
	}
	m.registry.MustRegister(m.scans, m.malformed, m.latency)
	// Outcomes show up as zero before the first scan.
	for _, o := range []Outcome{OutcomeGranted, OutcomeDenied, OutcomeCommFail} {
		m.scans.WithLabelValues(o.String())
	}
	return m
}

// Name returns the recorder type.
func (m *ScanMetrics) Name() string { return "textfile" }

// Record updates the counters and rewrites the textfile.
func (m *ScanMetrics) Record(rec ScanRecord) error {
	m.scans.WithLabelValues(rec.Outcome.String()).Inc()
	if rec.Malformed {
		m.malformed.Inc()
	}
	m.latency.Observe(rec.Latency.Seconds())
	if err := prometheus.WriteToTextfile(m.path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
