// Package metrics records analysis runs as Prometheus metrics.
//
// kwc is a batch tool, so nothing is scraped. The recorder keeps its own
// registry and writes it in the text exposition format for the node_exporter
// textfile collector.
package metrics

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/adscope/kwc/internal/types"
)

const namespace = "kwc"

// Recorder implements cannibalization.Observer.
type Recorder struct {
	registry *prometheus.Registry

	alerts           *prometheus.CounterVec
	pairs            *prometheus.CounterVec
	detectorDuration *prometheus.HistogramVec
	runs             prometheus.Counter
	runDuration      prometheus.Gauge
	lastRunAlerts    *prometheus.GaugeVec
	lastRunTimestamp prometheus.Gauge

	mu sync.Mutex
}

// NewRecorder creates a recorder with a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_total",
			Help:      "Cannibalization alerts emitted, by detector and severity",
		}, []string{"detector", "severity"}),
		pairs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairs_compared_total",
			Help:      "Keyword pairs compared, by detector",
		}, []string{"detector"}),
		detectorDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "detector_duration_seconds",
			Help:      "Time spent in each detector",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"detector"}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed analysis runs",
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Wall time of the most recent analysis run",
		}),
		lastRunAlerts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_alerts",
			Help:      "Alerts in the most recent run, by severity",
		}, []string{"severity"}),
		lastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the most recent run finished",
		}),
	}

	r.registry.MustRegister(
		r.alerts,
		r.pairs,
		r.detectorDuration,
		r.runs,
		r.runDuration,
		r.lastRunAlerts,
		r.lastRunTimestamp,
	)
	return r
}

// Registry exposes the recorder's registry, e.g. for an HTTP handler.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveDetector records one detector's pass.
func (r *Recorder) ObserveDetector(name types.DetectorName, elapsed time.Duration, pairs int, results []types.CannibalizationResult) {
	detector := string(name)
	r.pairs.WithLabelValues(detector).Add(float64(pairs))
	r.detectorDuration.WithLabelValues(detector).Observe(elapsed.Seconds())
	for _, result := range results {
		r.alerts.WithLabelValues(detector, string(result.Severity())).Inc()
	}
}

// ObserveRun records the merged outcome of a run.
func (r *Recorder) ObserveRun(summary types.CannibalizationSummary, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs.Inc()
	r.runDuration.Set(elapsed.Seconds())
	r.lastRunAlerts.WithLabelValues(string(types.SeveritySevere)).Set(float64(summary.Severe))
	r.lastRunAlerts.WithLabelValues(string(types.SeverityModerate)).Set(float64(summary.Moderate))
	r.lastRunAlerts.WithLabelValues(string(types.SeverityMild)).Set(float64(summary.Mild))
	r.lastRunTimestamp.Set(float64(time.Now().Unix()))
}

// WriteTextfile writes all metrics to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	log.Printf("[METRICS] Wrote %s", path)
	return nil
}
