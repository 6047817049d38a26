package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "lockmodule"

// File outcome labels.
const (
	StatusChanged   = "changed"
	StatusUnchanged = "unchanged"
	StatusSkipped   = "skipped"
	StatusError     = "error"
)

const labelStatus = "status"

// fileDurationBuckets covers 100us to 5s, the range of a parse-and-print pass.
var fileDurationBuckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// RunMetrics counts the outcome of one transform run. Every RunMetrics owns
// its registry, so independent runs never share collectors.
type RunMetrics struct {
	registry  *prometheus.Registry
	files     *prometheus.CounterVec
	rewritten prometheus.Counter
	bytesRead prometheus.Counter
	duration  prometheus.Histogram
}

// NewRunMetrics creates and registers the run collectors.
func NewRunMetrics() *RunMetrics {
	metrics := &RunMetrics{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "files_total",
			Help:      "Files processed, by outcome.",
		}, []string{labelStatus}),
		rewritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "imports_rewritten_total",
			Help:      "Import path literals whose text changed.",
		}),
		bytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "bytes_read_total",
			Help:      "Source bytes read.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "file_duration_seconds",
			Help:      "Time spent parsing, transforming and printing one file.",
			Buckets:   fileDurationBuckets,
		}),
	}

	metrics.registry.MustRegister(metrics.files, metrics.rewritten, metrics.bytesRead, metrics.duration)

	return metrics
}

// Registry exposes the underlying registry.
func (rm *RunMetrics) Registry() *prometheus.Registry {
	return rm.registry
}

// RecordFile records one processed file.
func (rm *RunMetrics) RecordFile(status string, edits, size int, elapsed time.Duration) {
	if rm == nil {
		return
	}

	rm.files.WithLabelValues(status).Inc()
	rm.rewritten.Add(float64(edits))
	rm.bytesRead.Add(float64(size))
	rm.duration.Observe(elapsed.Seconds())
}

// WriteFile writes the current values in the Prometheus text format, for the
// node_exporter textfile collector.
func (rm *RunMetrics) WriteFile(path string) error {
	err := prometheus.WriteToTextfile(path, rm.registry)
	if err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}

	return nil
}
