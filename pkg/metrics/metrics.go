// Package metrics exposes Prometheus instrumentation for document
// processing. The registry is left for the embedding application to
// serve; the core never opens a network listener.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ragproc"

var (
	// DocumentsProcessed counts processed documents by strategy.
	DocumentsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "documents_processed_total",
		Help:      "Total number of documents processed, labeled by strategy.",
	}, []string{"strategy"})

	// ChunksProduced counts chunks emitted across all strategies.
	ChunksProduced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chunks_produced_total",
		Help:      "Total number of chunks produced.",
	})

	// ValidationFailures counts documents that failed validation.
	ValidationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Total number of documents with error-level validation issues.",
	})

	// ProcessingDuration observes end-to-end processing latency.
	ProcessingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "processing_duration_seconds",
		Help:      "Document processing duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
)

// ObserveProcessing records one completed processing run.
func ObserveProcessing(strategy string, chunks int, valid bool, elapsed time.Duration) {
	DocumentsProcessed.WithLabelValues(strategy).Inc()
	ChunksProduced.Add(float64(chunks))
	if !valid {
		ValidationFailures.Inc()
	}
	ProcessingDuration.Observe(elapsed.Seconds())
}
