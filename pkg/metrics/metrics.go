// Package metrics exposes prometheus collectors for the journalfs service.
//
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/docker/go-units"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// KB stands for kilo bytes (1024 bytes)
	KB = units.KiB

	// MB stands for mega bytes (1024 kilo bytes)
	MB = units.MiB

	namespace = "journalfs"
)

// Outcomes of a blob ingestion
const (
	OutcomeCreated      = "created"
	OutcomeDeduplicated = "deduplicated"
	OutcomeRejected     = "rejected"
	OutcomeFailed       = "failed"
)

// Metrics collected by the core service
type Metrics struct {
	updates       *prometheus.CounterVec
	blobs         *prometheus.CounterVec
	ingestedBytes prometheus.Counter
	blobSizes     prometheus.Histogram
	inFlight      prometheus.Gauge
}

// New builds the collectors and registers them. When reg is nil, the collectors are not registered.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "updates",
			Name:      "total",
			Help:      "Updates submitted for application, by result.",
		}, []string{"result"}),
		blobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "blobs",
			Name:      "total",
			Help:      "Blob ingestions, by outcome.",
		}, []string{"outcome"}),
		ingestedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "blobs",
			Name:      "stored_bytes_total",
			Help:      "Bytes uploaded to the storage backend.",
		}),
		blobSizes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "blobs",
			Name:      "size_bytes",
			Help:      "Size of ingested blobs.",
			Buckets:   prometheus.ExponentialBuckets(KB, 4, 8),
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "updates",
			Name:      "in_flight",
			Help:      "Updates currently being applied.",
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.updates, m.blobs, m.ingestedBytes, m.blobSizes, m.inFlight} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// UpdateStarted tracks an update being applied. The returned func must be called when done.
func (m *Metrics) UpdateStarted() func() {
	if m == nil {
		return func() {}
	}
	m.inFlight.Inc()
	return m.inFlight.Dec
}

// UpdateApplied counts an update, by result
func (m *Metrics) UpdateApplied(err error) {
	if m == nil {
		return
	}
	result := "accepted"
	if err != nil {
		result = "rejected"
	}
	m.updates.WithLabelValues(result).Inc()
}

// BlobIngested counts an ingestion
func (m *Metrics) BlobIngested(outcome string, size int64) {
	if m == nil {
		return
	}
	m.blobs.WithLabelValues(outcome).Inc()
	if outcome == OutcomeCreated {
		m.ingestedBytes.Add(float64(size))
		m.blobSizes.Observe(float64(size))
	}
}
