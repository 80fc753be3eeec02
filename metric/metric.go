// Package metric provides Prometheus metrics for the mapping pipeline:
// record outcomes, merged entity populations, emitted triples and mapping
// errors. All recording methods are nil-safe so library callers can pass
// a nil *Metrics to disable collection.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the pipeline-level metrics.
type Metrics struct {
	RecordsProcessed  *prometheus.CounterVec
	EntitiesMerged    *prometheus.CounterVec
	TriplesEmitted    *prometheus.CounterVec
	MappingErrors     *prometheus.CounterVec
	TransformDuration *prometheus.HistogramVec
	MappingDuration   *prometheus.HistogramVec
}

// NewMetrics creates the pipeline metric set, unregistered.
func NewMetrics() *Metrics {
	return &Metrics{
		RecordsProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ontology",
				Subsystem: "transform",
				Name:      "records_total",
				Help:      "Input records by processing outcome",
			},
			[]string{"dataset", "outcome"},
		),
		EntitiesMerged: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ontology",
				Subsystem: "transform",
				Name:      "entities_merged_total",
				Help:      "Entities inserted or merged into the hierarchy",
			},
			[]string{"dataset", "kind"},
		),
		TriplesEmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ontology",
				Subsystem: "mapper",
				Name:      "triples_emitted_total",
				Help:      "Distinct triples added to the output graph",
			},
			[]string{"dataset"},
		),
		MappingErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ontology",
				Subsystem: "mapper",
				Name:      "errors_total",
				Help:      "Entities whose triple batch was rejected",
			},
			[]string{"dataset", "kind"},
		),
		TransformDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "ontology",
				Subsystem: "transform",
				Name:      "duration_seconds",
				Help:      "Hierarchical transform duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"dataset"},
		),
		MappingDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "ontology",
				Subsystem: "mapper",
				Name:      "duration_seconds",
				Help:      "Ontology mapping duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"dataset"},
		),
	}
}

// Register adds all pipeline metrics to the given registerer.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.RecordsProcessed,
		m.EntitiesMerged,
		m.TriplesEmitted,
		m.MappingErrors,
		m.TransformDuration,
		m.MappingDuration,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordOutcome counts one input record with its processing outcome.
func (m *Metrics) RecordOutcome(dataset, outcome string) {
	if m == nil {
		return
	}
	m.RecordsProcessed.WithLabelValues(dataset, outcome).Inc()
}

// AddEntities counts entities of one kind merged into the hierarchy.
func (m *Metrics) AddEntities(dataset, kind string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.EntitiesMerged.WithLabelValues(dataset, kind).Add(float64(n))
}

// AddTriples counts distinct triples added to the graph.
func (m *Metrics) AddTriples(dataset string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.TriplesEmitted.WithLabelValues(dataset).Add(float64(n))
}

// RecordMappingError counts one rejected entity batch.
func (m *Metrics) RecordMappingError(dataset, kind string) {
	if m == nil {
		return
	}
	m.MappingErrors.WithLabelValues(dataset, kind).Inc()
}

// ObserveTransform records the duration of one transform run.
func (m *Metrics) ObserveTransform(dataset string, seconds float64) {
	if m == nil {
		return
	}
	m.TransformDuration.WithLabelValues(dataset).Observe(seconds)
}

// ObserveMapping records the duration of one mapping run.
func (m *Metrics) ObserveMapping(dataset string, seconds float64) {
	if m == nil {
		return
	}
	m.MappingDuration.WithLabelValues(dataset).Observe(seconds)
}
