package mapper

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shahin-smv93/ontology-graph-db/config"
	"github.com/shahin-smv93/ontology-graph-db/entity"
	"github.com/shahin-smv93/ontology-graph-db/errors"
	"github.com/shahin-smv93/ontology-graph-db/graph"
	"github.com/shahin-smv93/ontology-graph-db/metric"
	"github.com/shahin-smv93/ontology-graph-db/vocabulary"
)

// Stats summarizes one mapping run.
type Stats struct {
	RunID          string        `json:"run_id"`
	Dataset        string        `json:"dataset"`
	EntitiesMapped int           `json:"entities_mapped"`
	EntitiesFailed int           `json:"entities_failed"`
	TriplesEmitted int           `json:"triples_emitted"`
	MissingKinds   []entity.Kind `json:"missing_kinds,omitempty"`
	Duration       time.Duration `json:"duration"`
}

// Engine maps a hierarchy into an RDF graph. Entities are visited in a
// fixed order so the output graph is identical run to run: buildings,
// addresses, spatial units coarsest to finest, physical objects, sensors,
// gateways, measurements, time intervals, then gateway-sensor links.
//
// Each entity's triples form an atomic batch: an entity whose emission
// fails contributes nothing, is counted, and the run continues.
type Engine struct {
	cfg     *config.Config
	dataset Dataset
	logger  *slog.Logger
	metrics *metric.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics attaches pipeline metrics. Nil disables collection.
func WithMetrics(m *metric.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates a mapping engine for one dataset.
func NewEngine(cfg *config.Config, dataset Dataset, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, errors.NewConfigError("config", "configuration is required")
	}
	if dataset == nil {
		return nil, errors.NewConfigError("dataset", "dataset is required")
	}
	e := &Engine{
		cfg:     cfg,
		dataset: dataset,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "mapper", "dataset", dataset.Name())
	return e, nil
}

// Map converts the hierarchy into a graph. The returned stats count
// mapped and failed entities; a run only errors when the context is
// cancelled or the hierarchy is nil.
func (e *Engine) Map(ctx context.Context, h *entity.Hierarchy) (*graph.Graph, *Stats, error) {
	if h == nil {
		return nil, nil, errors.NewMappingError("hierarchy", "", errors.ErrEmptyInput)
	}
	start := time.Now()
	stats := &Stats{
		RunID:   uuid.NewString(),
		Dataset: e.dataset.Name(),
	}
	e.logger.Info("mapping started", "run_id", stats.RunID, "entities", h.Counts())

	g := graph.New()
	for prefix, ns := range e.cfg.CustomNamespaces {
		g.Bind(prefix, vocabulary.Namespace(ns))
	}

	type batch struct {
		kind entity.Kind
		uri  string
		emit func() ([]graph.Triple, error)
	}
	var batches []batch

	for _, b := range h.Buildings() {
		b := b
		batches = append(batches, batch{entity.KindBuilding, b.URI,
			func() ([]graph.Triple, error) { return e.dataset.BuildingTriples(b, h) }})
	}
	for _, a := range h.Addresses() {
		a := a
		batches = append(batches, batch{entity.KindAddress, a.URI,
			func() ([]graph.Triple, error) { return e.dataset.AddressTriples(a, h) }})
	}
	for _, u := range h.SpatialUnits() {
		u := u
		batches = append(batches, batch{entity.KindSpatialUnit, u.URI,
			func() ([]graph.Triple, error) { return e.dataset.SpatialUnitTriples(u, h) }})
	}
	for _, p := range h.PhysicalObjects() {
		p := p
		batches = append(batches, batch{entity.KindPhysicalObject, p.URI,
			func() ([]graph.Triple, error) { return e.dataset.PhysicalObjectTriples(p, h) }})
	}
	for _, s := range h.Sensors() {
		s := s
		batches = append(batches, batch{entity.KindSensor, s.URI,
			func() ([]graph.Triple, error) { return e.dataset.SensorTriples(s, h) }})
	}
	for _, gw := range h.Gateways() {
		gw := gw
		batches = append(batches, batch{entity.KindGateway, gw.URI,
			func() ([]graph.Triple, error) { return e.dataset.GatewayTriples(gw, h) }})
	}
	for _, m := range h.Measurements() {
		m := m
		batches = append(batches, batch{entity.KindMeasurement, m.URI,
			func() ([]graph.Triple, error) { return e.dataset.MeasurementTriples(m, h) }})
	}
	for _, t := range h.TimeIntervals() {
		t := t
		batches = append(batches, batch{entity.KindTimeInterval, t.URI,
			func() ([]graph.Triple, error) { return e.dataset.TimeIntervalTriples(t, h) }})
	}
	if e.cfg.CreateGatewayRelationships {
		for _, link := range h.GatewayLinks() {
			link := link
			batches = append(batches, batch{entity.KindGateway, link[0],
				func() ([]graph.Triple, error) { return e.dataset.GatewayLinkTriples(link[0], link[1]) }})
		}
	}

	for _, b := range batches {
		if err := ctx.Err(); err != nil {
			stats.Duration = time.Since(start)
			return nil, stats, errors.WrapMapping(err, "Engine", "Map", "map entities")
		}
		triples, err := b.emit()
		if err != nil {
			stats.EntitiesFailed++
			e.metrics.RecordMappingError(stats.Dataset, string(b.kind))
			e.logger.Warn("entity mapping failed", "kind", b.kind, "uri", b.uri, "error", err)
			continue
		}
		stats.EntitiesMapped++
		stats.TriplesEmitted += g.AddAll(triples)
	}

	stats.MissingKinds = e.missingKinds(h)
	for _, kind := range stats.MissingKinds {
		e.logger.Warn("expected entity kind absent from hierarchy", "kind", kind)
	}

	stats.Duration = time.Since(start)
	e.metrics.AddTriples(stats.Dataset, stats.TriplesEmitted)
	e.metrics.ObserveMapping(stats.Dataset, stats.Duration.Seconds())
	e.logger.Info("mapping finished",
		"run_id", stats.RunID,
		"entities_mapped", stats.EntitiesMapped,
		"entities_failed", stats.EntitiesFailed,
		"triples", stats.TriplesEmitted,
		"duration", stats.Duration,
	)
	return g, stats, nil
}

func (e *Engine) missingKinds(h *entity.Hierarchy) []entity.Kind {
	counts := h.Counts()
	population := map[entity.Kind]int{
		entity.KindBuilding:       counts.Buildings,
		entity.KindAddress:        counts.Addresses,
		entity.KindSpatialUnit:    counts.SpatialUnits,
		entity.KindPhysicalObject: counts.PhysicalObjects,
		entity.KindSensor:         counts.Sensors,
		entity.KindGateway:        counts.Gateways,
		entity.KindMeasurement:    counts.Measurements,
		entity.KindTimeInterval:   counts.TimeIntervals,
	}
	var missing []entity.Kind
	for _, kind := range e.dataset.RequiredKinds() {
		if population[kind] == 0 {
			missing = append(missing, kind)
		}
	}
	return missing
}
