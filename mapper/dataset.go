// Package mapper walks a merged entity hierarchy in a fixed order and
// emits RDF triples into a deduplicating graph. A Dataset supplies the
// per-kind triple emission; the Engine owns traversal order, batch
// atomicity and error accounting.
package mapper

import (
	"github.com/shahin-smv93/ontology-graph-db/entity"
	"github.com/shahin-smv93/ontology-graph-db/graph"
)

// Dataset is the triple-emission contract a concrete data source
// implements. Each method returns the complete batch of triples for one
// entity; the engine adds a batch to the graph only when its method
// returned without error, so a broken entity never leaves partial
// statements behind.
//
// The Base mapper implements the standard building-ontology emission;
// datasets normally embed it and override what differs.
type Dataset interface {
	// Name identifies the dataset in logs, metrics and run stats.
	Name() string

	// RequiredKinds lists entity kinds a complete run is expected to
	// produce. Kinds absent from the hierarchy are reported as warnings,
	// not errors.
	RequiredKinds() []entity.Kind

	BuildingTriples(b *entity.Building, h *entity.Hierarchy) ([]graph.Triple, error)
	AddressTriples(a *entity.Address, h *entity.Hierarchy) ([]graph.Triple, error)
	SpatialUnitTriples(u *entity.SpatialUnit, h *entity.Hierarchy) ([]graph.Triple, error)
	PhysicalObjectTriples(p *entity.PhysicalObject, h *entity.Hierarchy) ([]graph.Triple, error)
	SensorTriples(s *entity.Sensor, h *entity.Hierarchy) ([]graph.Triple, error)
	GatewayTriples(g *entity.Gateway, h *entity.Hierarchy) ([]graph.Triple, error)
	MeasurementTriples(m *entity.Measurement, h *entity.Hierarchy) ([]graph.Triple, error)
	TimeIntervalTriples(t *entity.TimeInterval, h *entity.Hierarchy) ([]graph.Triple, error)

	// GatewayLinkTriples emits the connectivity statements for one
	// gateway-sensor pair.
	GatewayLinkTriples(gatewayURI, sensorURI string) ([]graph.Triple, error)
}
