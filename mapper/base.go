package mapper

import (
	"fmt"

	"github.com/shahin-smv93/ontology-graph-db/entity"
	"github.com/shahin-smv93/ontology-graph-db/errors"
	"github.com/shahin-smv93/ontology-graph-db/graph"
	"github.com/shahin-smv93/ontology-graph-db/vocabulary"
)

// Base implements the standard building-ontology emission shared by all
// datasets: s4bldg for the spatial tree, vcard for addresses, saref/ssn
// for sensing equipment, time and qudt for measurements. Concrete
// datasets embed Base and override methods whose shape differs.
type Base struct{}

// RequiredKinds defaults to the spatial core: buildings, spatial units
// and sensors. Datasets override to demand more.
func (Base) RequiredKinds() []entity.Kind {
	return []entity.Kind{entity.KindBuilding, entity.KindSpatialUnit, entity.KindSensor}
}

// BuildingTriples asserts the building class, its label and identifier,
// its address, and a hasSpace edge per attached spatial child.
func (Base) BuildingTriples(b *entity.Building, h *entity.Hierarchy) ([]graph.Triple, error) {
	if b.URI == "" {
		return nil, errors.NewMappingError("building", "uri", errors.ErrUnresolvableURI)
	}
	ts := []graph.Triple{
		graph.TypeTriple(b.URI, vocabulary.ClassBuilding),
	}
	if label := labelOr(b.Label, b.Code); label != "" {
		ts = append(ts, graph.NewTriple(b.URI, vocabulary.RDFSLabel, graph.Literal(label)))
	}
	if b.Code != "" {
		ts = append(ts, graph.NewTriple(b.URI, vocabulary.DctermsIdentifier, graph.Literal(b.Code)))
	}
	if b.AddressURI != "" {
		if h.Address(b.AddressURI) == nil {
			return nil, errors.NewMappingError("building", "address",
				fmt.Errorf("%w: %s", errors.ErrMissingRelation, b.AddressURI))
		}
		ts = append(ts, graph.NewTriple(b.URI, vocabulary.VcardHasAddress, graph.IRI(b.AddressURI)))
	}
	for _, child := range h.Children(b.URI) {
		if h.SpatialUnit(child) != nil {
			ts = append(ts, graph.NewTriple(b.URI, vocabulary.S4bldgHasSpace, graph.IRI(child)))
		}
	}
	return ts, nil
}

// AddressTriples asserts the vcard address with its street and postal
// fields.
func (Base) AddressTriples(a *entity.Address, _ *entity.Hierarchy) ([]graph.Triple, error) {
	if a.URI == "" {
		return nil, errors.NewMappingError("address", "uri", errors.ErrUnresolvableURI)
	}
	ts := []graph.Triple{
		graph.TypeTriple(a.URI, vocabulary.ClassAddress),
	}
	if street := joinSpace(a.StreetNumber, a.StreetName); street != "" {
		ts = append(ts, graph.NewTriple(a.URI, vocabulary.VcardStreetAddress, graph.Literal(street)))
	}
	if a.PostalCode != "" {
		ts = append(ts, graph.NewTriple(a.URI, vocabulary.VcardPostalCode, graph.Literal(a.PostalCode)))
	}
	return ts, nil
}

// SpatialUnitTriples asserts the building space, its label, and the
// space edges to its parent and to nested spatial children.
func (Base) SpatialUnitTriples(u *entity.SpatialUnit, h *entity.Hierarchy) ([]graph.Triple, error) {
	if u.URI == "" {
		return nil, errors.NewMappingError(string(u.Kind), "uri", errors.ErrUnresolvableURI)
	}
	if u.ParentURI == "" {
		return nil, errors.NewMappingError(string(u.Kind), "parent",
			fmt.Errorf("%w: %s", errors.ErrMissingRelation, u.URI))
	}
	ts := []graph.Triple{
		graph.TypeTriple(u.URI, vocabulary.ClassBuildingSpace),
		graph.NewTriple(u.URI, vocabulary.S4bldgIsSpaceOf, graph.IRI(u.ParentURI)),
	}
	if label := labelOr(u.Label, u.Code); label != "" {
		ts = append(ts, graph.NewTriple(u.URI, vocabulary.RDFSLabel, graph.Literal(label)))
	}
	if u.Code != "" {
		ts = append(ts, graph.NewTriple(u.URI, vocabulary.DctermsIdentifier, graph.Literal(u.Code)))
	}
	for _, child := range h.Children(u.URI) {
		if h.SpatialUnit(child) != nil {
			ts = append(ts, graph.NewTriple(u.URI, vocabulary.S4bldgHasSpace, graph.IRI(child)))
		}
	}
	return ts, nil
}

// PhysicalObjectTriples asserts the physical object and its containment
// in the parent space.
func (Base) PhysicalObjectTriples(p *entity.PhysicalObject, _ *entity.Hierarchy) ([]graph.Triple, error) {
	if p.URI == "" {
		return nil, errors.NewMappingError("physicalObject", "uri", errors.ErrUnresolvableURI)
	}
	ts := []graph.Triple{
		graph.TypeTriple(p.URI, vocabulary.ClassPhysicalObject),
	}
	if label := labelOr(p.Label, p.Code); label != "" {
		ts = append(ts, graph.NewTriple(p.URI, vocabulary.RDFSLabel, graph.Literal(label)))
	}
	if p.Code != "" {
		ts = append(ts, graph.NewTriple(p.URI, vocabulary.DctermsIdentifier, graph.Literal(p.Code)))
	}
	if p.Description != "" {
		ts = append(ts, graph.NewTriple(p.URI, vocabulary.DctermsDescription, graph.Literal(p.Description)))
	}
	if p.ParentURI != "" {
		ts = append(ts,
			graph.NewTriple(p.URI, vocabulary.S4bldgIsContainedIn, graph.IRI(p.ParentURI)),
			graph.NewTriple(p.ParentURI, vocabulary.S4bldgContains, graph.IRI(p.URI)),
		)
	}
	return ts, nil
}

// SensorTriples asserts the sensor as a saref:Sensor, saref:Device and
// ssn:System, its identifiers and provenance, and its containment.
func (Base) SensorTriples(s *entity.Sensor, _ *entity.Hierarchy) ([]graph.Triple, error) {
	if s.URI == "" {
		return nil, errors.NewMappingError("sensor", "uri", errors.ErrUnresolvableURI)
	}
	if s.SensorUID == "" {
		return nil, errors.NewMappingError("sensor", "sensorUID", errors.ErrMissingField)
	}
	ts := []graph.Triple{
		graph.TypeTriple(s.URI, vocabulary.ClassSensor),
		graph.TypeTriple(s.URI, vocabulary.ClassDevice),
		graph.TypeTriple(s.URI, vocabulary.ClassSystem),
		graph.NewTriple(s.URI, vocabulary.DctermsIdentifier, graph.Literal(s.SensorUID)),
	}
	if s.SensorID != "" {
		ts = append(ts, graph.NewTriple(s.URI, vocabulary.SchemaSerialNumber, graph.Literal(s.SensorID)))
	}
	if s.VendorName != "" {
		ts = append(ts,
			graph.NewTriple(s.URI, vocabulary.RDFSLabel, graph.Literal(s.VendorName)),
			graph.NewTriple(s.URI, vocabulary.SchemaManufacturer, graph.Literal(s.VendorName)),
		)
	}
	if s.InstallationDate != "" {
		ts = append(ts, graph.NewTriple(s.URI, vocabulary.DctermsCreated,
			graph.TypedLiteral(s.InstallationDate, vocabulary.XSDDateTime)))
	}
	if s.ParentURI != "" {
		ts = append(ts,
			graph.NewTriple(s.URI, vocabulary.S4bldgIsContainedIn, graph.IRI(s.ParentURI)),
			graph.NewTriple(s.ParentURI, vocabulary.S4bldgContains, graph.IRI(s.URI)),
		)
	}
	return ts, nil
}

// GatewayTriples asserts the gateway as a saref:Device and ssn:System
// with its identifier and optional containment.
func (Base) GatewayTriples(g *entity.Gateway, _ *entity.Hierarchy) ([]graph.Triple, error) {
	if g.URI == "" {
		return nil, errors.NewMappingError("gateway", "uri", errors.ErrUnresolvableURI)
	}
	ts := []graph.Triple{
		graph.TypeTriple(g.URI, vocabulary.ClassDevice),
		graph.TypeTriple(g.URI, vocabulary.ClassSystem),
	}
	if g.GatewayUID != "" {
		ts = append(ts, graph.NewTriple(g.URI, vocabulary.DctermsIdentifier, graph.Literal(g.GatewayUID)))
	}
	if label := labelOr(g.Label, g.GatewayUID); label != "" {
		ts = append(ts, graph.NewTriple(g.URI, vocabulary.RDFSLabel, graph.Literal(label)))
	}
	if g.ParentURI != "" {
		ts = append(ts,
			graph.NewTriple(g.URI, vocabulary.S4bldgIsContainedIn, graph.IRI(g.ParentURI)),
			graph.NewTriple(g.ParentURI, vocabulary.S4bldgContains, graph.IRI(g.URI)),
		)
	}
	return ts, nil
}

// MeasurementTriples asserts the measurement, the property it measures,
// its unit and its phenomenon time, plus the makesMeasurement edge from
// the owning sensor.
func (Base) MeasurementTriples(m *entity.Measurement, h *entity.Hierarchy) ([]graph.Triple, error) {
	if m.URI == "" {
		return nil, errors.NewMappingError("measurement", "uri", errors.ErrUnresolvableURI)
	}
	if m.SensorURI == "" || h.Sensor(m.SensorURI) == nil {
		return nil, errors.NewMappingError("measurement", "sensor",
			fmt.Errorf("%w: %s", errors.ErrMissingRelation, m.URI))
	}
	property := m.Property
	if property == "" {
		property = vocabulary.MeasuredProperty(m.SensorType)
	}
	if property == "" {
		return nil, errors.NewMappingError("measurement", "property",
			fmt.Errorf("%w: %q", errors.ErrUnsupportedSensor, m.SensorType))
	}
	ts := []graph.Triple{
		graph.TypeTriple(m.URI, vocabulary.ClassMeasurement),
		graph.NewTriple(m.SensorURI, vocabulary.SarefMakesMeasurement, graph.IRI(m.URI)),
		graph.NewTriple(m.URI, vocabulary.SarefIsMeasurementOf, graph.IRI(property)),
	}
	if unit := vocabulary.UnitIRI(m.Unit); unit != "" {
		ts = append(ts, graph.NewTriple(m.URI, vocabulary.SarefIsMeasuredIn, graph.IRI(unit)))
	}
	if m.IntervalURI != "" {
		if h.TimeInterval(m.IntervalURI) == nil {
			return nil, errors.NewMappingError("measurement", "interval",
				fmt.Errorf("%w: %s", errors.ErrMissingRelation, m.IntervalURI))
		}
		ts = append(ts, graph.NewTriple(m.URI, vocabulary.S4watrHasPhenomenonTime, graph.IRI(m.IntervalURI)))
	}
	return ts, nil
}

// TimeIntervalTriples asserts the interval and its duration.
func (Base) TimeIntervalTriples(t *entity.TimeInterval, _ *entity.Hierarchy) ([]graph.Triple, error) {
	if t.URI == "" {
		return nil, errors.NewMappingError("timeInterval", "uri", errors.ErrUnresolvableURI)
	}
	ts := []graph.Triple{
		graph.TypeTriple(t.URI, vocabulary.ClassInterval),
		graph.TypeTriple(t.URI, vocabulary.ClassTemporalEntity),
	}
	if t.Duration != "" {
		ts = append(ts, graph.NewTriple(t.URI, vocabulary.TimeHasDuration,
			graph.TypedLiteral(t.Duration, vocabulary.XSDFloat)))
	}
	return ts, nil
}

// GatewayLinkTriples asserts the subsystem edges in both directions.
func (Base) GatewayLinkTriples(gatewayURI, sensorURI string) ([]graph.Triple, error) {
	if gatewayURI == "" || sensorURI == "" {
		return nil, errors.NewMappingError("gatewayLink", "uri", errors.ErrUnresolvableURI)
	}
	return []graph.Triple{
		graph.NewTriple(gatewayURI, vocabulary.SsnHasSubSystem, graph.IRI(sensorURI)),
		graph.NewTriple(sensorURI, vocabulary.SsnIsSubSystemOf, graph.IRI(gatewayURI)),
	}, nil
}

func labelOr(label, fallback string) string {
	if label != "" {
		return label
	}
	return fallback
}

func joinSpace(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}
