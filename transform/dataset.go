// Package transform turns flat source records into the identity-keyed
// entity hierarchy. A Dataset supplies the per-record extraction logic;
// the Engine owns validation, merge semantics, ordering and error policy,
// so every dataset gets the same guarantees.
package transform

import (
	"github.com/shahin-smv93/ontology-graph-db/config"
	"github.com/shahin-smv93/ontology-graph-db/entity"
)

// Dataset is the extraction contract a concrete data source implements.
// Each method derives descriptors from one flat record. Methods return
// nil descriptors when the record carries nothing for that entity type;
// that is not an error. Identity URIs are resolved inside the dataset so
// the same logical entity always yields the same URI.
//
// The engine calls the methods in a fixed order per record: building,
// address, spatial units (coarsest to finest), physical objects, sensor,
// gateways, measurement.
type Dataset interface {
	// Name identifies the dataset in logs, metrics and run stats.
	Name() string

	// ExtractBuilding derives the building descriptor. A nil building
	// with nil error means the record belongs to no building and is
	// skipped entirely.
	ExtractBuilding(rec config.Record) (*entity.Building, error)

	// ExtractAddress derives the building's postal address, or nil when
	// the record has no address fields.
	ExtractAddress(rec config.Record, building *entity.Building) (*entity.Address, error)

	// ExtractSpatialUnits derives the spatial chain below the building,
	// ordered coarsest to finest. Each unit's ParentURI references the
	// building or the preceding unit.
	ExtractSpatialUnits(rec config.Record, building *entity.Building) ([]*entity.SpatialUnit, error)

	// ExtractPhysicalObjects derives tangible objects (e.g. desks) that
	// live under the finest spatial unit identified by parentURI.
	ExtractPhysicalObjects(rec config.Record, parentURI string) ([]*entity.PhysicalObject, error)

	// ExtractSensor derives the record's sensor. spatialURI is the finest
	// spatial unit; objectURI is the physical object the sensor sits on,
	// empty when there is none. The dataset picks the parent.
	ExtractSensor(rec config.Record, spatialURI, objectURI string) (*entity.Sensor, error)

	// ExtractGateways derives the gateways the sensor reports through.
	ExtractGateways(rec config.Record, sensor *entity.Sensor) ([]*entity.Gateway, error)

	// ExtractMeasurement derives the sensor's measurement and, when the
	// record carries one, its time interval.
	ExtractMeasurement(rec config.Record, sensor *entity.Sensor) (*entity.Measurement, *entity.TimeInterval, error)
}

// contribution is the assembled output of one record's extraction,
// applied to the hierarchy during the serialized merge phase.
type contribution struct {
	index    int
	recordID string

	building    *entity.Building
	address     *entity.Address
	units       []*entity.SpatialUnit
	objects     []*entity.PhysicalObject
	sensor      *entity.Sensor
	gateways    []*entity.Gateway
	measurement *entity.Measurement
	interval    *entity.TimeInterval
}
