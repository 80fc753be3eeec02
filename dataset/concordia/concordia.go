// Package concordia implements the extraction and mapping contracts for
// the Concordia campus sensor inventory: buildings with postal addresses,
// a floor / main room / room / zone spatial chain, desk-mounted occupancy
// sensors, air-quality sensors, and LoRa gateways homed in main rooms.
package concordia

import (
	"github.com/shahin-smv93/ontology-graph-db/config"
	"github.com/shahin-smv93/ontology-graph-db/entity"
	"github.com/shahin-smv93/ontology-graph-db/identity"
	"github.com/shahin-smv93/ontology-graph-db/mapper"
	"github.com/shahin-smv93/ontology-graph-db/vocabulary"
)

// Dataset adapts Concordia inventory records. It implements both the
// transform extraction contract and the mapper emission contract, so one
// value configures the whole pipeline.
type Dataset struct {
	mapper.Base

	cfg *config.Config
	res *identity.Resolver
}

// New creates the dataset from a validated configuration.
func New(cfg *config.Config) (*Dataset, error) {
	res, err := identity.NewResolver(cfg.Namespace())
	if err != nil {
		return nil, err
	}
	return &Dataset{cfg: cfg, res: res}, nil
}

// Name implements both dataset contracts.
func (d *Dataset) Name() string { return "concordia" }

// RequiredKinds expects the full campus shape: the spatial core plus
// measurements, since every inventory row describes a measuring sensor.
func (d *Dataset) RequiredKinds() []entity.Kind {
	return []entity.Kind{
		entity.KindBuilding,
		entity.KindSpatialUnit,
		entity.KindSensor,
		entity.KindMeasurement,
	}
}

func (d *Dataset) spatial(rec config.Record, canonical string) string {
	return d.cfg.ExtractString(rec, config.CategorySpatial, canonical)
}

func (d *Dataset) sensorField(rec config.Record, canonical string) string {
	return d.cfg.ExtractString(rec, config.CategorySensor, canonical)
}

// ExtractBuilding derives the building from the spatial category.
func (d *Dataset) ExtractBuilding(rec config.Record) (*entity.Building, error) {
	code := d.spatial(rec, "building")
	if code == "" {
		return nil, nil
	}
	uri, err := d.res.Resolve(identity.TypeBuilding, code)
	if err != nil {
		return nil, err
	}
	return &entity.Building{URI: uri, Code: code}, nil
}

// ExtractAddress derives the building's postal address. The identity is
// the street number, street name and postal code, so every record for the
// same address converges on one node.
func (d *Dataset) ExtractAddress(rec config.Record, _ *entity.Building) (*entity.Address, error) {
	street := d.cfg.ExtractString(rec, config.CategoryAddress, "streetName")
	number := d.cfg.ExtractString(rec, config.CategoryAddress, "streetNumber")
	postal := d.cfg.ExtractString(rec, config.CategoryAddress, "postalCode")
	if street == "" && number == "" && postal == "" {
		return nil, nil
	}

	var keys []string
	for _, k := range []string{number, street, postal} {
		if k != "" {
			keys = append(keys, k)
		}
	}
	uri, err := d.res.Resolve(identity.TypeAddress, keys...)
	if err != nil {
		return nil, err
	}
	return &entity.Address{
		URI:          uri,
		StreetName:   street,
		StreetNumber: number,
		PostalCode:   postal,
	}, nil
}

// ExtractSpatialUnits derives the chain below the building, coarsest to
// finest: floor, main room, then room and/or zone. Unit identities carry
// the full path of codes so equal room codes on different floors stay
// distinct.
func (d *Dataset) ExtractSpatialUnits(rec config.Record, b *entity.Building) ([]*entity.SpatialUnit, error) {
	var units []*entity.SpatialUnit
	parent := b.URI
	keys := []string{b.Code}

	add := func(kind entity.UnitKind, idType, code string) error {
		keys = append(keys, code)
		uri, err := d.res.Resolve(idType, keys...)
		if err != nil {
			return err
		}
		units = append(units, &entity.SpatialUnit{
			URI:       uri,
			Code:      code,
			Kind:      kind,
			ParentURI: parent,
		})
		parent = uri
		return nil
	}

	if floor := d.spatial(rec, "floor"); floor != "" {
		if err := add(entity.UnitFloor, identity.TypeFloor, floor); err != nil {
			return nil, err
		}
	}
	if mainRoom := d.spatial(rec, "mainRoom"); mainRoom != "" {
		if err := add(entity.UnitMainRoom, identity.TypeMainRoom, mainRoom); err != nil {
			return nil, err
		}
	}
	if room := d.spatial(rec, "room"); room != "" {
		if err := add(entity.UnitRoom, identity.TypeRoom, room); err != nil {
			return nil, err
		}
	}
	if zone := d.spatial(rec, "zone"); zone != "" {
		if err := add(entity.UnitZone, identity.TypeZone, zone); err != nil {
			return nil, err
		}
	}
	return units, nil
}

// ExtractPhysicalObjects derives the desk a desk sensor is mounted on.
// Desks are keyed by building and desk ID and live under the finest
// spatial unit of the record.
func (d *Dataset) ExtractPhysicalObjects(rec config.Record, parentURI string) ([]*entity.PhysicalObject, error) {
	deskID := d.cfg.ExtractString(rec, config.CategoryDesk, "deskID")
	if deskID == "" {
		return nil, nil
	}
	building := d.spatial(rec, "building")
	uri, err := d.res.Resolve(identity.TypeDesk, building, deskID)
	if err != nil {
		return nil, err
	}
	return []*entity.PhysicalObject{{
		URI:         uri,
		Code:        deskID,
		Description: d.cfg.ExtractString(rec, config.CategoryDesk, "deskDescription"),
		ParentURI:   parentURI,
	}}, nil
}

// ExtractSensor derives the record's sensor. Desk-mounted sensors sit on
// their desk; everything else sits in the finest spatial unit.
func (d *Dataset) ExtractSensor(rec config.Record, spatialURI, objectURI string) (*entity.Sensor, error) {
	uid := d.sensorField(rec, "sensorUID")
	if uid == "" {
		return nil, nil
	}
	uri, err := d.res.Resolve(identity.TypeSensor, uid)
	if err != nil {
		return nil, err
	}
	parent := spatialURI
	if objectURI != "" {
		parent = objectURI
	}
	return &entity.Sensor{
		URI:              uri,
		SensorUID:        uid,
		SensorID:         d.sensorField(rec, "sensorId"),
		SensorType:       d.sensorField(rec, "sensorType"),
		VendorName:       d.sensorField(rec, "vendorName"),
		InstallationDate: d.sensorField(rec, "installationDate"),
		ParentURI:        parent,
	}, nil
}

// ExtractGateways derives the sensor's gateway. Gateways are campus
// equipment homed in the record's main room when one is named.
func (d *Dataset) ExtractGateways(rec config.Record, _ *entity.Sensor) ([]*entity.Gateway, error) {
	uid := d.sensorField(rec, "gatewayUID")
	if uid == "" {
		return nil, nil
	}
	uri, err := d.res.Resolve(identity.TypeGateway, uid)
	if err != nil {
		return nil, err
	}
	gw := &entity.Gateway{URI: uri, GatewayUID: uid}

	building := d.spatial(rec, "building")
	floor := d.spatial(rec, "floor")
	mainRoom := d.spatial(rec, "mainRoom")
	if building != "" && floor != "" && mainRoom != "" {
		parent, err := d.res.Resolve(identity.TypeMainRoom, building, floor, mainRoom)
		if err != nil {
			return nil, err
		}
		gw.ParentURI = parent
	}
	return []*entity.Gateway{gw}, nil
}

// ExtractMeasurement derives what the sensor measures. The measurement
// identity is the sensor plus its reporting interval; intervals of equal
// duration are shared.
func (d *Dataset) ExtractMeasurement(rec config.Record, s *entity.Sensor) (*entity.Measurement, *entity.TimeInterval, error) {
	property := vocabulary.MeasuredProperty(s.SensorType)
	if property == "" {
		return nil, nil, nil
	}

	duration := d.sensorField(rec, "timeInterval")
	mKeys := []string{s.SensorUID}
	if duration != "" {
		mKeys = append(mKeys, duration)
	}
	mURI, err := d.res.Resolve(identity.TypeMeasurement, mKeys...)
	if err != nil {
		return nil, nil, err
	}
	m := &entity.Measurement{
		URI:          mURI,
		SensorURI:    s.URI,
		Property:     property,
		SensorType:   s.SensorType,
		Unit:         d.sensorField(rec, "unit"),
		TimeInterval: duration,
	}
	if duration == "" {
		return m, nil, nil
	}

	iURI, err := d.res.Resolve(identity.TypeTimeInterval, duration)
	if err != nil {
		return nil, nil, err
	}
	m.IntervalURI = iURI
	return m, &entity.TimeInterval{URI: iURI, Duration: duration}, nil
}
