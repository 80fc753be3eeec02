// Package entity defines the typed domain entities produced by the
// hierarchical transformer and consumed by the ontology mapper, plus the
// identity-keyed Hierarchy that unifies per-record contributions.
//
// Entities reference each other by resolved identity URI, never by
// pointer, so the hierarchy is a plain directed acyclic structure that
// serializes cleanly and can be shared across goroutines after the merge
// completes.
package entity

// Kind identifies the entity type of a hierarchy node.
type Kind string

const (
	KindBuilding       Kind = "building"
	KindAddress        Kind = "address"
	KindSpatialUnit    Kind = "spatialUnit"
	KindPhysicalObject Kind = "physicalObject"
	KindSensor         Kind = "sensor"
	KindGateway        Kind = "gateway"
	KindMeasurement    Kind = "measurement"
	KindTimeInterval   Kind = "timeInterval"
)

// UnitKind distinguishes levels of the spatial hierarchy, ordered
// coarsest to finest.
type UnitKind string

const (
	UnitFloor    UnitKind = "floor"
	UnitMainRoom UnitKind = "mainRoom"
	UnitRoom     UnitKind = "room"
	UnitZone     UnitKind = "zone"
)

// Building is the root of one spatial tree.
type Building struct {
	URI        string `json:"uri"`
	Code       string `json:"code"`
	Label      string `json:"label,omitempty"`
	AddressURI string `json:"address_uri,omitempty"`
}

// Address holds the postal address of a building. Its identity derives
// from the street fields, and it is referenced from the owning Building.
type Address struct {
	URI          string `json:"uri"`
	StreetName   string `json:"street_name,omitempty"`
	StreetNumber string `json:"street_number,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
}

// SpatialUnit is a floor, main room, room or zone. Every unit has exactly
// one parent: a Building or a coarser SpatialUnit.
type SpatialUnit struct {
	URI       string   `json:"uri"`
	Code      string   `json:"code"`
	Kind      UnitKind `json:"kind"`
	Label     string   `json:"label,omitempty"`
	ParentURI string   `json:"parent_uri"`
}

// PhysicalObject is a tangible object inside a spatial unit, e.g. a desk
// carrying occupancy sensors.
type PhysicalObject struct {
	URI         string `json:"uri"`
	Code        string `json:"code"`
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
	ParentURI   string `json:"parent_uri"`
}

// Sensor is a measuring device contained in a spatial unit or physical
// object. Gateway connections are recorded as cross-cutting links on the
// Hierarchy, not here.
type Sensor struct {
	URI              string `json:"uri"`
	SensorUID        string `json:"sensor_uid"`
	SensorID         string `json:"sensor_id,omitempty"`
	SensorType       string `json:"sensor_type,omitempty"`
	VendorName       string `json:"vendor_name,omitempty"`
	InstallationDate string `json:"installation_date,omitempty"`
	ParentURI        string `json:"parent_uri"`
}

// Gateway aggregates sensor traffic. Gateway-sensor is many-to-many and
// orthogonal to the spatial tree.
type Gateway struct {
	URI        string `json:"uri"`
	GatewayUID string `json:"gateway_uid"`
	Label      string `json:"label,omitempty"`
	ParentURI  string `json:"parent_uri,omitempty"`
}

// Measurement is the observation a sensor makes: a measured property in a
// unit of measure, optionally over a time interval.
type Measurement struct {
	URI          string `json:"uri"`
	SensorURI    string `json:"sensor_uri"`
	Property     string `json:"property"` // measured-property IRI
	SensorType   string `json:"sensor_type,omitempty"`
	Unit         string `json:"unit,omitempty"` // QUDT unit symbol
	IntervalURI  string `json:"interval_uri,omitempty"`
	TimeInterval string `json:"time_interval,omitempty"` // raw duration token
}

// TimeInterval is the phenomenon time of a measurement.
type TimeInterval struct {
	URI      string `json:"uri"`
	Duration string `json:"duration,omitempty"` // seconds, as given by the dataset
}
