// Package vocabulary provides semantic vocabulary definitions and mappings
// for the building ontology: namespace bindings, class and predicate IRIs,
// and the sensor-type to measured-property table.
//
// All IRIs here are static reference data consumed by the ontology mapper.
// The package never generates identity URIs for entities; that is the
// identity package's job.
package vocabulary

import "strings"

// Namespace is a vocabulary namespace IRI. Concatenating a local name
// yields a full term IRI.
type Namespace string

// IRI returns the full IRI for a local name within this namespace.
func (ns Namespace) IRI(local string) string {
	return string(ns) + local
}

// Owns reports whether the given IRI belongs to this namespace.
func (ns Namespace) Owns(iri string) bool {
	return strings.HasPrefix(iri, string(ns))
}

// Ontology namespaces used by the building/sensor mapping.
const (
	BIGG    Namespace = "http://bigg-project.eu/ld/ontology#"
	SAREF   Namespace = "https://saref.etsi.org/core/"
	S4BLDG  Namespace = "https://saref.etsi.org/saref4bldg/"
	S4WATR  Namespace = "https://saref.etsi.org/saref4watr/"
	SSN     Namespace = "http://www.w3.org/ns/ssn/"
	VCARD   Namespace = "http://www.w3.org/2006/vcard/ns#"
	DCTERMS Namespace = "http://purl.org/dc/terms/"
	SCHEMA  Namespace = "https://schema.org/"
	TIME    Namespace = "http://www.w3.org/2006/time#"
	QUDT    Namespace = "http://qudt.org/vocab/unit/"
	RDF     Namespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS    Namespace = "http://www.w3.org/2000/01/rdf-schema#"
	XSD     Namespace = "http://www.w3.org/2001/XMLSchema#"
)

// Binding pairs a prefix with its namespace for graph serialization.
type Binding struct {
	Prefix    string
	Namespace Namespace
}

// StandardBindings returns the prefix bindings emitted with every graph,
// in deterministic order.
func StandardBindings() []Binding {
	return []Binding{
		{"bigg", BIGG},
		{"dcterms", DCTERMS},
		{"qudt", QUDT},
		{"rdf", RDF},
		{"rdfs", RDFS},
		{"s4bldg", S4BLDG},
		{"s4watr", S4WATR},
		{"saref", SAREF},
		{"schema", SCHEMA},
		{"ssn", SSN},
		{"time", TIME},
		{"vcard", VCARD},
		{"xsd", XSD},
	}
}

// Ontology classes asserted by the mapper via rdf:type.
var (
	ClassBuilding       = S4BLDG.IRI("Building")
	ClassBuildingSpace  = S4BLDG.IRI("BuildingSpace")
	ClassPhysicalObject = S4BLDG.IRI("PhysicalObject")
	ClassAddress        = VCARD.IRI("Address")
	ClassSensor         = SAREF.IRI("Sensor")
	ClassDevice         = SAREF.IRI("Device")
	ClassSystem         = SSN.IRI("System")
	ClassMeasurement    = SAREF.IRI("Measurement")
	ClassInterval       = TIME.IRI("Interval")
	ClassTemporalEntity = TIME.IRI("TemporalEntity")
)

// Predicates used by the mapper.
var (
	RDFType = RDF.IRI("type")

	RDFSLabel = RDFS.IRI("label")

	VcardHasAddress    = VCARD.IRI("hasAddress")
	VcardStreetAddress = VCARD.IRI("street-address")
	VcardPostalCode    = VCARD.IRI("postal-code")

	S4bldgHasSpace      = S4BLDG.IRI("hasSpace")
	S4bldgIsSpaceOf     = S4BLDG.IRI("isSpaceOf")
	S4bldgContains      = S4BLDG.IRI("contains")
	S4bldgIsContainedIn = S4BLDG.IRI("isContainedIn")

	SarefMakesMeasurement = SAREF.IRI("makesMeasurement")
	SarefIsMeasurementOf  = SAREF.IRI("isMeasurementOf")
	SarefIsMeasuredIn     = SAREF.IRI("isMeasuredIn")

	SsnHasSubSystem  = SSN.IRI("hasSubSystem")
	SsnIsSubSystemOf = SSN.IRI("isSubSystemOf")

	DctermsIdentifier  = DCTERMS.IRI("identifier")
	DctermsCreated     = DCTERMS.IRI("created")
	DctermsDescription = DCTERMS.IRI("description")

	SchemaSerialNumber = SCHEMA.IRI("serialNumber")
	SchemaManufacturer = SCHEMA.IRI("manufacturer")

	S4watrHasPhenomenonTime = S4WATR.IRI("hasPhenomenonTime")

	TimeHasDuration = TIME.IRI("hasDuration")
)

// XSD datatypes attached to typed literals.
var (
	XSDString   = XSD.IRI("string")
	XSDFloat    = XSD.IRI("float")
	XSDDateTime = XSD.IRI("dateTime")
)

// UnitIRI resolves a QUDT unit symbol (e.g. "DEG_C", "PPM") to a full IRI.
// Returns empty string for an empty symbol.
func UnitIRI(symbol string) string {
	if symbol == "" {
		return ""
	}
	return QUDT.IRI(symbol)
}
