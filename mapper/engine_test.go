package mapper

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shahin-smv93/ontology-graph-db/config"
	"github.com/shahin-smv93/ontology-graph-db/entity"
	"github.com/shahin-smv93/ontology-graph-db/graph"
	"github.com/shahin-smv93/ontology-graph-db/vocabulary"
)

type testDataset struct {
	Base
}

func (testDataset) Name() string { return "test" }

const (
	uriB1 = "http://example.org/building/B1"
	uriA1 = "http://example.org/address/A1"
	uriF1 = "http://example.org/floor/B1_F1"
	uriR1 = "http://example.org/room/B1_F1_R1"
	uriS1 = "http://example.org/sensor/S1"
	uriG1 = "http://example.org/gateway/G1"
	uriM1 = "http://example.org/measurement/S1_900"
	uriT1 = "http://example.org/timeinterval/S1_900"
)

func buildHierarchy(t *testing.T) *entity.Hierarchy {
	t.Helper()
	h := entity.NewHierarchy(false)

	_, err := h.AddBuilding(&entity.Building{URI: uriB1, Code: "B1", AddressURI: uriA1})
	require.NoError(t, err)
	_, err = h.AddAddress(&entity.Address{URI: uriA1, StreetName: "Ste-Catherine W", StreetNumber: "1515", PostalCode: "H3G 2W1"})
	require.NoError(t, err)
	_, err = h.AddSpatialUnit(&entity.SpatialUnit{URI: uriF1, Code: "F1", Kind: entity.UnitFloor, ParentURI: uriB1})
	require.NoError(t, err)
	_, err = h.AddSpatialUnit(&entity.SpatialUnit{URI: uriR1, Code: "R1", Kind: entity.UnitRoom, ParentURI: uriF1})
	require.NoError(t, err)
	_, err = h.AddSensor(&entity.Sensor{
		URI: uriS1, SensorUID: "S1", SensorType: "temperatureSensor",
		VendorName: "acme", InstallationDate: "2024-01-15T00:00:00Z", ParentURI: uriR1,
	})
	require.NoError(t, err)
	_, err = h.AddGateway(&entity.Gateway{URI: uriG1, GatewayUID: "G1"})
	require.NoError(t, err)
	_, err = h.AddMeasurement(&entity.Measurement{
		URI: uriM1, SensorURI: uriS1, SensorType: "temperatureSensor",
		Unit: "DEG_C", IntervalURI: uriT1, TimeInterval: "900",
	})
	require.NoError(t, err)
	_, err = h.AddTimeInterval(&entity.TimeInterval{URI: uriT1, Duration: "900"})
	require.NoError(t, err)

	h.AttachChild(uriB1, uriF1)
	h.AttachChild(uriF1, uriR1)
	h.AttachChild(uriR1, uriS1)
	h.LinkGatewaySensor(uriG1, uriS1)
	return h
}

func mapperConfig() *config.Config {
	cfg := config.Default()
	cfg.BaseNamespace = "http://example.org"
	return cfg
}

func TestMapEmitsOntologyTriples(t *testing.T) {
	eng, err := NewEngine(mapperConfig(), testDataset{})
	require.NoError(t, err)

	g, stats, err := eng.Map(context.Background(), buildHierarchy(t))
	require.NoError(t, err)
	assert.Zero(t, stats.EntitiesFailed)
	assert.Empty(t, stats.MissingKinds)
	assert.Equal(t, g.Len(), stats.TriplesEmitted)

	for _, want := range []graph.Triple{
		graph.TypeTriple(uriB1, vocabulary.ClassBuilding),
		graph.NewTriple(uriB1, vocabulary.VcardHasAddress, graph.IRI(uriA1)),
		graph.NewTriple(uriB1, vocabulary.S4bldgHasSpace, graph.IRI(uriF1)),
		graph.TypeTriple(uriA1, vocabulary.ClassAddress),
		graph.NewTriple(uriA1, vocabulary.VcardStreetAddress, graph.Literal("1515 Ste-Catherine W")),
		graph.TypeTriple(uriF1, vocabulary.ClassBuildingSpace),
		graph.NewTriple(uriF1, vocabulary.S4bldgIsSpaceOf, graph.IRI(uriB1)),
		graph.NewTriple(uriF1, vocabulary.S4bldgHasSpace, graph.IRI(uriR1)),
		graph.TypeTriple(uriS1, vocabulary.ClassSensor),
		graph.TypeTriple(uriS1, vocabulary.ClassDevice),
		graph.TypeTriple(uriS1, vocabulary.ClassSystem),
		graph.NewTriple(uriS1, vocabulary.S4bldgIsContainedIn, graph.IRI(uriR1)),
		graph.NewTriple(uriR1, vocabulary.S4bldgContains, graph.IRI(uriS1)),
		graph.NewTriple(uriS1, vocabulary.DctermsCreated,
			graph.TypedLiteral("2024-01-15T00:00:00Z", vocabulary.XSDDateTime)),
		graph.TypeTriple(uriM1, vocabulary.ClassMeasurement),
		graph.NewTriple(uriS1, vocabulary.SarefMakesMeasurement, graph.IRI(uriM1)),
		graph.NewTriple(uriM1, vocabulary.SarefIsMeasurementOf,
			graph.IRI(vocabulary.MeasuredProperty("temperatureSensor"))),
		graph.NewTriple(uriM1, vocabulary.SarefIsMeasuredIn, graph.IRI(vocabulary.UnitIRI("DEG_C"))),
		graph.NewTriple(uriM1, vocabulary.S4watrHasPhenomenonTime, graph.IRI(uriT1)),
		graph.TypeTriple(uriT1, vocabulary.ClassInterval),
		graph.NewTriple(uriT1, vocabulary.TimeHasDuration, graph.TypedLiteral("900", vocabulary.XSDFloat)),
		graph.NewTriple(uriG1, vocabulary.SsnHasSubSystem, graph.IRI(uriS1)),
		graph.NewTriple(uriS1, vocabulary.SsnIsSubSystemOf, graph.IRI(uriG1)),
	} {
		assert.True(t, g.Has(want), "missing triple: %s", want)
	}
}

func TestMapIsDeterministic(t *testing.T) {
	run := func() string {
		eng, err := NewEngine(mapperConfig(), testDataset{})
		require.NoError(t, err)
		g, _, err := eng.Map(context.Background(), buildHierarchy(t))
		require.NoError(t, err)
		var buf strings.Builder
		require.NoError(t, g.EncodeTurtle(&buf))
		return buf.String()
	}
	assert.Equal(t, run(), run())
}

func TestMapBrokenEntityIsAtomic(t *testing.T) {
	h := buildHierarchy(t)
	// A measurement whose sensor type has no property binding and whose
	// own Property is unset cannot be mapped.
	_, err := h.AddMeasurement(&entity.Measurement{
		URI:        "http://example.org/measurement/S1_broken",
		SensorURI:  uriS1,
		SensorType: "warpCoreSensor",
	})
	require.NoError(t, err)

	eng, err := NewEngine(mapperConfig(), testDataset{})
	require.NoError(t, err)

	g, stats, err := eng.Map(context.Background(), h)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.EntitiesFailed)

	// No statement about the broken measurement survived, including its
	// class assertion and the sensor-side edge.
	assert.Empty(t, g.BySubject("http://example.org/measurement/S1_broken"))
	assert.False(t, g.Has(graph.NewTriple(uriS1, vocabulary.SarefMakesMeasurement,
		graph.IRI("http://example.org/measurement/S1_broken"))))
	// The healthy measurement still mapped.
	assert.True(t, g.Has(graph.TypeTriple(uriM1, vocabulary.ClassMeasurement)))
}

func TestMapReportsMissingKinds(t *testing.T) {
	h := entity.NewHierarchy(false)
	_, err := h.AddBuilding(&entity.Building{URI: uriB1, Code: "B1"})
	require.NoError(t, err)

	eng, err := NewEngine(mapperConfig(), testDataset{})
	require.NoError(t, err)

	_, stats, err := eng.Map(context.Background(), h)
	require.NoError(t, err)
	assert.ElementsMatch(t, []entity.Kind{entity.KindSpatialUnit, entity.KindSensor}, stats.MissingKinds)
}

func TestMapSkipsGatewayLinksWhenDisabled(t *testing.T) {
	cfg := mapperConfig()
	cfg.CreateGatewayRelationships = false

	eng, err := NewEngine(cfg, testDataset{})
	require.NoError(t, err)

	g, _, err := eng.Map(context.Background(), buildHierarchy(t))
	require.NoError(t, err)
	assert.False(t, g.Has(graph.NewTriple(uriG1, vocabulary.SsnHasSubSystem, graph.IRI(uriS1))))
}

func TestMapBindsCustomNamespaces(t *testing.T) {
	cfg := mapperConfig()
	cfg.CustomNamespaces = map[string]string{"conc": "http://example.org/"}

	eng, err := NewEngine(cfg, testDataset{})
	require.NoError(t, err)

	g, _, err := eng.Map(context.Background(), buildHierarchy(t))
	require.NoError(t, err)

	found := false
	for _, b := range g.Bindings() {
		if b.Prefix == "conc" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestMapNilHierarchy(t *testing.T) {
	eng, err := NewEngine(mapperConfig(), testDataset{})
	require.NoError(t, err)

	_, _, err = eng.Map(context.Background(), nil)
	require.Error(t, err)
}

func TestDebugSample(t *testing.T) {
	eng, err := NewEngine(mapperConfig(), testDataset{})
	require.NoError(t, err)

	g, _, err := eng.Map(context.Background(), buildHierarchy(t))
	require.NoError(t, err)

	sample := DebugSample(g, 1)
	assert.Greater(t, sample.Len(), 0)
	assert.Less(t, sample.Len(), g.Len())
	// Sampling never mutates the source graph.
	assert.Equal(t, g.Len(), len(g.Triples()))

	// Every sampled statement exists in the source.
	for _, tr := range sample.Triples() {
		assert.True(t, g.Has(tr))
	}
}
