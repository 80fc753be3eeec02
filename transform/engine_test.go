package transform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shahin-smv93/ontology-graph-db/config"
	"github.com/shahin-smv93/ontology-graph-db/entity"
	"github.com/shahin-smv93/ontology-graph-db/errors"
	"github.com/shahin-smv93/ontology-graph-db/identity"
)

// stubDataset extracts from flat test records keyed by canonical names.
// It keeps the spatial chain to building/floor/room, sensors directly
// under the room, and one gateway per record when gatewayUID is present.
type stubDataset struct {
	res *identity.Resolver
}

func newStubDataset(t *testing.T) *stubDataset {
	t.Helper()
	res, err := identity.NewResolver("http://example.org")
	require.NoError(t, err)
	return &stubDataset{res: res}
}

func (d *stubDataset) Name() string { return "stub" }

func str(rec config.Record, key string) string {
	v, _ := rec[key].(string)
	return v
}

func (d *stubDataset) ExtractBuilding(rec config.Record) (*entity.Building, error) {
	code := str(rec, "building")
	if code == "" {
		return nil, nil
	}
	uri, err := d.res.Resolve(identity.TypeBuilding, code)
	if err != nil {
		return nil, err
	}
	return &entity.Building{URI: uri, Code: code}, nil
}

func (d *stubDataset) ExtractAddress(rec config.Record, _ *entity.Building) (*entity.Address, error) {
	street := str(rec, "streetName")
	if street == "" {
		return nil, nil
	}
	uri, err := d.res.Resolve(identity.TypeAddress, street)
	if err != nil {
		return nil, err
	}
	return &entity.Address{URI: uri, StreetName: street}, nil
}

func (d *stubDataset) ExtractSpatialUnits(rec config.Record, b *entity.Building) ([]*entity.SpatialUnit, error) {
	var units []*entity.SpatialUnit
	parent := b.URI
	keys := []string{b.Code}
	if floor := str(rec, "floor"); floor != "" {
		keys = append(keys, floor)
		uri, err := d.res.Resolve(identity.TypeFloor, keys...)
		if err != nil {
			return nil, err
		}
		units = append(units, &entity.SpatialUnit{URI: uri, Code: floor, Kind: entity.UnitFloor, ParentURI: parent})
		parent = uri
	}
	if room := str(rec, "room"); room != "" {
		keys = append(keys, room)
		uri, err := d.res.Resolve(identity.TypeRoom, keys...)
		if err != nil {
			return nil, err
		}
		units = append(units, &entity.SpatialUnit{URI: uri, Code: room, Kind: entity.UnitRoom, ParentURI: parent})
	}
	return units, nil
}

func (d *stubDataset) ExtractPhysicalObjects(config.Record, string) ([]*entity.PhysicalObject, error) {
	return nil, nil
}

func (d *stubDataset) ExtractSensor(rec config.Record, spatialURI, _ string) (*entity.Sensor, error) {
	uid := str(rec, "sensorUID")
	if uid == "" {
		return nil, nil
	}
	uri, err := d.res.Resolve(identity.TypeSensor, uid)
	if err != nil {
		return nil, err
	}
	return &entity.Sensor{
		URI:        uri,
		SensorUID:  uid,
		SensorType: str(rec, "sensorType"),
		VendorName: str(rec, "vendor"),
		ParentURI:  spatialURI,
	}, nil
}

func (d *stubDataset) ExtractGateways(rec config.Record, _ *entity.Sensor) ([]*entity.Gateway, error) {
	uid := str(rec, "gatewayUID")
	if uid == "" {
		return nil, nil
	}
	uri, err := d.res.Resolve(identity.TypeGateway, uid)
	if err != nil {
		return nil, err
	}
	return []*entity.Gateway{{URI: uri, GatewayUID: uid}}, nil
}

func (d *stubDataset) ExtractMeasurement(rec config.Record, s *entity.Sensor) (*entity.Measurement, *entity.TimeInterval, error) {
	interval := str(rec, "timeInterval")
	if interval == "" {
		return nil, nil, nil
	}
	mURI, err := d.res.Resolve(identity.TypeMeasurement, s.SensorUID, interval)
	if err != nil {
		return nil, nil, err
	}
	iURI, err := d.res.Resolve(identity.TypeTimeInterval, s.SensorUID, interval)
	if err != nil {
		return nil, nil, err
	}
	m := &entity.Measurement{
		URI:          mURI,
		SensorURI:    s.URI,
		SensorType:   s.SensorType,
		IntervalURI:  iURI,
		TimeInterval: interval,
	}
	return m, &entity.TimeInterval{URI: iURI, Duration: interval}, nil
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.BaseNamespace = "http://example.org"
	cfg.FieldCategories = config.FieldCategories{
		config.CategorySpatial: {
			"building": "building",
			"floor":    "floor",
			"room":     "room",
		},
		config.CategorySensor: {
			"sensorUID":    "sensorUID",
			"sensorType":   "sensorType",
			"vendorName":   "vendor",
			"gatewayUID":   "gatewayUID",
			"timeInterval": "timeInterval",
		},
	}
	return cfg
}

func sampleRecords() []config.Record {
	return []config.Record{
		{
			"building": "B1", "floor": "F1", "room": "R1",
			"sensorUID": "S1", "sensorType": "temperatureSensor",
			"gatewayUID": "G1", "timeInterval": "900",
		},
		{
			"building": "B1", "floor": "F1", "room": "R1",
			"sensorUID": "S2", "sensorType": "co2Sensor",
			"gatewayUID": "G1", "timeInterval": "900",
		},
	}
}

func TestTransformMergesSharedAncestors(t *testing.T) {
	eng, err := NewEngine(testConfig(), newStubDataset(t))
	require.NoError(t, err)

	h, stats, err := eng.Transform(context.Background(), sampleRecords())
	require.NoError(t, err)

	// Two records in the same room must share one building, floor, room
	// and gateway while keeping two sensors.
	counts := h.Counts()
	assert.Equal(t, 1, counts.Buildings)
	assert.Equal(t, 2, counts.SpatialUnits)
	assert.Equal(t, 2, counts.Sensors)
	assert.Equal(t, 1, counts.Gateways)
	assert.Equal(t, 2, counts.Measurements)
	assert.Equal(t, 2, counts.TimeIntervals)

	assert.Equal(t, 2, stats.Processed)
	assert.Zero(t, stats.Skipped)
	assert.Zero(t, stats.Failed)
	assert.NotEmpty(t, stats.RunID)

	// Both sensors hang off the same room.
	room := h.SpatialUnits()[1]
	assert.Equal(t, entity.UnitRoom, room.Kind)
	assert.Len(t, h.Children(room.URI), 2)

	// One gateway link per sensor.
	assert.Len(t, h.GatewayLinks(), 2)
}

func TestTransformIsDeterministic(t *testing.T) {
	run := func() *entity.Hierarchy {
		eng, err := NewEngine(testConfig(), newStubDataset(t))
		require.NoError(t, err)
		h, _, err := eng.Transform(context.Background(), sampleRecords())
		require.NoError(t, err)
		return h
	}

	first, second := run(), run()
	require.Equal(t, first.Counts(), second.Counts())
	for i, s := range first.Sensors() {
		assert.Equal(t, s.URI, second.Sensors()[i].URI)
	}
}

func TestTransformSkipsInvalidRecords(t *testing.T) {
	records := append(sampleRecords(), config.Record{
		// Missing sensorUID and sensorType.
		"building": "B1", "floor": "F1",
	})

	eng, err := NewEngine(testConfig(), newStubDataset(t))
	require.NoError(t, err)

	h, stats, err := eng.Transform(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, 1, stats.Skipped)
	require.Len(t, stats.Results, 1)
	assert.Equal(t, OutcomeSkipped, stats.Results[0].Outcome)
	assert.Equal(t, 2, h.Counts().Sensors)
}

func TestTransformStrictValidationAborts(t *testing.T) {
	cfg := testConfig()
	cfg.StrictValidation = true
	records := append(sampleRecords(), config.Record{"building": "B1"})

	eng, err := NewEngine(cfg, newStubDataset(t))
	require.NoError(t, err)

	_, _, err = eng.Transform(context.Background(), records)
	require.Error(t, err)
	assert.True(t, errors.IsMissingField(err))
}

func TestTransformUnsupportedSensorTypeSkips(t *testing.T) {
	records := []config.Record{{
		"building": "B1", "sensorUID": "S9", "sensorType": "warpCoreSensor",
	}}

	eng, err := NewEngine(testConfig(), newStubDataset(t))
	require.NoError(t, err)

	_, stats, err := eng.Transform(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Skipped)
}

func TestTransformConflictFailsRecord(t *testing.T) {
	records := sampleRecords()
	records[0]["vendor"] = "acme"
	conflicting := config.Record{
		"building": "B1", "floor": "F1", "room": "R1",
		"sensorUID": "S1", "sensorType": "temperatureSensor",
		"vendor": "globex",
	}

	eng, err := NewEngine(testConfig(), newStubDataset(t))
	require.NoError(t, err)

	h, stats, err := eng.Transform(context.Background(), append(records, conflicting))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	require.Len(t, stats.Results, 1)
	assert.Equal(t, OutcomeFailed, stats.Results[0].Outcome)
	assert.Equal(t, "acme", h.Sensor(h.Sensors()[0].URI).VendorName)
}

func TestTransformFailedRecordContributesNothing(t *testing.T) {
	records := sampleRecords()
	records[0]["vendor"] = "acme"
	// Conflicts on S1's vendor and also brings a room the other records
	// never mention; the room must not survive the failed merge.
	conflicting := config.Record{
		"building": "B1", "floor": "F1", "room": "R9",
		"sensorUID": "S1", "sensorType": "temperatureSensor",
		"vendor": "globex",
	}

	eng, err := NewEngine(testConfig(), newStubDataset(t))
	require.NoError(t, err)

	h, stats, err := eng.Transform(context.Background(), append(records, conflicting))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 2, h.Counts().SpatialUnits)
	for _, u := range h.SpatialUnits() {
		assert.NotEqual(t, "R9", u.Code)
	}
}

func TestTransformConflictAbortsUnderStrict(t *testing.T) {
	cfg := testConfig()
	cfg.StrictValidation = true

	records := sampleRecords()
	records[0]["vendor"] = "acme"
	conflicting := config.Record{
		"building": "B1", "floor": "F1", "room": "R1",
		"sensorUID": "S1", "sensorType": "temperatureSensor",
		"vendor": "globex",
	}

	eng, err := NewEngine(cfg, newStubDataset(t))
	require.NoError(t, err)

	_, _, err = eng.Transform(context.Background(), append(records, conflicting))
	require.Error(t, err)
	assert.True(t, errors.IsTransform(err))
}

func TestTransformLastWriteWins(t *testing.T) {
	cfg := testConfig()
	cfg.LastWriteWins = true

	records := sampleRecords()
	records[0]["vendor"] = "acme"
	conflicting := config.Record{
		"building": "B1", "floor": "F1", "room": "R1",
		"sensorUID": "S1", "sensorType": "temperatureSensor",
		"vendor": "globex",
	}

	eng, err := NewEngine(cfg, newStubDataset(t))
	require.NoError(t, err)

	h, stats, err := eng.Transform(context.Background(), append(records, conflicting))
	require.NoError(t, err)
	assert.Zero(t, stats.Failed)
	assert.Equal(t, "globex", h.Sensors()[0].VendorName)
}

func TestTransformParallelMatchesSequential(t *testing.T) {
	records := sampleRecords()
	for _, extra := range []string{"S3", "S4", "S5", "S6"} {
		records = append(records, config.Record{
			"building": "B1", "floor": "F2", "room": "R2",
			"sensorUID": extra, "sensorType": "co2Sensor",
		})
	}

	seqEng, err := NewEngine(testConfig(), newStubDataset(t))
	require.NoError(t, err)
	seq, _, err := seqEng.Transform(context.Background(), records)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Workers = 4
	parEng, err := NewEngine(cfg, newStubDataset(t))
	require.NoError(t, err)
	par, _, err := parEng.Transform(context.Background(), records)
	require.NoError(t, err)

	require.Equal(t, seq.Counts(), par.Counts())
	for i, s := range seq.Sensors() {
		assert.Equal(t, s.URI, par.Sensors()[i].URI)
	}
}

func TestTransformHonorsFeatureFlags(t *testing.T) {
	cfg := testConfig()
	cfg.CreateTimeIntervals = false
	cfg.CreateGatewayRelationships = false

	eng, err := NewEngine(cfg, newStubDataset(t))
	require.NoError(t, err)

	h, _, err := eng.Transform(context.Background(), sampleRecords())
	require.NoError(t, err)

	counts := h.Counts()
	// Gateway entities survive; only the subsystem links are suppressed.
	assert.Equal(t, 1, counts.Gateways)
	assert.Empty(t, h.GatewayLinks())
	assert.Zero(t, counts.TimeIntervals)
	// Measurements survive, but without phenomenon time.
	assert.Equal(t, 2, counts.Measurements)
	for _, m := range h.Measurements() {
		assert.Empty(t, m.IntervalURI)
	}
}

func TestTransformKeepsGatewaysWithoutRelationships(t *testing.T) {
	cfg := testConfig()
	cfg.CreateGatewayRelationships = false

	eng, err := NewEngine(cfg, newStubDataset(t))
	require.NoError(t, err)

	h, _, err := eng.Transform(context.Background(), sampleRecords())
	require.NoError(t, err)

	gws := h.Gateways()
	require.Len(t, gws, 1)
	assert.Equal(t, "G1", gws[0].GatewayUID)
	assert.Empty(t, h.GatewayLinks())
}

func TestTransformCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng, err := NewEngine(testConfig(), newStubDataset(t))
	require.NoError(t, err)

	_, _, err = eng.Transform(ctx, sampleRecords())
	require.Error(t, err)
}

func TestNewEngineRequiresConfigAndDataset(t *testing.T) {
	_, err := NewEngine(nil, newStubDataset(t))
	assert.True(t, errors.IsConfig(err))

	_, err = NewEngine(testConfig(), nil)
	assert.True(t, errors.IsConfig(err))
}
