package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shahin-smv93/ontology-graph-db/errors"
)

const (
	uriB1 = "http://example.org/building/B1"
	uriF1 = "http://example.org/floor/B1_F1"
	uriR1 = "http://example.org/room/B1_F1_R1"
	uriS1 = "http://example.org/sensor/S1"
	uriS2 = "http://example.org/sensor/S2"
	uriG1 = "http://example.org/gateway/G1"
)

func TestHierarchyInsertThenMerge(t *testing.T) {
	h := NewHierarchy(false)

	first, err := h.AddBuilding(&Building{URI: uriB1, Code: "B1"})
	require.NoError(t, err)

	// Second contribution fills the label and must return the same node.
	second, err := h.AddBuilding(&Building{URI: uriB1, Label: "Hall Building"})
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, "B1", second.Code)
	assert.Equal(t, "Hall Building", second.Label)
	assert.Equal(t, 1, h.Counts().Buildings)
}

func TestHierarchyMergeConflict(t *testing.T) {
	h := NewHierarchy(false)

	_, err := h.AddSensor(&Sensor{URI: uriS1, SensorUID: "S1", VendorName: "acme"})
	require.NoError(t, err)

	_, err = h.AddSensor(&Sensor{URI: uriS1, VendorName: "globex"})
	require.Error(t, err)
	assert.True(t, errors.IsTransform(err))

	// The stored value is untouched after a rejected merge.
	assert.Equal(t, "acme", h.Sensor(uriS1).VendorName)
}

func TestHierarchyCheckNeverMutates(t *testing.T) {
	h := NewHierarchy(false)

	_, err := h.AddSensor(&Sensor{URI: uriS1, SensorUID: "S1", VendorName: "acme"})
	require.NoError(t, err)

	// A conflicting candidate is reported but nothing changes.
	err = h.CheckSensor(&Sensor{URI: uriS1, VendorName: "globex"})
	require.Error(t, err)
	assert.True(t, errors.IsTransform(err))
	assert.Equal(t, "acme", h.Sensor(uriS1).VendorName)

	// A compatible candidate passes the check without being applied.
	require.NoError(t, h.CheckSensor(&Sensor{URI: uriS1, SensorType: "co2Sensor"}))
	assert.Empty(t, h.Sensor(uriS1).SensorType)

	// Unknown identities cannot conflict.
	require.NoError(t, h.CheckSensor(&Sensor{URI: uriS2, VendorName: "globex"}))
	assert.Equal(t, 1, h.Counts().Sensors)
}

func TestHierarchyLastWriteWins(t *testing.T) {
	h := NewHierarchy(true)

	_, err := h.AddSensor(&Sensor{URI: uriS1, VendorName: "acme"})
	require.NoError(t, err)
	_, err = h.AddSensor(&Sensor{URI: uriS1, VendorName: "globex"})
	require.NoError(t, err)
	assert.Equal(t, "globex", h.Sensor(uriS1).VendorName)
}

func TestHierarchyEmptyNeverOverwrites(t *testing.T) {
	h := NewHierarchy(true)

	_, err := h.AddGateway(&Gateway{URI: uriG1, GatewayUID: "G1"})
	require.NoError(t, err)
	_, err = h.AddGateway(&Gateway{URI: uriG1})
	require.NoError(t, err)
	assert.Equal(t, "G1", h.Gateway(uriG1).GatewayUID)
}

func TestAttachChildIdempotent(t *testing.T) {
	h := NewHierarchy(false)

	h.AttachChild(uriF1, uriR1)
	h.AttachChild(uriF1, uriR1)
	h.AttachChild(uriF1, uriS1)

	assert.Equal(t, []string{uriR1, uriS1}, h.Children(uriF1))

	// Self-attachment and empty identities are ignored.
	h.AttachChild(uriF1, uriF1)
	h.AttachChild("", uriR1)
	assert.Len(t, h.Children(uriF1), 2)
}

func TestGatewayLinksDeduplicate(t *testing.T) {
	h := NewHierarchy(false)

	h.LinkGatewaySensor(uriG1, uriS1)
	h.LinkGatewaySensor(uriG1, uriS1)
	h.LinkGatewaySensor(uriG1, uriS2)

	assert.Equal(t, [][2]string{{uriG1, uriS1}, {uriG1, uriS2}}, h.GatewayLinks())
}

func TestSpatialUnitsCoarsestFirst(t *testing.T) {
	h := NewHierarchy(false)

	// Insert finest-first to prove ordering does not rely on input order.
	_, err := h.AddSpatialUnit(&SpatialUnit{URI: uriR1, Code: "R1", Kind: UnitRoom, ParentURI: uriF1})
	require.NoError(t, err)
	_, err = h.AddSpatialUnit(&SpatialUnit{URI: uriF1, Code: "F1", Kind: UnitFloor, ParentURI: uriB1})
	require.NoError(t, err)

	units := h.SpatialUnits()
	require.Len(t, units, 2)
	assert.Equal(t, UnitFloor, units[0].Kind)
	assert.Equal(t, UnitRoom, units[1].Kind)
}

func TestTraversalOrderIsStable(t *testing.T) {
	h := NewHierarchy(false)

	uris := []string{uriS2, uriS1}
	for _, uri := range uris {
		_, err := h.AddSensor(&Sensor{URI: uri})
		require.NoError(t, err)
	}
	// Re-adding must not change the established order.
	_, err := h.AddSensor(&Sensor{URI: uriS2})
	require.NoError(t, err)

	got := make([]string, 0, 2)
	for _, s := range h.Sensors() {
		got = append(got, s.URI)
	}
	assert.Equal(t, uris, got)
}

func TestExportNestsChildrenUnderBuilding(t *testing.T) {
	h := NewHierarchy(false)

	_, err := h.AddBuilding(&Building{URI: uriB1, Code: "B1"})
	require.NoError(t, err)
	_, err = h.AddSpatialUnit(&SpatialUnit{URI: uriF1, Code: "F1", Kind: UnitFloor, ParentURI: uriB1})
	require.NoError(t, err)
	_, err = h.AddSensor(&Sensor{URI: uriS1, SensorUID: "S1", ParentURI: uriF1})
	require.NoError(t, err)
	h.AttachChild(uriB1, uriF1)
	h.AttachChild(uriF1, uriS1)

	snap := h.Export()
	require.Len(t, snap.Buildings, 1)

	root := snap.Buildings[0]
	assert.Equal(t, KindBuilding, root.Kind)
	require.Len(t, root.Children, 1)
	assert.Equal(t, UnitFloor, root.Children[0].UnitKind)
	require.Len(t, root.Children[0].Children, 1)
	assert.Equal(t, KindSensor, root.Children[0].Children[0].Kind)
	assert.Equal(t, "S1", root.Children[0].Children[0].Attributes["sensor_uid"])

	data, err := json.Marshal(h)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sensor_uid":"S1"`)
}
