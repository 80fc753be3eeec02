package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load([]byte(validJSON))
	require.NoError(t, err)
	return cfg
}

func TestGetHonorsNullHandling(t *testing.T) {
	cfg := testConfig(t)
	record := Record{"Building": "EV", "Floor": nil}

	val, ok := cfg.Get(record, "Building")
	assert.True(t, ok)
	assert.Equal(t, "EV", val)

	// Null with ignore_null_values=true reads as absent.
	_, ok = cfg.Get(record, "Floor")
	assert.False(t, ok)

	cfg.IgnoreNullValues = false
	val, ok = cfg.Get(record, "Floor")
	assert.True(t, ok)
	assert.Nil(t, val)

	_, ok = cfg.Get(record, "NotThere")
	assert.False(t, ok)
}

func TestExtract(t *testing.T) {
	cfg := testConfig(t)
	record := Record{
		"Building":  "EV",
		"Floor":     "EV-7",
		"MainRoom":  "EV-7.640",
		"Zone":      nil,
		"SensorUID": "S1",
		"Unrelated": "ignored",
	}

	spatial := cfg.Extract(record, CategorySpatial)
	assert.Equal(t, map[string]any{
		"building": "EV",
		"floor":    "EV-7",
		"mainRoom": "EV-7.640",
	}, spatial)

	sensor := cfg.Extract(record, CategorySensor)
	assert.Equal(t, map[string]any{"sensorUID": "S1"}, sensor)

	// Unknown category extracts nothing.
	assert.Empty(t, cfg.Extract(record, "bogus"))
}

func TestExtractString(t *testing.T) {
	cfg := testConfig(t)
	record := Record{"SensorUID": "S1", "GatewayUID": 42}

	assert.Equal(t, "S1", cfg.ExtractString(record, CategorySensor, "sensorUID"))
	// Non-string scalar is not coerced.
	assert.Empty(t, cfg.ExtractString(record, CategorySensor, "gatewayUID"))
	// Unbound canonical field.
	assert.Empty(t, cfg.ExtractString(record, CategorySensor, "vendorName"))
}

func TestValidateRecord(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		name        string
		record      Record
		valid       bool
		wantMissing []string
	}{
		{
			name:   "all required present",
			record: Record{"SensorUID": "S1", "Building": "EV", "SensorType": "co2Sensor"},
			valid:  true,
		},
		{
			name:        "missing sensor uid",
			record:      Record{"Building": "EV", "SensorType": "co2Sensor"},
			valid:       false,
			wantMissing: []string{"sensorUID"},
		},
		{
			name:        "missing everything",
			record:      Record{},
			valid:       false,
			wantMissing: []string{"sensorUID", "building", "sensorType"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cfg.ValidateRecord(tt.record)
			assert.Equal(t, tt.valid, result.Valid)
			assert.Equal(t, tt.wantMissing, result.Missing)
		})
	}
}

func TestValidateRecordMissingFieldHandling(t *testing.T) {
	cfg := testConfig(t)
	record := Record{"SensorUID": "S1", "Building": "EV", "SensorType": "co2Sensor", "Floor": "EV-7"}

	// ignore_missing_fields=true tolerates absent optional fields.
	result := cfg.ValidateRecord(record)
	assert.True(t, result.Valid)

	cfg.IgnoreMissingFields = false
	result = cfg.ValidateRecord(record)
	assert.False(t, result.Valid)
	assert.Equal(t,
		[]string{"gatewayUID", "mainRoom", "postalCode", "room", "streetName", "streetNumber", "zone"},
		result.Missing)
}

func TestValidateRecordNullHandling(t *testing.T) {
	cfg := testConfig(t)
	record := Record{"SensorUID": nil, "Building": "EV", "SensorType": "co2Sensor"}

	// ignore_null_values=true tolerates a null required value.
	result := cfg.ValidateRecord(record)
	assert.True(t, result.Valid)

	cfg.IgnoreNullValues = false
	result = cfg.ValidateRecord(record)
	assert.False(t, result.Valid)
	assert.Equal(t, []string{"sensorUID"}, result.Null)
}
