package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorClass_String(t *testing.T) {
	tests := []struct {
		class    ErrorClass
		expected string
	}{
		{ErrorConfig, "configuration"},
		{ErrorValidation, "validation"},
		{ErrorTransform, "transformation"},
		{ErrorMapping, "mapping"},
		{ErrorClass(999), "unknown"},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			result := test.class.String()
			if result != test.expected {
				t.Errorf("expected %s, got %s", test.expected, result)
			}
		})
	}
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("base_namespace", "must be a valid URI")

	if !IsConfig(err) {
		t.Error("expected IsConfig to be true")
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Error("expected errors.Is(err, ErrInvalidConfig)")
	}
	if got := err.Error(); got != `configuration error in "base_namespace": must be a valid URI` {
		t.Errorf("unexpected message: %s", got)
	}

	// Wrapping preserves identification
	wrapped := fmt.Errorf("load: %w", err)
	if !IsConfig(wrapped) {
		t.Error("expected IsConfig to survive wrapping")
	}
}

func TestMissingFieldError(t *testing.T) {
	err := NewMissingFieldError("sensor", "sensorUID", "record-12")

	if !IsMissingField(err) {
		t.Error("expected IsMissingField to be true")
	}
	if !errors.Is(err, ErrMissingField) {
		t.Error("expected errors.Is(err, ErrMissingField)")
	}

	var mf *MissingFieldError
	if !errors.As(err, &mf) {
		t.Fatal("expected errors.As to extract MissingFieldError")
	}
	if mf.EntityType != "sensor" || mf.Field != "sensorUID" {
		t.Errorf("unexpected fields: %+v", mf)
	}
}

func TestConflictError(t *testing.T) {
	err := NewConflictError("http://example.org/sensor/S1", "vendorName")

	if !IsTransform(err) {
		t.Error("expected IsTransform to be true")
	}
	if !errors.Is(err, ErrConflictingValue) {
		t.Error("expected errors.Is(err, ErrConflictingValue)")
	}
	if IsMissingField(err) {
		t.Error("conflict error must not classify as missing field")
	}
}

func TestMappingError(t *testing.T) {
	err := NewMappingError("http://example.org/building/B1", "address_uri", ErrMissingRelation)

	if !IsMapping(err) {
		t.Error("expected IsMapping to be true")
	}
	if !errors.Is(err, ErrMissingRelation) {
		t.Error("expected errors.Is(err, ErrMissingRelation)")
	}

	var me *MappingError
	if !errors.As(err, &me) {
		t.Fatal("expected errors.As to extract MappingError")
	}
	if me.Entity != "http://example.org/building/B1" {
		t.Errorf("unexpected entity: %s", me.Entity)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorClass
	}{
		{"config error", NewConfigError("flags", "bad"), ErrorConfig},
		{"missing field", NewMissingFieldError("building", "building", ""), ErrorValidation},
		{"mapping error", NewMappingError("x", "y", nil), ErrorMapping},
		{"conflict", NewConflictError("x", "label"), ErrorTransform},
		{"plain error", errors.New("boom"), ErrorTransform},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Classify(test.err); got != test.expected {
				t.Errorf("expected %s, got %s", test.expected, got)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	base := errors.New("boom")

	if Wrap(nil, "Transformer", "Transform", "merge") != nil {
		t.Error("wrapping nil must return nil")
	}

	err := Wrap(base, "Transformer", "Transform", "merge")
	expected := "Transformer.Transform: merge failed: boom"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, base) {
		t.Error("wrapped error must match base via errors.Is")
	}
}

func TestWrapClassified(t *testing.T) {
	base := errors.New("boom")

	cfgErr := WrapConfig(base, "Config", "Load", "schema check")
	if !IsConfig(cfgErr) {
		t.Error("WrapConfig must classify as configuration")
	}

	mapErr := WrapMapping(base, "Mapper", "Map", "building triples")
	if !IsMapping(mapErr) {
		t.Error("WrapMapping must classify as mapping")
	}

	var ce *ClassifiedError
	if !errors.As(mapErr, &ce) {
		t.Fatal("expected ClassifiedError in chain")
	}
	if ce.Component != "Mapper" || ce.Operation != "Map" {
		t.Errorf("unexpected context: %+v", ce)
	}
}
