package transform

import (
	"fmt"
	"strings"

	"github.com/shahin-smv93/ontology-graph-db/config"
	"github.com/shahin-smv93/ontology-graph-db/errors"
	"github.com/shahin-smv93/ontology-graph-db/vocabulary"
)

// Validator checks records against the mapping configuration before
// extraction: required fields must be present and any declared sensor
// type must have a measured-property binding.
type Validator struct {
	cfg *config.Config
}

// NewValidator returns a validator for the given configuration.
func NewValidator(cfg *config.Config) *Validator {
	return &Validator{cfg: cfg}
}

// Check returns nil when the record is usable. A failed check returns a
// MissingFieldError or an ErrUnsupportedSensor-wrapped error; the engine
// decides whether that skips the record or aborts the run.
func (v *Validator) Check(rec config.Record) error {
	res := v.cfg.ValidateRecord(rec)
	if !res.Valid {
		missing := append(res.Missing, res.Null...)
		return errors.NewMissingFieldError("record", strings.Join(missing, ", "), recordID(v.cfg, rec))
	}

	sensorType := v.cfg.ExtractString(rec, config.CategorySensor, "sensorType")
	if sensorType != "" && !vocabulary.IsSupportedSensorType(sensorType) {
		return errors.WrapTransform(
			fmt.Errorf("%w: %q", errors.ErrUnsupportedSensor, sensorType),
			"Validator", "Check", "resolve sensor type")
	}
	return nil
}

// recordID derives a stable identifier for log and error messages,
// preferring the sensor UID the way the source data is keyed.
func recordID(cfg *config.Config, rec config.Record) string {
	if id := cfg.ExtractString(rec, config.CategorySensor, "sensorUID"); id != "" {
		return id
	}
	if id := cfg.ExtractString(rec, config.CategorySensor, "sensorId"); id != "" {
		return id
	}
	return ""
}
