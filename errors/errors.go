// Package errors provides standardized error handling patterns for the
// ontology mapping pipeline. It includes error classification, standard
// error variables, typed errors carrying entity context, and helper
// functions for consistent error wrapping across the system.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorClass represents the classification of errors for handling purposes.
type ErrorClass int

const (
	// ErrorConfig represents configuration errors. These are always fatal
	// and abort a run before any record is processed.
	ErrorConfig ErrorClass = iota
	// ErrorValidation represents a missing or ill-typed required field on a
	// record or entity. Fatal under strict validation, otherwise scoped to
	// the offending record.
	ErrorValidation
	// ErrorTransform represents conflicting attribute values for one
	// resolved identity, or a malformed descriptor shape.
	ErrorTransform
	// ErrorMapping represents an ontology mapping failure: a URI that
	// cannot be resolved or a required relation target that is absent.
	// Aborts the affected entity's triple batch only.
	ErrorMapping
)

// String returns the string representation of ErrorClass.
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorConfig:
		return "configuration"
	case ErrorValidation:
		return "validation"
	case ErrorTransform:
		return "transformation"
	case ErrorMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Standard error variables for common conditions.
var (
	// Configuration errors
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrMissingNamespace = errors.New("base namespace is required")
	ErrUnknownField     = errors.New("unknown canonical field name")

	// Data errors
	ErrInvalidData      = errors.New("invalid data format")
	ErrEmptyInput       = errors.New("no input records")
	ErrMissingField     = errors.New("missing required field")
	ErrConflictingValue = errors.New("conflicting attribute value")

	// Mapping errors
	ErrUnresolvableURI   = errors.New("cannot resolve entity URI")
	ErrMissingRelation   = errors.New("required relation target missing")
	ErrUnsupportedSensor = errors.New("unsupported sensor type")
)

// ClassifiedError wraps an error with its classification and the pipeline
// context it occurred in.
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface.
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error.
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// ConfigError reports a bad or incomplete mapping configuration.
// It always aborts the run before any record is processed.
type ConfigError struct {
	Field  string // offending configuration field, if known
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("configuration error")
	if e.Field != "" {
		fmt.Fprintf(&b, " in %q", e.Field)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidConfig
}

// NewConfigError creates a ConfigError for the given field and reason.
func NewConfigError(field, reason string) *ConfigError {
	return &ConfigError{Field: field, Reason: reason}
}

// MissingFieldError reports a required identifying or data field that is
// absent on a record or entity. Fatal under strict validation, otherwise
// the offending record is skipped.
type MissingFieldError struct {
	EntityType string // e.g. "building", "sensor"
	Field      string // canonical field name
	RecordID   string // best-effort record identifier for diagnostics
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	msg := fmt.Sprintf("missing required field %q for %s", e.Field, e.EntityType)
	if e.RecordID != "" {
		msg += fmt.Sprintf(" (record %s)", e.RecordID)
	}
	return msg
}

// Unwrap makes the error match ErrMissingField via errors.Is.
func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// NewMissingFieldError creates a MissingFieldError.
func NewMissingFieldError(entityType, field, recordID string) *MissingFieldError {
	return &MissingFieldError{EntityType: entityType, Field: field, RecordID: recordID}
}

// TransformError reports conflicting attribute values for one resolved
// identity, or a malformed descriptor shape.
type TransformError struct {
	Identity  string // resolved entity identity (URI)
	Attribute string // attribute in conflict, if applicable
	Reason    string
	Err       error
}

// Error implements the error interface.
func (e *TransformError) Error() string {
	var b strings.Builder
	b.WriteString("transformation error")
	if e.Identity != "" {
		fmt.Fprintf(&b, " for %s", e.Identity)
	}
	if e.Attribute != "" {
		fmt.Fprintf(&b, " (attribute %q)", e.Attribute)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *TransformError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidData
}

// NewConflictError creates a TransformError for conflicting attribute values
// on the same resolved identity.
func NewConflictError(identity, attribute string) *TransformError {
	return &TransformError{
		Identity:  identity,
		Attribute: attribute,
		Err:       ErrConflictingValue,
	}
}

// MappingError reports an ontology mapping failure naming the offending
// entity and missing field. The mapper aborts the affected entity's triple
// batch but may continue with unrelated entities.
type MappingError struct {
	Entity string // identity of the entity whose batch failed
	Field  string // missing field or relation, if known
	Err    error
}

// Error implements the error interface.
func (e *MappingError) Error() string {
	var b strings.Builder
	b.WriteString("ontology mapping error")
	if e.Entity != "" {
		fmt.Fprintf(&b, " for %s", e.Entity)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " (field %q)", e.Field)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *MappingError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnresolvableURI
}

// NewMappingError creates a MappingError.
func NewMappingError(entity, field string, err error) *MappingError {
	return &MappingError{Entity: entity, Field: field, Err: err}
}

// IsConfig checks if an error is a configuration error.
func IsConfig(err error) bool {
	if err == nil {
		return false
	}
	var ce *ConfigError
	if errors.As(err, &ce) {
		return true
	}
	var cl *ClassifiedError
	if errors.As(err, &cl) {
		return cl.Class == ErrorConfig
	}
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrMissingNamespace) ||
		errors.Is(err, ErrUnknownField)
}

// IsMissingField checks if an error stems from a missing required field.
func IsMissingField(err error) bool {
	if err == nil {
		return false
	}
	var mf *MissingFieldError
	if errors.As(err, &mf) {
		return true
	}
	return errors.Is(err, ErrMissingField)
}

// IsTransform checks if an error is a data transformation error.
func IsTransform(err error) bool {
	if err == nil {
		return false
	}
	var te *TransformError
	if errors.As(err, &te) {
		return true
	}
	var cl *ClassifiedError
	if errors.As(err, &cl) {
		return cl.Class == ErrorTransform
	}
	return errors.Is(err, ErrConflictingValue)
}

// IsMapping checks if an error is an ontology mapping error.
func IsMapping(err error) bool {
	if err == nil {
		return false
	}
	var me *MappingError
	if errors.As(err, &me) {
		return true
	}
	var cl *ClassifiedError
	if errors.As(err, &cl) {
		return cl.Class == ErrorMapping
	}
	return errors.Is(err, ErrUnresolvableURI) || errors.Is(err, ErrMissingRelation)
}

// Classify returns the error class for an error.
func Classify(err error) ErrorClass {
	switch {
	case IsConfig(err):
		return ErrorConfig
	case IsMissingField(err):
		return ErrorValidation
	case IsMapping(err):
		return ErrorMapping
	default:
		return ErrorTransform
	}
}

// newClassified creates a new classified error.
// This is an internal helper - use WrapConfig(), WrapTransform(), or
// WrapMapping() instead.
func newClassified(class ErrorClass, err error, component, operation, message string) *ClassifiedError {
	return &ClassifiedError{
		Class:     class,
		Err:       err,
		Message:   message,
		Component: component,
		Operation: operation,
	}
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapConfig wraps an error as a configuration error with context.
func WrapConfig(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorConfig, wrappedErr, component, method, wrappedErr.Error())
}

// WrapTransform wraps an error as a transformation error with context.
func WrapTransform(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorTransform, wrappedErr, component, method, wrappedErr.Error())
}

// WrapMapping wraps an error as a mapping error with context.
func WrapMapping(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorMapping, wrappedErr, component, method, wrappedErr.Error())
}
