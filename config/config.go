// Package config provides the declarative mapping configuration that
// drives the hierarchical transformer and the ontology mapper.
//
// A configuration document names the base namespace, the input/output
// locations (opaque strings handed to I/O collaborators), the
// field-category tables translating dataset field names to the engine's
// canonical vocabulary, and the behavior flags. Once loaded and
// validated a Config is inert data; the engine never mutates it.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shahin-smv93/ontology-graph-db/errors"
)

// Field categories recognized by the engine.
const (
	CategorySpatial     = "spatial"
	CategorySensor      = "sensor"
	CategoryDesk        = "desk"
	CategoryMeasurement = "measurement"
	CategoryAddress     = "address"
)

// canonicalFields is the engine's fixed field vocabulary, per category.
// A field-category table may only bind these canonical names; anything
// else is a configuration error.
var canonicalFields = map[string]map[string]bool{
	CategorySpatial: {
		"building": true,
		"floor":    true,
		"mainRoom": true,
		"room":     true,
		"zone":     true,
	},
	CategorySensor: {
		"sensorUID":        true,
		"sensorId":         true,
		"sensorType":       true,
		"vendorName":       true,
		"installationDate": true,
		"gatewayUID":       true,
		"timeInterval":     true,
		"unit":             true,
	},
	CategoryDesk: {
		"deskID":          true,
		"deskDescription": true,
	},
	CategoryMeasurement: {
		"property":     true,
		"unit":         true,
		"value":        true,
		"timestamp":    true,
		"timeInterval": true,
	},
	CategoryAddress: {
		"streetName":   true,
		"streetNumber": true,
		"postalCode":   true,
	},
}

// Categories returns the recognized category names in sorted order.
func Categories() []string {
	cats := make([]string, 0, len(canonicalFields))
	for c := range canonicalFields {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

// CanonicalFields returns the canonical field names for a category in
// sorted order, or nil for an unknown category.
func CanonicalFields(category string) []string {
	fields, ok := canonicalFields[category]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(fields))
	for f := range fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}

// FieldCategories maps category name to a table of canonical field name
// to the dataset's raw field name.
type FieldCategories map[string]map[string]string

// Config is the complete mapping configuration for one dataset run.
type Config struct {
	// BaseNamespace is the organization namespace all entity URIs are
	// minted under (e.g. "http://concordia.ca"). Required.
	BaseNamespace string `json:"base_namespace"`

	// Input/output locations. Opaque to the core; resolved only by I/O
	// collaborators.
	InputDataPath         string `json:"input_data_path,omitempty"`
	OutputTransformedPath string `json:"output_transformed_path,omitempty"`
	OutputRDFPath         string `json:"output_rdf_path,omitempty"`
	OutputDebugPath       string `json:"output_debug_path,omitempty"`

	// RequiredFields lists canonical field names that must be present on
	// every record for it to enter the hierarchy.
	RequiredFields []string `json:"required_fields,omitempty"`

	// FieldCategories binds canonical field names to dataset field names,
	// grouped by category.
	FieldCategories FieldCategories `json:"field_categories,omitempty"`

	// CustomNamespaces adds prefix bindings beyond the standard ontology
	// set, e.g. {"ex": "http://example.org/"}.
	CustomNamespaces map[string]string `json:"custom_namespaces,omitempty"`

	// Behavior flags.
	EnableDebug                bool `json:"enable_debug"`
	ValidateData               bool `json:"validate_data"`
	CreateTimeIntervals        bool `json:"create_time_intervals"`
	CreateGatewayRelationships bool `json:"create_gateway_relationships"`
	IgnoreNullValues           bool `json:"ignore_null_values"`
	IgnoreMissingFields        bool `json:"ignore_missing_fields"`
	StrictValidation           bool `json:"strict_validation"`

	// LastWriteWins opts into overwrite semantics when two records carry
	// conflicting non-null values for the same resolved identity. The
	// default (false) treats such conflicts as transformation errors.
	LastWriteWins bool `json:"last_write_wins,omitempty"`

	// Workers bounds parallel per-record extraction. Zero or one means
	// sequential processing; the merge step is always serialized.
	Workers int `json:"workers,omitempty"`
}

// Default returns the default configuration. The base namespace has no
// sensible default and stays empty; Validate rejects it until set.
func Default() *Config {
	return &Config{
		OutputTransformedPath: "transformed_data.json",
		OutputRDFPath:         "ontology_output.ttl",
		OutputDebugPath:       "debug_output.ttl",
		RequiredFields:        []string{"sensorUID", "building", "sensorType"},
		FieldCategories: FieldCategories{
			CategorySpatial:     {},
			CategorySensor:      {},
			CategoryDesk:        {},
			CategoryMeasurement: {},
			CategoryAddress:     {},
		},
		EnableDebug:                true,
		ValidateData:               true,
		CreateTimeIntervals:        true,
		CreateGatewayRelationships: true,
		IgnoreNullValues:           true,
		IgnoreMissingFields:        true,
		StrictValidation:           false,
	}
}

// LoadFile loads a configuration document from a JSON or YAML file,
// validates it against the embedded meta-schema and the engine's field
// vocabulary, and returns the merged result over defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.ConfigError{Field: "config file", Err: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(data)
	default:
		return Load(data)
	}
}

// Load parses a JSON configuration document.
func Load(data []byte) (*Config, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, &errors.ConfigError{Field: "config document", Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadYAML parses a YAML configuration document. The document is
// converted to JSON first so schema validation and defaulting behave
// identically for both formats.
func LoadYAML(data []byte) (*Config, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &errors.ConfigError{Field: "config document", Err: err}
	}
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return nil, &errors.ConfigError{Field: "config document", Err: err}
	}
	return Load(jsonData)
}

// Validate checks the configuration against the engine's contract:
// a well-formed base namespace, known categories and canonical field
// names, and required fields drawn from the canonical vocabulary.
func (c *Config) Validate() error {
	ns := strings.TrimSpace(c.BaseNamespace)
	if ns == "" {
		return &errors.ConfigError{Field: "base_namespace", Err: errors.ErrMissingNamespace}
	}
	u, err := url.Parse(ns)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return errors.NewConfigError("base_namespace", fmt.Sprintf("%q is not an absolute URI", c.BaseNamespace))
	}

	for category, table := range c.FieldCategories {
		known, ok := canonicalFields[category]
		if !ok {
			return errors.NewConfigError("field_categories",
				fmt.Sprintf("unknown category %q (expected one of %s)",
					category, strings.Join(Categories(), ", ")))
		}
		for canonical, raw := range table {
			if !known[canonical] {
				return &errors.ConfigError{
					Field:  "field_categories." + category,
					Reason: fmt.Sprintf("canonical field %q is not in the engine vocabulary", canonical),
					Err:    errors.ErrUnknownField,
				}
			}
			if strings.TrimSpace(raw) == "" {
				return errors.NewConfigError("field_categories."+category,
					fmt.Sprintf("canonical field %q is bound to an empty dataset field", canonical))
			}
		}
	}

	for _, required := range c.RequiredFields {
		if !c.isCanonical(required) {
			return &errors.ConfigError{
				Field:  "required_fields",
				Reason: fmt.Sprintf("%q is not in the engine vocabulary", required),
				Err:    errors.ErrUnknownField,
			}
		}
	}

	for prefix, namespace := range c.CustomNamespaces {
		if strings.TrimSpace(prefix) == "" {
			return errors.NewConfigError("custom_namespaces", "prefix must not be empty")
		}
		nu, err := url.Parse(namespace)
		if err != nil || !nu.IsAbs() {
			return errors.NewConfigError("custom_namespaces",
				fmt.Sprintf("namespace for prefix %q is not an absolute URI", prefix))
		}
	}

	if c.Workers < 0 {
		return errors.NewConfigError("workers", "must not be negative")
	}

	return nil
}

// isCanonical reports whether a field name exists in any category of the
// engine vocabulary.
func (c *Config) isCanonical(field string) bool {
	for _, known := range canonicalFields {
		if known[field] {
			return true
		}
	}
	return false
}

// Namespace returns the base namespace without a trailing slash.
func (c *Config) Namespace() string {
	return strings.TrimRight(strings.TrimSpace(c.BaseNamespace), "/")
}

// FieldName returns the dataset's raw field name bound to a canonical
// field within a category, or empty string if unbound.
func (c *Config) FieldName(category, canonical string) string {
	table, ok := c.FieldCategories[category]
	if !ok {
		return ""
	}
	return table[canonical]
}

// String returns a JSON representation of the config.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
