package config

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/shahin-smv93/ontology-graph-db/errors"
)

// metaSchema is the JSON meta-schema every configuration document is
// checked against before unmarshaling. It rejects structurally broken
// documents early with field-level messages; semantic checks (vocabulary
// membership, URI shape) live in Config.Validate.
const metaSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Ontology mapping configuration",
  "type": "object",
  "required": ["base_namespace"],
  "properties": {
    "base_namespace": {"type": "string", "minLength": 1},
    "input_data_path": {"type": "string"},
    "output_transformed_path": {"type": "string"},
    "output_rdf_path": {"type": "string"},
    "output_debug_path": {"type": "string"},
    "required_fields": {
      "type": "array",
      "items": {"type": "string", "minLength": 1}
    },
    "field_categories": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "additionalProperties": {"type": "string"}
      }
    },
    "custom_namespaces": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    },
    "enable_debug": {"type": "boolean"},
    "validate_data": {"type": "boolean"},
    "create_time_intervals": {"type": "boolean"},
    "create_gateway_relationships": {"type": "boolean"},
    "ignore_null_values": {"type": "boolean"},
    "ignore_missing_fields": {"type": "boolean"},
    "strict_validation": {"type": "boolean"},
    "last_write_wins": {"type": "boolean"},
    "workers": {"type": "integer", "minimum": 0}
  },
  "additionalProperties": false
}`

// validateSchema validates a raw JSON configuration document against the
// embedded meta-schema.
func validateSchema(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(metaSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &errors.ConfigError{Field: "config document", Err: err}
	}

	if !result.Valid() {
		var b strings.Builder
		for i, desc := range result.Errors() {
			if i > 0 {
				b.WriteString("; ")
			}
			fmt.Fprintf(&b, "%s: %s", desc.Field(), desc.Description())
		}
		return errors.NewConfigError("config document", b.String())
	}

	return nil
}
