package config

import "sort"

// Record is one flat input record: arbitrary key/value data as decoded
// from the dataset. Field names are only ever interpreted through the
// field-category tables; the engine has no hardcoded dataset field names.
type Record map[string]any

// Get returns the value of a dataset field, honoring the null-handling
// flags: a null value is reported as absent when IgnoreNullValues is set.
// The second return reports whether a usable value was present.
func (c *Config) Get(record Record, datasetField string) (any, bool) {
	val, ok := record[datasetField]
	if !ok {
		return nil, false
	}
	if val == nil {
		if c.IgnoreNullValues {
			return nil, false
		}
		return nil, true
	}
	return val, true
}

// Extract pulls all bound fields of one category from a record, keyed by
// canonical field name. Missing and (per flags) null values are omitted.
func (c *Config) Extract(record Record, category string) map[string]any {
	result := make(map[string]any)
	for canonical, datasetField := range c.FieldCategories[category] {
		if val, ok := c.Get(record, datasetField); ok && val != nil {
			result[canonical] = val
		}
	}
	return result
}

// ExtractString is Extract for a single canonical field, coerced to
// string. Non-string scalars are not coerced; only string values count.
func (c *Config) ExtractString(record Record, category, canonical string) string {
	datasetField := c.FieldName(category, canonical)
	if datasetField == "" {
		return ""
	}
	val, ok := c.Get(record, datasetField)
	if !ok || val == nil {
		return ""
	}
	s, _ := val.(string)
	return s
}

// RecordValidation is the result of checking one record against the
// required-field list.
type RecordValidation struct {
	Valid   bool
	Missing []string // required canonical fields absent from the record
	Null    []string // required canonical fields present but null
}

// ValidateRecord checks that every required canonical field is present
// (and non-null, unless nulls are ignored) on the record. With
// IgnoreMissingFields unset, every bound field must be present, not
// just the required ones.
func (c *Config) ValidateRecord(record Record) RecordValidation {
	out := RecordValidation{Valid: true}

	for _, canonical := range c.RequiredFields {
		datasetField := c.lookupFieldName(canonical)
		if datasetField == "" {
			// Required but unbound in the field tables: the record cannot
			// possibly satisfy it.
			out.Missing = append(out.Missing, canonical)
			out.Valid = false
			continue
		}

		val, present := record[datasetField]
		if !present {
			out.Missing = append(out.Missing, canonical)
			out.Valid = false
			continue
		}
		if val == nil && !c.IgnoreNullValues {
			out.Null = append(out.Null, canonical)
			out.Valid = false
		}
	}

	if !c.IgnoreMissingFields {
		required := make(map[string]bool, len(c.RequiredFields))
		for _, canonical := range c.RequiredFields {
			required[canonical] = true
		}
		var absent []string
		for _, table := range c.FieldCategories {
			for canonical, datasetField := range table {
				if required[canonical] {
					continue
				}
				if _, present := record[datasetField]; !present {
					absent = append(absent, canonical)
				}
			}
		}
		if len(absent) > 0 {
			sort.Strings(absent)
			out.Missing = append(out.Missing, absent...)
			out.Valid = false
		}
	}

	return out
}

// lookupFieldName finds the dataset field bound to a canonical name in
// any category.
func (c *Config) lookupFieldName(canonical string) string {
	for _, table := range c.FieldCategories {
		if raw, ok := table[canonical]; ok {
			return raw
		}
	}
	return ""
}
