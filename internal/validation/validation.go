// Package validation implements field-level checks for schema-described
// records. It is consumed by the store package, which turns the returned
// violations into its public error kinds.
package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/stowlabs/resourcestore/types"
)

// Presence distinguishes a field that was never supplied from one that was
// supplied as an explicit null. The distinction only exists transiently
// during input validation; stored records resolve every declared field to a
// concrete value or nil.
type Presence int

const (
	Absent Presence = iota
	Null
	Present
)

// FieldValue pairs a supplied value with its presence state.
type FieldValue struct {
	Presence Presence
	Value    any
}

// FieldOf reads a field from raw input data.
func FieldOf(data map[string]any, name string) FieldValue {
	v, ok := data[name]
	if !ok {
		return FieldValue{Presence: Absent}
	}
	if v == nil {
		return FieldValue{Presence: Null}
	}
	return FieldValue{Presence: Present, Value: v}
}

// Mode selects which checks apply.
type Mode int

const (
	// CreateMode enforces required-field presence plus type and enum checks
	CreateMode Mode = iota
	// UpdateMode skips required-field presence; partial updates need not
	// resupply fields already on the record
	UpdateMode
)

// ViolationKind classifies a single validation failure.
type ViolationKind int

const (
	MissingRequired ViolationKind = iota
	WrongType
	NotInEnum
	DuplicateID
)

// Violation describes one field-level validation failure.
type Violation struct {
	Field    string
	Kind     ViolationKind
	Expected types.FieldType // set for WrongType
	Allowed  []string        // set for NotInEnum
	Got      any
}

func (v Violation) String() string {
	switch v.Kind {
	case MissingRequired:
		return fmt.Sprintf("missing required field %q", v.Field)
	case WrongType:
		return fmt.Sprintf("field %q must be of type %s, got %T", v.Field, v.Expected, v.Got)
	case NotInEnum:
		return fmt.Sprintf("field %q must be one of [%s], got %v", v.Field, strings.Join(v.Allowed, ", "), v.Got)
	case DuplicateID:
		return fmt.Sprintf("id %v already exists", v.Got)
	default:
		return fmt.Sprintf("field %q is invalid", v.Field)
	}
}

// CheckFields validates input data against a resource definition. All
// violations are collected and reported jointly, not just the first.
// System-managed fields (id, createdAt, updatedAt) and fields not declared
// in the schema are never checked; the schema is not an allow-list.
func CheckFields(def types.ResourceDefinition, data map[string]any, mode Mode) []Violation {
	var violations []Violation

	if mode == CreateMode {
		// Deterministic reporting order for missing fields
		for _, name := range sortedFieldNames(def) {
			field := def.Fields[name]
			if !field.Required {
				continue
			}
			if FieldOf(data, name).Presence != Present {
				violations = append(violations, Violation{Field: name, Kind: MissingRequired})
			}
		}
	}

	for _, name := range sortedFieldNames(def) {
		field := def.Fields[name]
		fv := FieldOf(data, name)
		// Null and Absent carry nothing to type-check; a nil required
		// field was already reported as missing above
		if fv.Presence != Present {
			continue
		}
		if types.IsSystemField(name) {
			continue
		}
		if !TypeMatches(field.Type, fv.Value) {
			violations = append(violations, Violation{
				Field:    name,
				Kind:     WrongType,
				Expected: field.Type,
				Got:      fv.Value,
			})
			continue
		}
		if len(field.Enum) > 0 {
			str, ok := fv.Value.(string)
			if !ok || !contains(field.Enum, str) {
				violations = append(violations, Violation{
					Field:   name,
					Kind:    NotInEnum,
					Allowed: field.Enum,
					Got:     fv.Value,
				})
			}
		}
	}

	return violations
}

// TypeMatches reports whether a concrete value satisfies a declared type.
func TypeMatches(ft types.FieldType, value any) bool {
	switch ft {
	case types.FieldString:
		_, ok := value.(string)
		return ok
	case types.FieldNumber:
		switch value.(type) {
		case int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64:
			return true
		}
		return false
	case types.FieldBoolean:
		_, ok := value.(bool)
		return ok
	case types.FieldDate:
		switch v := value.(type) {
		case time.Time:
			return true
		case string:
			_, err := time.Parse(time.RFC3339, v)
			return err == nil
		}
		return false
	}
	return false
}

func sortedFieldNames(def types.ResourceDefinition) []string {
	names := make([]string, 0, len(def.Fields))
	for name := range def.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
