package types

import (
	"fmt"
	"sort"
)

// FieldType enumerates the value types a field definition may declare.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldNumber  FieldType = "number"
	FieldBoolean FieldType = "boolean"
	FieldDate    FieldType = "date"
)

// Valid reports whether the field type is one of the declared kinds.
func (ft FieldType) Valid() bool {
	switch ft {
	case FieldString, FieldNumber, FieldBoolean, FieldDate:
		return true
	}
	return false
}

// RelationshipKind enumerates the supported relationship kinds.
type RelationshipKind string

const (
	BelongsTo RelationshipKind = "belongsTo"
	HasMany   RelationshipKind = "hasMany"
)

// Valid reports whether the relationship kind is recognized.
func (rk RelationshipKind) Valid() bool {
	return rk == BelongsTo || rk == HasMany
}

// FieldDefinition declares the constraints for a single field
type FieldDefinition struct {
	// Type is the declared value type for the field
	Type FieldType `yaml:"type"`

	// Required marks the field as mandatory on create
	Required bool `yaml:"required,omitempty"`

	// Enum restricts string fields to an ordered set of allowed values
	// Only valid when Type is FieldString
	Enum []string `yaml:"enum,omitempty"`
}

// RelationshipDefinition declares a named edge from one resource to another
type RelationshipDefinition struct {
	// To is the target collection name
	To string `yaml:"to"`

	// Kind is the relationship kind (belongsTo or hasMany)
	Kind RelationshipKind `yaml:"kind"`
}

// ResourceDefinition declares the fields and relationships of one collection
type ResourceDefinition struct {
	Fields        map[string]FieldDefinition        `yaml:"fields"`
	Relationships map[string]RelationshipDefinition `yaml:"relationships,omitempty"`
}

// Schema is the declarative description of all resources for one store
// instance. Schemas are supplied at construction and never mutated.
type Schema struct {
	Name      string                        `yaml:"name"`
	Resources map[string]ResourceDefinition `yaml:"resources"`
}

// CollectionNames returns every declared collection name in sorted order.
// Go maps carry no declaration order, so sorted order is the stable order
// used everywhere a deterministic collection sequence is needed.
func (s Schema) CollectionNames() []string {
	names := make([]string, 0, len(s.Resources))
	for name := range s.Resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resource returns the definition for a collection name.
func (s Schema) Resource(collection string) (ResourceDefinition, bool) {
	def, ok := s.Resources[collection]
	return def, ok
}

// Validate checks the schema for consistency and completeness.
func (s Schema) Validate() error {
	if len(s.Resources) == 0 {
		return fmt.Errorf("schema must declare at least one resource")
	}

	for _, collection := range s.CollectionNames() {
		def := s.Resources[collection]
		if collection == "" {
			return fmt.Errorf("collection name cannot be empty")
		}

		for fieldName, field := range def.Fields {
			if fieldName == "" {
				return fmt.Errorf("resource %s: field name cannot be empty", collection)
			}
			if IsSystemField(fieldName) {
				return fmt.Errorf("resource %s: %q is a reserved field name", collection, fieldName)
			}
			if !field.Type.Valid() {
				return fmt.Errorf("resource %s, field %s: invalid type %q", collection, fieldName, field.Type)
			}
			if len(field.Enum) > 0 {
				// Enum membership is only defined for string values
				if field.Type != FieldString {
					return fmt.Errorf("resource %s, field %s: enum is only supported on string fields, got %q", collection, fieldName, field.Type)
				}
				seen := make(map[string]bool, len(field.Enum))
				for _, value := range field.Enum {
					if value == "" {
						return fmt.Errorf("resource %s, field %s: enum values cannot be empty", collection, fieldName)
					}
					if seen[value] {
						return fmt.Errorf("resource %s, field %s: duplicate enum value %q", collection, fieldName, value)
					}
					seen[value] = true
				}
			}
		}

		for relName, rel := range def.Relationships {
			if relName == "" {
				return fmt.Errorf("resource %s: relationship name cannot be empty", collection)
			}
			if !rel.Kind.Valid() {
				return fmt.Errorf("resource %s, relationship %s: invalid kind %q", collection, relName, rel.Kind)
			}
			if rel.To == "" {
				return fmt.Errorf("resource %s, relationship %s: target collection cannot be empty", collection, relName)
			}
			if _, ok := s.Resources[rel.To]; !ok {
				return fmt.Errorf("resource %s, relationship %s: unknown target collection %q", collection, relName, rel.To)
			}
		}
	}

	return nil
}
