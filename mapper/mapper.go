// Package mapper derives naming and relationship metadata from a schema:
// the ordered collection list, per-resource type descriptors, and the
// flattened relationship edges. The store itself does not consume these;
// they exist for external tooling.
package mapper

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stowlabs/resourcestore/inflect"
	"github.com/stowlabs/resourcestore/types"
)

// TypeDescriptor names one resource for external tooling.
type TypeDescriptor struct {
	// Namespace is the owning schema's name
	Namespace string `json:"namespace"`

	// TypeName is the capitalized singular of the collection name
	TypeName string `json:"typeName"`

	// URLPattern is the canonical item route, "/<collection>/:id"
	URLPattern string `json:"urlPattern"`
}

// Cardinality of a relationship edge.
type Cardinality string

const (
	One  Cardinality = "one"
	Many Cardinality = "many"
)

// Relationship is one flattened edge between two resources.
type Relationship struct {
	Name        string                 `json:"name"`
	From        string                 `json:"from"`
	To          string                 `json:"to"`
	Kind        types.RelationshipKind `json:"kind"`
	Cardinality Cardinality            `json:"cardinality"`
}

// Collections returns every collection name in the schema's stable order.
func Collections(schema types.Schema) []string {
	return schema.CollectionNames()
}

// Describe builds the type descriptor for one collection.
func Describe(schema types.Schema, collection string) (TypeDescriptor, error) {
	if _, ok := schema.Resource(collection); !ok {
		return TypeDescriptor{}, fmt.Errorf("unknown resource %q", collection)
	}
	singular := inflect.Singularize(collection)
	return TypeDescriptor{
		Namespace:  schema.Name,
		TypeName:   capitalize(singular),
		URLPattern: "/" + collection + "/:id",
	}, nil
}

// DescribeAll builds descriptors for every collection, in stable order.
func DescribeAll(schema types.Schema) []TypeDescriptor {
	descriptors := make([]TypeDescriptor, 0, len(schema.Resources))
	for _, name := range schema.CollectionNames() {
		desc, _ := Describe(schema, name)
		descriptors = append(descriptors, desc)
	}
	return descriptors
}

// Relationships flattens every declared relationship into a single list,
// ordered by owning collection then relationship name.
func Relationships(schema types.Schema) []Relationship {
	var edges []Relationship
	for _, from := range schema.CollectionNames() {
		def := schema.Resources[from]
		names := make([]string, 0, len(def.Relationships))
		for name := range def.Relationships {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			rel := def.Relationships[name]
			edges = append(edges, Relationship{
				Name:        name,
				From:        from,
				To:          rel.To,
				Kind:        rel.Kind,
				Cardinality: cardinalityOf(rel.Kind),
			})
		}
	}
	return edges
}

func cardinalityOf(kind types.RelationshipKind) Cardinality {
	if kind == types.HasMany {
		return Many
	}
	return One
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}
