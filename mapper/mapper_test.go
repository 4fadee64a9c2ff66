package mapper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stowlabs/resourcestore/mapper"
	"github.com/stowlabs/resourcestore/testutil"
	"github.com/stowlabs/resourcestore/types"
)

func TestCollections(t *testing.T) {
	names := mapper.Collections(testutil.BlogSchema())
	assert.Equal(t, []string{"posts", "users"}, names)
}

func TestDescribe(t *testing.T) {
	schema := testutil.BlogSchema()

	t.Run("SingularizesAndCapitalizes", func(t *testing.T) {
		desc, err := mapper.Describe(schema, "users")
		require.NoError(t, err)
		assert.Equal(t, "blog", desc.Namespace)
		assert.Equal(t, "User", desc.TypeName)
		assert.Equal(t, "/users/:id", desc.URLPattern)
	})

	t.Run("IrregularPlural", func(t *testing.T) {
		irregular := types.Schema{
			Name: "org",
			Resources: map[string]types.ResourceDefinition{
				"people": {Fields: map[string]types.FieldDefinition{
					"name": {Type: types.FieldString},
				}},
			},
		}
		desc, err := mapper.Describe(irregular, "people")
		require.NoError(t, err)
		assert.Equal(t, "Person", desc.TypeName)
		assert.Equal(t, "/people/:id", desc.URLPattern)
	})

	t.Run("UnknownResource", func(t *testing.T) {
		_, err := mapper.Describe(schema, "widgets")
		assert.ErrorContains(t, err, "widgets")
	})
}

func TestDescribeAll(t *testing.T) {
	descriptors := mapper.DescribeAll(testutil.BlogSchema())
	require.Len(t, descriptors, 2)

	assert.Equal(t, "Post", descriptors[0].TypeName)
	assert.Equal(t, "User", descriptors[1].TypeName)
	for _, desc := range descriptors {
		assert.Equal(t, "blog", desc.Namespace)
	}
}

func TestRelationships(t *testing.T) {
	t.Run("FlattensBothDirections", func(t *testing.T) {
		edges := mapper.Relationships(testutil.BlogSchema())
		require.Len(t, edges, 2)

		// posts sorts before users
		assert.Equal(t, mapper.Relationship{
			Name:        "author",
			From:        "posts",
			To:          "users",
			Kind:        types.BelongsTo,
			Cardinality: mapper.One,
		}, edges[0])
		assert.Equal(t, mapper.Relationship{
			Name:        "posts",
			From:        "users",
			To:          "posts",
			Kind:        types.HasMany,
			Cardinality: mapper.Many,
		}, edges[1])
	})

	t.Run("NoRelationships", func(t *testing.T) {
		schema := types.Schema{
			Name: "flat",
			Resources: map[string]types.ResourceDefinition{
				"notes": {Fields: map[string]types.FieldDefinition{
					"body": {Type: types.FieldString},
				}},
			},
		}
		assert.Empty(t, mapper.Relationships(schema))
	})

	t.Run("SelfReference", func(t *testing.T) {
		schema := types.Schema{
			Name: "tree",
			Resources: map[string]types.ResourceDefinition{
				"categories": {
					Fields: map[string]types.FieldDefinition{
						"name": {Type: types.FieldString},
					},
					Relationships: map[string]types.RelationshipDefinition{
						"parent":   {To: "categories", Kind: types.BelongsTo},
						"children": {To: "categories", Kind: types.HasMany},
					},
				},
			},
		}
		edges := mapper.Relationships(schema)
		require.Len(t, edges, 2)
		assert.Equal(t, "children", edges[0].Name)
		assert.Equal(t, "parent", edges[1].Name)
		for _, edge := range edges {
			assert.Equal(t, "categories", edge.From)
			assert.Equal(t, "categories", edge.To)
		}
	})
}
