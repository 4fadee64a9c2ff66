// Package testutil provides shared schema and store fixtures for tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/stowlabs/resourcestore/store"
	"github.com/stowlabs/resourcestore/types"
)

// BlogSchema returns the schema used across the test suites: a users
// collection with required, enum, boolean and date fields, and a posts
// collection related to it in both directions.
func BlogSchema() types.Schema {
	return types.Schema{
		Name: "blog",
		Resources: map[string]types.ResourceDefinition{
			"users": {
				Fields: map[string]types.FieldDefinition{
					"email":    {Type: types.FieldString, Required: true},
					"name":     {Type: types.FieldString},
					"role":     {Type: types.FieldString, Enum: []string{"admin", "editor", "viewer"}},
					"active":   {Type: types.FieldBoolean},
					"joinedAt": {Type: types.FieldDate},
				},
				Relationships: map[string]types.RelationshipDefinition{
					"posts": {To: "posts", Kind: types.HasMany},
				},
			},
			"posts": {
				Fields: map[string]types.FieldDefinition{
					"title":     {Type: types.FieldString, Required: true},
					"views":     {Type: types.FieldNumber},
					"published": {Type: types.FieldBoolean},
				},
				Relationships: map[string]types.RelationshipDefinition{
					"author": {To: "users", Kind: types.BelongsTo},
				},
			},
		},
	}
}

// NewStore builds a store over BlogSchema, failing the test on error.
func NewStore(t *testing.T, opts ...store.Option) *store.Store {
	t.Helper()
	s, err := store.New(BlogSchema(), opts...)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return s
}

// TickingClock returns a time function that advances one second per call,
// starting from a fixed instant. Deterministic timestamps for tests.
func TickingClock() func() time.Time {
	current := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		now := current
		current = current.Add(time.Second)
		return now
	}
}

// SeedUsers creates n users with predictable emails and returns them in
// creation order.
func SeedUsers(t *testing.T, s *store.Store, n int) []types.Record {
	t.Helper()
	records := make([]types.Record, 0, n)
	for i := 0; i < n; i++ {
		rec, err := s.Create("users", map[string]any{
			"email": fmt.Sprintf("user%d@example.com", i),
		})
		if err != nil {
			t.Fatalf("failed to seed user %d: %v", i, err)
		}
		records = append(records, rec)
	}
	return records
}
