package store_test

import (
	"testing"

	"github.com/stowlabs/resourcestore/store"
	"github.com/stowlabs/resourcestore/testutil"
	"github.com/stowlabs/resourcestore/types"
)

func TestList(t *testing.T) {
	t.Run("InsertionOrder", func(t *testing.T) {
		s := testutil.NewStore(t)
		seeded := testutil.SeedUsers(t, s, 3)

		page, err := s.List("users", types.NewListOptions())
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(page.Data) != 3 {
			t.Fatalf("expected 3 records, got %d", len(page.Data))
		}
		for i, rec := range page.Data {
			if rec.ID() != seeded[i].ID() {
				t.Errorf("position %d: expected %s, got %s", i, seeded[i].ID(), rec.ID())
			}
		}
	})

	t.Run("EmptyCollection", func(t *testing.T) {
		s := testutil.NewStore(t)

		page, err := s.List("users", types.NewListOptions())
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if page.Data == nil || len(page.Data) != 0 {
			t.Errorf("expected empty non-nil data, got %v", page.Data)
		}
		if page.Total != 0 || page.HasMore {
			t.Errorf("unexpected page metadata: total=%d hasMore=%v", page.Total, page.HasMore)
		}
	})

	t.Run("DefaultLimit", func(t *testing.T) {
		s := testutil.NewStore(t)
		testutil.SeedUsers(t, s, 105)

		page, err := s.List("users", types.NewListOptions())
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(page.Data) != types.DefaultLimit {
			t.Errorf("expected default limit of %d records, got %d", types.DefaultLimit, len(page.Data))
		}
		if page.Total != 105 {
			t.Errorf("expected total 105, got %d", page.Total)
		}
		if !page.HasMore {
			t.Error("expected hasMore with records remaining")
		}
	})

	t.Run("LimitAndOffset", func(t *testing.T) {
		s := testutil.NewStore(t)
		seeded := testutil.SeedUsers(t, s, 5)

		limit, offset := 2, 2
		page, err := s.List("users", types.ListOptions{Limit: &limit, Offset: &offset})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(page.Data) != 2 {
			t.Fatalf("expected 2 records, got %d", len(page.Data))
		}
		if page.Data[0].ID() != seeded[2].ID() || page.Data[1].ID() != seeded[3].ID() {
			t.Error("offset window returned the wrong records")
		}
		if !page.HasMore {
			t.Error("expected hasMore with one record remaining")
		}
	})

	t.Run("PartialLastPage", func(t *testing.T) {
		s := testutil.NewStore(t)
		testutil.SeedUsers(t, s, 5)

		limit, offset := 2, 4
		page, err := s.List("users", types.ListOptions{Limit: &limit, Offset: &offset})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(page.Data) != 1 {
			t.Errorf("expected 1 record on the last page, got %d", len(page.Data))
		}
		if page.HasMore {
			t.Error("last page must not report hasMore")
		}
	})

	t.Run("OffsetPastEnd", func(t *testing.T) {
		s := testutil.NewStore(t)
		testutil.SeedUsers(t, s, 3)

		offset := 10
		page, err := s.List("users", types.ListOptions{Offset: &offset})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(page.Data) != 0 {
			t.Errorf("expected empty page, got %d records", len(page.Data))
		}
		if page.Total != 3 {
			t.Errorf("total must still reflect the collection, got %d", page.Total)
		}
		if page.HasMore {
			t.Error("offset past the end must not report hasMore")
		}
	})

	t.Run("NegativeValuesFallBackToDefaults", func(t *testing.T) {
		s := testutil.NewStore(t)
		testutil.SeedUsers(t, s, 3)

		limit, offset := -1, -5
		page, err := s.List("users", types.ListOptions{Limit: &limit, Offset: &offset})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(page.Data) != 3 || page.Offset != 0 || page.Limit != types.DefaultLimit {
			t.Errorf("negative options should fall back to defaults: %+v", page)
		}
	})

	t.Run("UnknownCollection", func(t *testing.T) {
		s := testutil.NewStore(t)

		if _, err := s.List("widgets", types.NewListOptions()); !store.IsUnknownResource(err) {
			t.Fatalf("expected UnknownResourceError, got %v", err)
		}
	})
}

func TestQuery(t *testing.T) {
	// Three admins, two editors, interleaved
	seed := func(t *testing.T) *store.Store {
		s := testutil.NewStore(t)
		roles := []string{"admin", "editor", "admin", "editor", "admin"}
		for i, role := range roles {
			_, err := s.Create("users", map[string]any{
				"email":  emailFor(i),
				"role":   role,
				"active": i%2 == 0,
			})
			if err != nil {
				t.Fatalf("failed to seed user %d: %v", i, err)
			}
		}
		return s
	}

	t.Run("SingleFieldEquality", func(t *testing.T) {
		s := seed(t)

		page, err := s.Query("users", types.ListOptions{Where: map[string]any{"role": "admin"}})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if page.Total != 3 || len(page.Data) != 3 {
			t.Fatalf("expected 3 admins, got total=%d len=%d", page.Total, len(page.Data))
		}
		for _, rec := range page.Data {
			if rec["role"] != "admin" {
				t.Errorf("non-matching record leaked through: %v", rec["role"])
			}
		}
	})

	t.Run("ConjunctionOfFields", func(t *testing.T) {
		s := seed(t)

		page, err := s.Query("users", types.ListOptions{
			Where: map[string]any{"role": "admin", "active": true},
		})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		// admins at positions 0, 2, 4 are all active
		if page.Total != 3 {
			t.Errorf("expected 3 active admins, got %d", page.Total)
		}
	})

	t.Run("TotalReflectsFilteredCount", func(t *testing.T) {
		s := seed(t)

		limit := 1
		page, err := s.Query("users", types.ListOptions{
			Where: map[string]any{"role": "admin"},
			Limit: &limit,
		})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if page.Total != 3 {
			t.Errorf("total must be the post-filter count, got %d", page.Total)
		}
		if len(page.Data) != 1 || !page.HasMore {
			t.Errorf("expected one-record page with more remaining: len=%d hasMore=%v",
				len(page.Data), page.HasMore)
		}
	})

	t.Run("NoMatches", func(t *testing.T) {
		s := seed(t)

		page, err := s.Query("users", types.ListOptions{Where: map[string]any{"role": "viewer"}})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if page.Total != 0 || len(page.Data) != 0 || page.HasMore {
			t.Errorf("expected empty result, got %+v", page)
		}
	})

	t.Run("TypeMismatchNeverMatches", func(t *testing.T) {
		s := testutil.NewStore(t)
		if _, err := s.Create("posts", map[string]any{"title": "a", "views": 5}); err != nil {
			t.Fatalf("create failed: %v", err)
		}

		// Stored as int 5; querying with a string must not coerce
		page, err := s.Query("posts", types.ListOptions{Where: map[string]any{"views": "5"}})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if page.Total != 0 {
			t.Errorf("string must not match a number, got %d matches", page.Total)
		}
	})

	t.Run("NilMatchesExplicitNull", func(t *testing.T) {
		s := testutil.NewStore(t)
		testutil.SeedUsers(t, s, 2)
		if _, err := s.Create("users", map[string]any{"email": "n@e.com", "name": "set"}); err != nil {
			t.Fatalf("create failed: %v", err)
		}

		page, err := s.Query("users", types.ListOptions{Where: map[string]any{"name": nil}})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if page.Total != 2 {
			t.Errorf("expected the 2 seeded users with null name, got %d", page.Total)
		}
	})

	t.Run("EmptyWhereBehavesLikeList", func(t *testing.T) {
		s := seed(t)

		page, err := s.Query("users", types.NewListOptions())
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if page.Total != 5 || len(page.Data) != 5 {
			t.Errorf("expected full collection, got total=%d len=%d", page.Total, len(page.Data))
		}
	})

	t.Run("UnknownCollection", func(t *testing.T) {
		s := testutil.NewStore(t)

		if _, err := s.Query("widgets", types.NewListOptions()); !store.IsUnknownResource(err) {
			t.Fatalf("expected UnknownResourceError, got %v", err)
		}
	})
}

func emailFor(i int) string {
	return string(rune('a'+i)) + "@example.com"
}
