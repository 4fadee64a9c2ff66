// Package store implements the schema-validated resource store: per-collection
// CRUD, equality queries with pagination, and field validation driven by a
// declarative schema.
//
// A Store is designed for single-threaded, synchronous-per-call use. Callers
// that share one instance across goroutines must serialize access externally.
package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/stowlabs/resourcestore/internal/validation"
	"github.com/stowlabs/resourcestore/types"
)

// collection is an insertion-ordered keyed container of records.
type collection struct {
	records []types.Record
	index   map[string]int // id -> position in records
}

// Store owns one set of collections, isolated from every other instance.
type Store struct {
	schema      types.Schema
	collections map[string]*collection
	handles     map[string]*ResourceHandle

	// timeFunc returns the current instant; injectable for tests
	timeFunc func() time.Time
	// idFunc generates record identifiers; injectable for tests
	idFunc func() string
}

// Option configures a Store at construction.
type Option func(*Store)

// WithTimeFunc overrides the clock. Tests use this for deterministic
// timestamps.
func WithTimeFunc(fn func() time.Time) Option {
	return func(s *Store) { s.timeFunc = fn }
}

// WithIDFunc overrides identifier generation.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) { s.idFunc = fn }
}

// New constructs a store for the given schema. The schema is validated once
// here and never re-checked per call.
func New(schema types.Schema, opts ...Option) (*Store, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	s := &Store{
		schema:      schema,
		collections: make(map[string]*collection, len(schema.Resources)),
		handles:     make(map[string]*ResourceHandle, len(schema.Resources)),
		timeFunc:    time.Now,
		idFunc:      func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, name := range schema.CollectionNames() {
		s.collections[name] = &collection{index: make(map[string]int)}
		s.handles[name] = &ResourceHandle{store: s, collection: name}
	}

	return s, nil
}

// Schema returns the schema the store was built from.
func (s *Store) Schema() types.Schema {
	return s.schema
}

// Create validates data against the collection's definition, assigns the
// system attributes and stores the record. Declared optional fields that
// were not supplied are stored as explicit nil. Fields not declared in the
// schema pass through unchanged.
//
// A caller-supplied non-empty string id is honored so identifiers can carry
// across migrations; it must not collide with an existing record. Supplied
// createdAt/updatedAt values are ignored.
func (s *Store) Create(collectionName string, data map[string]any) (types.Record, error) {
	col, ok := s.collections[collectionName]
	if !ok {
		return nil, &UnknownResourceError{Collection: collectionName}
	}
	def := s.schema.Resources[collectionName]

	violations := validation.CheckFields(def, data, validation.CreateMode)

	id, _ := data[types.FieldID].(string)
	if id != "" {
		if _, exists := col.index[id]; exists {
			violations = append(violations, validation.Violation{
				Field: types.FieldID,
				Kind:  validation.DuplicateID,
				Got:   id,
			})
		}
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Collection: collectionName, Violations: violations}
	}
	if id == "" {
		id = s.idFunc()
	}

	rec := types.Record(data).Clone()
	delete(rec, types.FieldID)
	delete(rec, types.FieldCreatedAt)
	delete(rec, types.FieldUpdatedAt)

	// Declared optional fields absent at creation become explicit nulls so
	// a full field set is always present afterwards
	for name := range def.Fields {
		if _, supplied := rec[name]; !supplied {
			rec[name] = nil
		}
	}

	now := s.timeFunc()
	rec[types.FieldID] = id
	rec[types.FieldCreatedAt] = now
	rec[types.FieldUpdatedAt] = now

	col.index[id] = len(col.records)
	col.records = append(col.records, rec)

	return rec.Clone(), nil
}

// Read returns a copy of the record, or ok=false when the id is absent.
// Absence is not an error.
func (s *Store) Read(collectionName, id string) (types.Record, bool, error) {
	col, ok := s.collections[collectionName]
	if !ok {
		return nil, false, &UnknownResourceError{Collection: collectionName}
	}
	pos, exists := col.index[id]
	if !exists {
		return nil, false, nil
	}
	return col.records[pos].Clone(), true, nil
}

// Update merges partial data over an existing record. Required-field checks
// are skipped (partial updates need not resupply them) but type and enum
// checks still apply. The original id and createdAt always survive, even if
// the caller supplies replacements; those values are silently discarded.
func (s *Store) Update(collectionName, id string, data map[string]any) (types.Record, error) {
	col, ok := s.collections[collectionName]
	if !ok {
		return nil, &UnknownResourceError{Collection: collectionName}
	}
	def := s.schema.Resources[collectionName]

	if violations := validation.CheckFields(def, data, validation.UpdateMode); len(violations) > 0 {
		return nil, &ValidationError{Collection: collectionName, Violations: violations}
	}

	pos, exists := col.index[id]
	if !exists {
		return nil, &NotFoundError{Collection: collectionName, ID: id}
	}
	existing := col.records[pos]

	merged := existing.Clone()
	for k, v := range types.Record(data).Clone() {
		merged[k] = v
	}

	// System attributes are immutable through this path
	merged[types.FieldID] = existing[types.FieldID]
	merged[types.FieldCreatedAt] = existing[types.FieldCreatedAt]

	now := s.timeFunc()
	if !now.After(existing.UpdatedAt()) {
		// updatedAt must strictly increase on every successful update
		now = existing.UpdatedAt().Add(time.Nanosecond)
	}
	merged[types.FieldUpdatedAt] = now

	col.records[pos] = merged
	return merged.Clone(), nil
}

// Delete removes the record. Returns true if it existed, false otherwise;
// a missing id is not an error.
func (s *Store) Delete(collectionName, id string) (bool, error) {
	col, ok := s.collections[collectionName]
	if !ok {
		return false, &UnknownResourceError{Collection: collectionName}
	}
	pos, exists := col.index[id]
	if !exists {
		return false, nil
	}

	col.records = append(col.records[:pos], col.records[pos+1:]...)
	delete(col.index, id)
	for i := pos; i < len(col.records); i++ {
		col.index[col.records[i].ID()] = i
	}
	return true, nil
}

// List returns records in insertion order, sliced by the options. Total is
// the full collection size regardless of slicing.
func (s *Store) List(collectionName string, opts types.ListOptions) (*types.Page, error) {
	col, ok := s.collections[collectionName]
	if !ok {
		return nil, &UnknownResourceError{Collection: collectionName}
	}
	return paginate(col.records, opts), nil
}

// Query applies the equality filter in opts.Where before pagination; Total
// reflects the post-filter count. A record matches iff every filter key
// strictly equals the record's value at that key.
func (s *Store) Query(collectionName string, opts types.ListOptions) (*types.Page, error) {
	col, ok := s.collections[collectionName]
	if !ok {
		return nil, &UnknownResourceError{Collection: collectionName}
	}

	matched := col.records
	if len(opts.Where) > 0 {
		matched = make([]types.Record, 0)
		for _, rec := range col.records {
			if matchesWhere(rec, opts.Where) {
				matched = append(matched, rec)
			}
		}
	}
	return paginate(matched, opts), nil
}

func paginate(records []types.Record, opts types.ListOptions) *types.Page {
	limit := opts.EffectiveLimit()
	offset := opts.EffectiveOffset()
	total := len(records)

	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	data := make([]types.Record, 0, end-start)
	for _, rec := range records[start:end] {
		data = append(data, rec.Clone())
	}

	return &types.Page{
		Data:    data,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+len(data) < total,
	}
}

func matchesWhere(rec types.Record, where map[string]any) bool {
	for key, want := range where {
		if !valuesEqual(rec[key], want) {
			return false
		}
	}
	return true
}
