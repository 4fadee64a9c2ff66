package store

import "github.com/stowlabs/resourcestore/types"

// ResourceHandle binds the generic store operations to one collection name.
// Handles are ergonomic sugar only: every method delegates straight to the
// generic path and can never diverge from it. The handle table is built once
// at construction, one entry per resource declared in the schema.
type ResourceHandle struct {
	store      *Store
	collection string
}

// Collection returns the handle for a declared resource.
func (s *Store) Collection(name string) (*ResourceHandle, error) {
	h, ok := s.handles[name]
	if !ok {
		return nil, &UnknownResourceError{Collection: name}
	}
	return h, nil
}

// Collections returns the declared collection names in stable order.
func (s *Store) Collections() []string {
	return s.schema.CollectionNames()
}

// Name returns the bound collection name.
func (h *ResourceHandle) Name() string {
	return h.collection
}

func (h *ResourceHandle) Create(data map[string]any) (types.Record, error) {
	return h.store.Create(h.collection, data)
}

func (h *ResourceHandle) Read(id string) (types.Record, bool, error) {
	return h.store.Read(h.collection, id)
}

func (h *ResourceHandle) Update(id string, data map[string]any) (types.Record, error) {
	return h.store.Update(h.collection, id, data)
}

func (h *ResourceHandle) Delete(id string) (bool, error) {
	return h.store.Delete(h.collection, id)
}

func (h *ResourceHandle) List(opts types.ListOptions) (*types.Page, error) {
	return h.store.List(h.collection, opts)
}
