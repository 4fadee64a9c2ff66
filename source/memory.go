package source

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/stowlabs/resourcestore/types"
)

// Memory keeps everything in process memory, insertion-ordered per
// collection. Data is lost when the process exits. Safe for concurrent use.
type Memory struct {
	mu          sync.RWMutex
	collections map[string][]types.Record
	index       map[string]map[string]int
}

// NewMemory creates an empty in-memory source.
func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string][]types.Record),
		index:       make(map[string]map[string]int),
	}
}

func (m *Memory) Create(collection string, data map[string]any) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := types.Record(data).Clone()
	id, _ := rec[types.FieldID].(string)
	if id == "" {
		id = uuid.New().String()
		rec[types.FieldID] = id
	}

	if m.index[collection] == nil {
		m.index[collection] = make(map[string]int)
	}
	if _, exists := m.index[collection][id]; exists {
		return nil, fmt.Errorf("record already exists: %s/%s", collection, id)
	}

	m.index[collection][id] = len(m.collections[collection])
	m.collections[collection] = append(m.collections[collection], rec)
	return rec.Clone(), nil
}

func (m *Memory) Read(collection, id string) (map[string]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pos, ok := m.index[collection][id]
	if !ok {
		return nil, nil
	}
	return m.collections[collection][pos].Clone(), nil
}

func (m *Memory) List(collection string, opts types.ListOptions) (*types.Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return paginate(m.collections[collection], opts), nil
}

func (m *Memory) Update(collection, id string, data map[string]any) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pos, ok := m.index[collection][id]
	if !ok {
		return nil, fmt.Errorf("record not found: %s/%s", collection, id)
	}

	merged := m.collections[collection][pos].Clone()
	for k, v := range types.Record(data).Clone() {
		merged[k] = v
	}
	merged[types.FieldID] = id
	m.collections[collection][pos] = merged
	return merged.Clone(), nil
}

func (m *Memory) Delete(collection, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pos, ok := m.index[collection][id]
	if !ok {
		return false, nil
	}

	records := m.collections[collection]
	m.collections[collection] = append(records[:pos], records[pos+1:]...)
	delete(m.index[collection], id)
	for i := pos; i < len(m.collections[collection]); i++ {
		m.index[collection][m.collections[collection][i].ID()] = i
	}
	return true, nil
}

// Close is a no-op for the memory backend.
func (m *Memory) Close() error {
	return nil
}
