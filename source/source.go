// Package source provides concrete legacy-store backends implementing the
// five-verb contract the migration engine consumes. Three backends exist:
// in-memory (ephemeral, also the test double), JSON files on disk, and a
// single SQLite database.
package source

import (
	"fmt"
	"path/filepath"

	"github.com/stowlabs/resourcestore/migration"
	"github.com/stowlabs/resourcestore/types"
)

// Store is a legacy source backend. Close releases any held resources; the
// memory backend's Close is a no-op.
type Store interface {
	migration.Source
	Close() error
}

// New creates a backend by name.
//
// Supported backends:
//
//	"memory" - in-memory (ephemeral)
//	"json"   - one JSON file per collection under dataDir
//	"sqlite" - SQLite database at dataDir/source.db
func New(backend, dataDir string) (Store, error) {
	switch backend {
	case "memory":
		return NewMemory(), nil
	case "json", "":
		return NewJSONFile(dataDir)
	case "sqlite":
		return NewSQLite(filepath.Join(dataDir, "source.db"))
	default:
		return nil, fmt.Errorf("unknown source backend: %q (supported: memory, json, sqlite)", backend)
	}
}

// paginate slices an ordered record set according to opts, cloning each
// returned record.
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
