// Package migration moves records from a legacy store into a resource store.
//
// The engine tolerates partial failure: an error on an individual record is
// recorded in the result and processing continues, because legacy sources are
// expected to hold some records that are invalid under the new schema.
// A caller inspects the Result, not a returned error, to detect per-record
// failures; only engine misconfiguration surfaces as an error from Migrate.
package migration

import (
	"fmt"

	"github.com/stowlabs/resourcestore/types"
)

// DefaultBatchSize is the source page size used when Options carries none.
const DefaultBatchSize = 100

// Source is the minimal contract a legacy store must implement. Read returns
// nil when the id is absent.
type Source interface {
	Create(collection string, data map[string]any) (map[string]any, error)
	Read(collection, id string) (map[string]any, error)
	List(collection string, opts types.ListOptions) (*types.Page, error)
	Update(collection, id string, data map[string]any) (map[string]any, error)
	Delete(collection, id string) (bool, error)
}

// Target is the subset of the resource store the engine writes to.
// *store.Store satisfies it.
type Target interface {
	Create(collection string, data map[string]any) (types.Record, error)
	Read(collection, id string) (types.Record, bool, error)
	Update(collection, id string, data map[string]any) (types.Record, error)
}

// Options configures a migration run.
type Options struct {
	// DryRun computes counts without performing any writes
	DryRun bool

	// Collections restricts the run; empty means every schema resource
	Collections []string

	// BatchSize is the source page size; <=0 means DefaultBatchSize
	BatchSize int

	// OnProgress fires once per record, monotonically, ending at
	// processed == total on a clean run. A non-nil return aborts the
	// whole run and propagates out of Migrate.
	OnProgress func(processed, total int) error

	// Upsert overwrites an existing target record instead of skipping it
	Upsert bool

	// IDMapping translates source-side ids to target-side ids
	IDMapping map[string]string
}

// Result is the structured report of one migration run. Success is false
// whenever at least one record failed, even if most records migrated; it is
// a partial-success signal, not an all-or-nothing transaction.
type Result struct {
	Success       bool           `json:"success"`
	MigratedCount int            `json:"migratedCount"`
	FailedCount   int            `json:"failedCount"`
	SkippedCount  int            `json:"skippedCount"`
	ByCollection  map[string]int `json:"byCollection"`
	Errors        []string       `json:"errors"`
	DryRun        bool           `json:"dryRun"`
}

// Migrate drives reads from source and writes into target, collection after
// collection, batch after batch, strictly sequentially.
func Migrate(source Source, target Target, schema types.Schema, opts Options) (*Result, error) {
	if source == nil {
		return nil, fmt.Errorf("migration source is required")
	}
	if target == nil {
		return nil, fmt.Errorf("migration target is required")
	}

	collections := opts.Collections
	if len(collections) == 0 {
		collections = schema.CollectionNames()
	} else {
		for _, name := range collections {
			if _, ok := schema.Resource(name); ok {
				continue
			}
			return nil, fmt.Errorf("collection %q is not declared in schema %q", name, schema.Name)
		}
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	// Pre-scan: one single-record page per collection, purely to read the
	// totals. Trades one extra read per collection for accurate progress
	// reporting, since the grand total is otherwise unknown until the
	// source is fully paginated.
	grandTotal := 0
	totals := make(map[string]int, len(collections))
	for _, name := range collections {
		page, err := source.List(name, types.Limited(1))
		if err != nil {
			return nil, fmt.Errorf("failed to scan source collection %s: %w", name, err)
		}
		totals[name] = page.Total
		grandTotal += page.Total
	}

	result := &Result{
		ByCollection: make(map[string]int, len(collections)),
		Errors:       []string{},
		DryRun:       opts.DryRun,
	}

	processed := 0
	for _, name := range collections {
		offset := 0
		for offset < totals[name] {
			limit := batchSize
			page, err := source.List(name, types.ListOptions{Limit: &limit, Offset: &offset})
			if err != nil {
				return nil, fmt.Errorf("failed to list source collection %s at offset %d: %w", name, offset, err)
			}
			if len(page.Data) == 0 {
				break
			}

			for _, rec := range page.Data {
				processed++
				if opts.OnProgress != nil {
					if err := opts.OnProgress(processed, grandTotal); err != nil {
						return nil, err
					}
				}
				if err := migrateRecord(target, name, rec, opts, result); err != nil {
					result.FailedCount++
					result.Errors = append(result.Errors,
						fmt.Sprintf("%s/%s: %s", name, rec.ID(), err.Error()))
				}
			}

			offset += len(page.Data)
		}
	}

	result.Success = result.FailedCount == 0
	return result, nil
}

// migrateRecord applies the per-record policy: probe the target at the
// mapped id, then skip, overwrite, or create. Counting side effects land on
// result; any returned error is downgraded to a failure entry by the caller.
func migrateRecord(target Target, collection string, rec types.Record, opts Options, result *Result) error {
	sourceID := rec.ID()

	targetID := sourceID
	if mapped, ok := opts.IDMapping[sourceID]; ok {
		targetID = mapped
	}

	_, exists, err := target.Read(collection, targetID)
	if err != nil {
		return err
	}

	switch {
	case exists && !opts.Upsert:
		result.SkippedCount++
		return nil

	case exists && opts.Upsert:
		if !opts.DryRun {
			data := map[string]any(rec.Clone())
			delete(data, types.FieldID)
			if _, err := target.Update(collection, targetID, data); err != nil {
				return err
			}
		}

	default:
		if !opts.DryRun {
			// The source id travels verbatim so identifiers carry
			// across stores
			data := map[string]any(rec.Clone())
			if targetID != sourceID {
				data[types.FieldID] = targetID
			}
			if _, err := target.Create(collection, data); err != nil {
				return err
			}
		}
	}

	result.MigratedCount++
	result.ByCollection[collection]++
	return nil
}
