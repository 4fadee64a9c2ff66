package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/stowlabs/resourcestore/types"
)

const (
	lockTimeout    = 3 * time.Second
	lockRetryDelay = 100 * time.Millisecond
)

// JSONFile stores each collection as a JSON array in its own file under a
// data directory. Insertion order is the array order. A cross-process flock
// guards every operation; writes go to a temp file and are renamed into
// place so readers never observe a partial file.
//
// Layout:
//
//	data_dir/
//	  source.lock     # cross-process lock
//	  users.json      # "users" collection
//	  posts.json      # "posts" collection
type JSONFile struct {
	mu       sync.Mutex
	dir      string
	fileLock *flock.Flock
}

// NewJSONFile creates a JSON-file source rooted at dir, creating the
// directory if needed.
func NewJSONFile(dir string) (*JSONFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &JSONFile{
		dir:      dir,
		fileLock: flock.New(filepath.Join(dir, "source.lock")),
	}, nil
}

func (s *JSONFile) collectionPath(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

// withLock runs fn while holding both the in-process mutex and the
// cross-process file lock.
func (s *JSONFile) withLock(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := s.fileLock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock within %s", lockTimeout)
	}
	defer func() { _ = s.fileLock.Unlock() }()

	return fn()
}

func (s *JSONFile) load(collection string) ([]types.Record, error) {
	data, err := os.ReadFile(s.collectionPath(collection))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read collection file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var records []types.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse collection file: %w", err)
	}
	return records, nil
}

func (s *JSONFile) save(collection string, records []types.Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal collection: %w", err)
	}

	path := s.collectionPath(collection)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func (s *JSONFile) Create(collection string, data map[string]any) (map[string]any, error) {
	rec := types.Record(data).Clone()
	id, _ := rec[types.FieldID].(string)
	if id == "" {
		id = uuid.New().String()
		rec[types.FieldID] = id
	}

	err := s.withLock(func() error {
		records, err := s.load(collection)
		if err != nil {
			return err
		}
		for _, existing := range records {
			if existing.ID() == id {
				return fmt.Errorf("record already exists: %s/%s", collection, id)
			}
		}
		return s.save(collection, append(records, rec))
	})
	if err != nil {
		return nil, err
	}
	return rec.Clone(), nil
}

func (s *JSONFile) Read(collection, id string) (map[string]any, error) {
	var found types.Record
	err := s.withLock(func() error {
		records, err := s.load(collection)
		if err != nil {
			return err
		}
		for _, rec := range records {
			if rec.ID() == id {
				found = rec.Clone()
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, nil
	}
	return found, nil
}

func (s *JSONFile) List(collection string, opts types.ListOptions) (*types.Page, error) {
	var page *types.Page
	err := s.withLock(func() error {
		records, err := s.load(collection)
		if err != nil {
			return err
		}
		page = paginate(records, opts)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (s *JSONFile) Update(collection, id string, data map[string]any) (map[string]any, error) {
	var merged types.Record
	err := s.withLock(func() error {
		records, err := s.load(collection)
		if err != nil {
			return err
		}
		for i, rec := range records {
			if rec.ID() != id {
				continue
			}
			merged = rec.Clone()
			for k, v := range types.Record(data).Clone() {
				merged[k] = v
			}
			merged[types.FieldID] = id
			records[i] = merged
			return s.save(collection, records)
		}
		return fmt.Errorf("record not found: %s/%s", collection, id)
	})
	if err != nil {
		return nil, err
	}
	return merged.Clone(), nil
}

func (s *JSONFile) Delete(collection, id string) (bool, error) {
	deleted := false
	err := s.withLock(func() error {
		records, err := s.load(collection)
		if err != nil {
			return err
		}
		for i, rec := range records {
			if rec.ID() == id {
				deleted = true
				return s.save(collection, append(records[:i], records[i+1:]...))
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// Close removes the lock file.
func (s *JSONFile) Close() error {
	_ = os.Remove(s.fileLock.Path())
	return nil
}
