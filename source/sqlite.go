package source

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/stowlabs/resourcestore/types"
	_ "modernc.org/sqlite"
)

// SQLite stores all collections in a single database. Documents are kept as
// JSON in a records table; the autoincrement sequence preserves insertion
// order for listing.
type SQLite struct {
	mu sync.RWMutex
	db *sql.DB
}

// NewSQLite opens (creating if needed) a SQLite source at dbPath.
func NewSQLite(dbPath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS records (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		collection TEXT NOT NULL,
		id         TEXT NOT NULL,
		data       TEXT NOT NULL,
		UNIQUE (collection, id)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create records table: %w", err)
	}

	// Single writer connection keeps modernc.org/sqlite happy
	db.SetMaxOpenConns(1)

	return &SQLite{db: db}, nil
}

func (s *SQLite) Create(collection string, data map[string]any) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := types.Record(data).Clone()
	id, _ := rec[types.FieldID].(string)
	if id == "" {
		id = uuid.New().String()
		rec[types.FieldID] = id
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}

	if _, err := s.db.Exec(
		"INSERT INTO records (collection, id, data) VALUES (?, ?, ?)",
		collection, id, string(raw),
	); err != nil {
		return nil, fmt.Errorf("failed to insert record %s/%s: %w", collection, id, err)
	}
	return rec.Clone(), nil
}

func (s *SQLite) Read(collection, id string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRow(
		"SELECT data FROM records WHERE collection = ? AND id = ?",
		collection, id,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record %s/%s: %w", collection, id, err)
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("failed to parse record %s/%s: %w", collection, id, err)
	}
	return rec, nil
}

func (s *SQLite) List(collection string, opts types.ListOptions) (*types.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := opts.EffectiveLimit()
	offset := opts.EffectiveOffset()

	var total int
	if err := s.db.QueryRow(
		"SELECT COUNT(*) FROM records WHERE collection = ?", collection,
	).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count collection %s: %w", collection, err)
	}

	rows, err := s.db.Query(
		"SELECT data FROM records WHERE collection = ? ORDER BY seq LIMIT ? OFFSET ?",
		collection, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list collection %s: %w", collection, err)
	}
	defer func() { _ = rows.Close() }()

	data := make([]types.Record, 0, limit)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		var rec types.Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("failed to parse record: %w", err)
		}
		data = append(data, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return &types.Page{
		Data:    data,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+len(data) < total,
	}, nil
}

func (s *SQLite) Update(collection, id string, data map[string]any) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var raw string
	err := s.db.QueryRow(
		"SELECT data FROM records WHERE collection = ? AND id = ?",
		collection, id,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("record not found: %s/%s", collection, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record %s/%s: %w", collection, id, err)
	}

	var merged types.Record
	if err := json.Unmarshal([]byte(raw), &merged); err != nil {
		return nil, fmt.Errorf("failed to parse record %s/%s: %w", collection, id, err)
	}
	for k, v := range types.Record(data).Clone() {
		merged[k] = v
	}
	merged[types.FieldID] = id

	out, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	if _, err := s.db.Exec(
		"UPDATE records SET data = ? WHERE collection = ? AND id = ?",
		string(out), collection, id,
	); err != nil {
		return nil, fmt.Errorf("failed to update record %s/%s: %w", collection, id, err)
	}
	return merged, nil
}

func (s *SQLite) Delete(collection, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec(
		"DELETE FROM records WHERE collection = ? AND id = ?",
		collection, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete record %s/%s: %w", collection, id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
