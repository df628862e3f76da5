package state

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS options (
	id          TEXT PRIMARY KEY,
	value       BLOB NOT NULL,
	snapshot_id TEXT NOT NULL DEFAULT '',
	etag        TEXT NOT NULL DEFAULT '',
	updated_at  TEXT NOT NULL DEFAULT '',
	extra       TEXT NOT NULL DEFAULT ''
)`

// SQLiteStore persists raw values in a single SQLite table keyed by
// Ref.Identifier(). Wrap it with JSON for typed access.
type SQLiteStore struct {
	mu   sync.Mutex
	conn *sqlite.Conn
}

// OpenSQLiteStore opens (creating when needed) the database at path. Use
// ":memory:" for a private in-memory database.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	flags := []sqlite.OpenFlags{sqlite.OpenReadWrite, sqlite.OpenCreate}
	if path == ":memory:" {
		flags = append(flags, sqlite.OpenMemory)
	}
	conn, err := sqlite.OpenConn(path, flags...)
	if err != nil {
		return nil, fmt.Errorf("state: open sqlite %q: %w", path, err)
	}
	if err := sqlitex.ExecuteTransient(conn, sqliteSchema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("state: create schema: %w", err)
	}
	return &SQLiteStore{conn: conn}, nil
}

// Close releases the connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

func (s *SQLiteStore) Load(_ context.Context, ref Ref) ([]byte, Meta, bool, error) {
	key, err := ref.Identifier()
	if err != nil {
		return nil, Meta{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil, Meta{}, false, fmt.Errorf("state: sqlite store is closed")
	}

	var (
		value []byte
		meta  Meta
		found bool
	)
	err = sqlitex.Execute(s.conn,
		`SELECT value, snapshot_id, etag, updated_at, extra FROM options WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{key},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				raw, err := io.ReadAll(stmt.ColumnReader(0))
				if err != nil {
					return err
				}
				value = raw
				meta.SnapshotID = stmt.ColumnText(1)
				meta.ETag = stmt.ColumnText(2)
				if ts := stmt.ColumnText(3); ts != "" {
					if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
						meta.UpdatedAt = parsed
					}
				}
				if extra := stmt.ColumnText(4); extra != "" {
					if err := json.Unmarshal([]byte(extra), &meta.Extra); err != nil {
						return fmt.Errorf("decode extra: %w", err)
					}
				}
				found = true
				return nil
			},
		})
	if err != nil {
		return nil, Meta{}, false, fmt.Errorf("state: load %q: %w", key, err)
	}
	return value, meta, found, nil
}

func (s *SQLiteStore) Save(_ context.Context, ref Ref, value []byte, meta Meta) (Meta, error) {
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}
	extra := ""
	if len(meta.Extra) > 0 {
		raw, err := json.Marshal(meta.Extra)
		if err != nil {
			return Meta{}, fmt.Errorf("state: encode extra: %w", err)
		}
		extra = string(raw)
	}
	updated := ""
	if !meta.UpdatedAt.IsZero() {
		updated = meta.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	if value == nil {
		value = []byte{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return Meta{}, fmt.Errorf("state: sqlite store is closed")
	}
	err = sqlitex.Execute(s.conn,
		`INSERT INTO options (id, value, snapshot_id, etag, updated_at, extra)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   value = excluded.value,
		   snapshot_id = excluded.snapshot_id,
		   etag = excluded.etag,
		   updated_at = excluded.updated_at,
		   extra = excluded.extra`,
		&sqlitex.ExecOptions{Args: []any{key, value, meta.SnapshotID, meta.ETag, updated, extra}})
	if err != nil {
		return Meta{}, fmt.Errorf("state: save %q: %w", key, err)
	}
	return cloneMeta(meta), nil
}

func (s *SQLiteStore) Delete(_ context.Context, ref Ref) error {
	key, err := ref.Identifier()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return fmt.Errorf("state: sqlite store is closed")
	}
	if err := sqlitex.Execute(s.conn, `DELETE FROM options WHERE id = ?`, &sqlitex.ExecOptions{Args: []any{key}}); err != nil {
		return fmt.Errorf("state: delete %q: %w", key, err)
	}
	return nil
}

// Keys lists stored identifiers in key order.
func (s *SQLiteStore) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil, fmt.Errorf("state: sqlite store is closed")
	}
	var keys []string
	err := sqlitex.Execute(s.conn, `SELECT id FROM options ORDER BY id`, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			keys = append(keys, stmt.ColumnText(0))
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("state: list keys: %w", err)
	}
	return keys, nil
}
