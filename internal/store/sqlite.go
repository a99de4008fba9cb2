package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const schema = `
CREATE TABLE IF NOT EXISTS maps (
    key        TEXT PRIMARY KEY,
    data       BLOB NOT NULL,
    updated_at INTEGER NOT NULL
)`

// SQLite keeps saved maps in a single sqlite database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at dbPath.
func OpenSQLite(ctx context.Context, dbPath string) (*SQLite, error) {
	err := os.MkdirAll(filepath.Dir(dbPath), 0o755)
	if err != nil {
		return nil, errors.Wrap(err, "creating database dir")
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", dbPath)
	}
	db.SetMaxOpenConns(1)

	_, err = db.ExecContext(ctx, schema)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating schema")
	}

	return &SQLite{db: db}, nil
}

// Load returns the data stored under key
func (s *SQLite) Load(ctx context.Context, key string) ([]byte, error) {
	row := s.db.QueryRowContext(ctx, `SELECT data FROM maps WHERE key = ?`, key)

	var data []byte
	err := row.Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrNotFound, "%q", key)
	} else if err != nil {
		return nil, errors.Wrapf(err, "loading %q", key)
	}
	return data, nil
}

// Save stores data under key, replacing anything already there
func (s *SQLite) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO maps (key, data, updated_at) VALUES (?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
    `, key, data, time.Now().Unix())
	return errors.Wrapf(err, "saving %q", key)
}

// Delete removes key, if present
func (s *SQLite) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM maps WHERE key = ?`, key)
	return errors.Wrapf(err, "deleting %q", key)
}

// Keys returns every stored key, sorted
func (s *SQLite) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM maps ORDER BY key`)
	if err != nil {
		return nil, errors.Wrap(err, "listing keys")
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close the database
func (s *SQLite) Close() error {
	return s.db.Close()
}
