// Package sqlite keeps a settings tier in a SQLite file so local-only values
// (enableSync, paused, and the full table while sync is off) survive restarts.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	pr "github.com/unkn0wn-root/tabsettings/provider"
)

const schema = `CREATE TABLE IF NOT EXISTS settings_kv (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

type Provider struct {
	db        *sql.DB
	closeOnce sync.Once
	closeErr  error
}

var _ pr.Provider = (*Provider)(nil)

// Open opens (or creates) the database at path. Pass ":memory:" for an
// in-memory database (used by tests).
func Open(path string) (*Provider, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Single connection: avoids "database is locked" and keeps ":memory:" a single database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting journal mode: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating settings table: %w", err)
	}
	return &Provider{db: db}, nil
}

func (p *Provider) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var b []byte
	err := p.db.QueryRowContext(ctx, `SELECT value FROM settings_kv WHERE key = ?`, key).Scan(&b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlite get %q: %w", key, err)
	}
	if b == nil {
		b = []byte{}
	}
	return b, true, nil
}

func (p *Provider) Set(ctx context.Context, key string, value []byte) (bool, error) {
	if value == nil {
		value = []byte{}
	}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO settings_kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return false, fmt.Errorf("sqlite set %q: %w", key, err)
	}
	return true, nil
}

func (p *Provider) Del(ctx context.Context, key string) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM settings_kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("sqlite del %q: %w", key, err)
	}
	return nil
}

// Close is safe to call more than once, so one database can back both tiers.
func (p *Provider) Close(context.Context) error {
	p.closeOnce.Do(func() { p.closeErr = p.db.Close() })
	return p.closeErr
}
