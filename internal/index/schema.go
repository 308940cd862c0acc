// Package index provides a SQLite-backed index of published posts with
// optional FTS5 full-text search.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// migrations are applied in order; PRAGMA user_version records how many ran.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS posts (
		slug         TEXT PRIMARY KEY,
		path         TEXT NOT NULL DEFAULT '',
		title        TEXT NOT NULL DEFAULT '',
		summary      TEXT NOT NULL DEFAULT '',
		tags         TEXT NOT NULL DEFAULT '[]',
		published_at TEXT NOT NULL DEFAULT '',
		checksum     TEXT NOT NULL DEFAULT '',
		body         TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_posts_published ON posts(published_at);`,

	`CREATE TABLE IF NOT EXISTS links (
		source TEXT NOT NULL,
		target TEXT NOT NULL,
		UNIQUE(source, target)
	);
	CREATE INDEX IF NOT EXISTS idx_links_target ON links(target);`,
}

// DB is the post index.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the index at path and migrates it.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, err
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

func migrate(conn *sql.DB) error {
	var version int
	if err := conn.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("index: read schema version: %w", err)
	}
	for i := version; i < len(migrations); i++ {
		if _, err := conn.Exec(migrations[i]); err != nil {
			return fmt.Errorf("index: migration %d: %w", i+1, err)
		}
		if _, err := conn.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, i+1)); err != nil {
			return fmt.Errorf("index: migration %d: %w", i+1, err)
		}
	}
	return nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
