//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS posts_fts USING fts5(
			slug UNINDEXED,
			title,
			summary,
			body,
			tags,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, p PostRow, body string) error {
	if err := ftsDelete(tx, p.Slug); err != nil {
		return err
	}
	_, err := tx.Exec(`INSERT INTO posts_fts (slug, title, summary, body, tags) VALUES (?, ?, ?, ?, ?)`,
		p.Slug, p.Title, p.Summary, body, strings.Join(p.Tags, " "))
	if err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, slug string) error {
	if _, err := tx.Exec(`DELETE FROM posts_fts WHERE slug = ?`, slug); err != nil {
		return fmt.Errorf("index: delete fts: %w", err)
	}
	return nil
}

// Search runs an FTS5 query. Title hits weigh most, then summary and tags;
// snippets are cut from the body.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT slug,
		       title,
		       snippet(posts_fts, 3, '<b>', '</b>', '...', 32)
		FROM posts_fts
		WHERE posts_fts MATCH ?
		ORDER BY bm25(posts_fts, 0.0, 10.0, 5.0, 1.0, 2.0)
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Slug, &r.Title, &r.Snippet); err != nil {
			return nil, fmt.Errorf("index: search: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
