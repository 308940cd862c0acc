//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Without FTS5 the posts table is searched directly; there is nothing to keep
// in sync.
func initFTS(_ *sql.DB) error { return nil }

func ftsUpsert(_ *sql.Tx, _ PostRow, _ string) error { return nil }

func ftsDelete(_ *sql.Tx, _ string) error { return nil }

const snippetRunes = 160

// Search matches posts containing every whitespace-separated term in the
// title, summary, body or tags. Title hits on the first term rank first, then
// newer posts.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	var (
		where []string
		args  []any
	)
	for _, term := range terms {
		like := likePattern(term)
		where = append(where, `(title LIKE ? ESCAPE '\' OR summary LIKE ? ESCAPE '\' OR body LIKE ? ESCAPE '\' OR tags LIKE ? ESCAPE '\')`)
		args = append(args, like, like, like, like)
	}
	args = append(args, likePattern(terms[0]), limit)

	rows, err := db.conn.Query(`
		SELECT slug, title, body
		FROM posts
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY (title LIKE ? ESCAPE '\') DESC, published_at DESC, slug
		LIMIT ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var (
			r    SearchResult
			body string
		)
		if err := rows.Scan(&r.Slug, &r.Title, &body); err != nil {
			return nil, fmt.Errorf("index: search: %w", err)
		}
		r.Snippet = snippet(body, terms[0])
		out = append(out, r)
	}
	return out, rows.Err()
}

func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

// snippet cuts a window of body around the first case-insensitive occurrence
// of term and marks the hit the way the FTS5 snippet() call does.
func snippet(body, term string) string {
	i := strings.Index(strings.ToLower(body), strings.ToLower(term))
	if i < 0 || len(strings.ToLower(body)) != len(body) {
		return truncate(body, 0)
	}

	start := i
	for n := 0; start > 0 && n < 32; n++ {
		_, size := utf8.DecodeLastRuneInString(body[:start])
		start -= size
	}
	end := i + len(strings.ToLower(term))
	if end > len(body) {
		end = len(body)
	}

	var b strings.Builder
	if start > 0 {
		b.WriteString("...")
	}
	b.WriteString(body[start:i])
	b.WriteString("<b>")
	b.WriteString(body[i:end])
	b.WriteString("</b>")
	b.WriteString(truncate(body, end))
	return b.String()
}

// truncate returns up to snippetRunes runes of body starting at byte offset
// from, with an ellipsis when cut.
func truncate(body string, from int) string {
	rest := body[from:]
	n := 0
	for i := range rest {
		if n == snippetRunes {
			return rest[:i] + "..."
		}
		n++
	}
	return rest
}
