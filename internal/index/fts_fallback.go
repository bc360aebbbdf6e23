//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses LIKE on the objectives table.
	return nil
}

func ftsInsert(_ *sql.Tx, _ int, _, _, _, _ string) error {
	// Text columns already live in the objectives table.
	return nil
}

func ftsClear(_ *sql.Tx) error { return nil }

// Search performs a LIKE-based search (fallback when FTS5 is not compiled in).
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + likeEscaper.Replace(query) + "%"
	rows, err := db.conn.Query(`
		SELECT id, title, tier, substr(description, 1, 200)
		FROM objectives
		WHERE title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\'
		   OR team LIKE ? ESCAPE '\' OR responsible_name LIKE ? ESCAPE '\'
		ORDER BY position
		LIMIT ?
	`, like, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.ID, &r.Title, &r.Tier, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
