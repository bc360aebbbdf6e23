//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS objectives_fts USING fts5(
			id UNINDEXED,
			title,
			description,
			team,
			responsible,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsInsert(tx *sql.Tx, id int, title, description, team, responsible string) error {
	_, err := tx.Exec(`INSERT INTO objectives_fts (id, title, description, team, responsible) VALUES (?, ?, ?, ?, ?)`,
		id, title, description, team, responsible)
	if err != nil {
		return fmt.Errorf("index: insert fts: %w", err)
	}
	return nil
}

func ftsClear(tx *sql.Tx) error {
	if _, err := tx.Exec(`DELETE FROM objectives_fts`); err != nil {
		return fmt.Errorf("index: clear fts: %w", err)
	}
	return nil
}

// Search performs an FTS5 full-text search and returns matching results with
// snippets. User input is quoted, so operator syntax never reaches MATCH.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	match := matchQuery(query)
	if match == "" {
		return []SearchResult{}, nil
	}
	rows, err := db.conn.Query(`
		SELECT f.id,
		       f.title,
		       o.tier,
		       snippet(objectives_fts, 2, '<b>', '</b>', '...', 32)
		FROM objectives_fts f
		JOIN objectives o ON o.id = f.id
		WHERE objectives_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	out := []SearchResult{}
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.ID, &r.Title, &r.Tier, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
