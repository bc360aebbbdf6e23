package index

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/tiwaz/internal/dataset"
	"github.com/starford/tiwaz/internal/store"
)

const checksumKey = "dataset_checksum"

// SearchResult represents one search hit.
type SearchResult struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Tier    string `json:"tier"`
	Snippet string `json:"snippet"`
}

// Stats aggregates the mirrored objectives.
type Stats struct {
	Total           int            `json:"total"`
	ByStatus        map[string]int `json:"by_status"`
	ByTier          map[string]int `json:"by_tier"`
	AverageProgress float64        `json:"average_progress"`
}

// Replace swaps the mirrored dataset for snap's content in one transaction.
func (db *DB) Replace(snap *store.Snapshot) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	for _, stmt := range []string{`DELETE FROM objectives`, `DELETE FROM members`} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("index: clear: %w", err)
		}
	}
	if err := ftsClear(tx); err != nil {
		return err
	}

	memberStmt, err := tx.Prepare(`INSERT INTO members (id, name, role, team) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare member insert: %w", err)
	}
	defer memberStmt.Close()
	for _, m := range snap.Members() {
		if _, err := memberStmt.Exec(m.ID, m.Name, m.Role, m.Team); err != nil {
			return fmt.Errorf("index: insert member %d: %w", m.ID, err)
		}
	}

	objStmt, err := tx.Prepare(`
		INSERT INTO objectives (id, position, title, description, tier, status, team,
		                        responsible, responsible_name, progress, due_date, parent_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("index: prepare objective insert: %w", err)
	}
	defer objStmt.Close()

	for i, o := range snap.Objectives() {
		var parent sql.NullInt64
		if o.ParentID != nil {
			parent = sql.NullInt64{Int64: int64(*o.ParentID), Valid: true}
		}
		var responsible string
		if m, ok := snap.Member(o.Responsible); ok {
			responsible = m.Name
		}
		if _, err := objStmt.Exec(o.ID, i, o.Title, o.Description, string(o.Tier), string(o.Status), o.Team,
			o.Responsible, responsible, o.Progress, o.DueDate.Format(dataset.DateLayout), parent); err != nil {
			return fmt.Errorf("index: insert objective %d: %w", o.ID, err)
		}
		if err := ftsInsert(tx, o.ID, o.Title, o.Description, o.Team, responsible); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, checksumKey, snap.Checksum()); err != nil {
		return fmt.Errorf("index: store checksum: %w", err)
	}

	return tx.Commit()
}

// Checksum returns the checksum of the mirrored dataset, or "" when the
// index has never been filled.
func (db *DB) Checksum() (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT value FROM meta WHERE key = ?`, checksumKey).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: checksum: %w", err)
	}
	return cs, nil
}

// Stats counts objectives by status and tier.
func (db *DB) Stats() (Stats, error) {
	st := Stats{ByStatus: map[string]int{}, ByTier: map[string]int{}}

	var avg sql.NullFloat64
	if err := db.conn.QueryRow(`SELECT count(*), avg(progress) FROM objectives`).Scan(&st.Total, &avg); err != nil {
		return Stats{}, fmt.Errorf("index: stats: %w", err)
	}
	st.AverageProgress = avg.Float64

	for col, dst := range map[string]map[string]int{"status": st.ByStatus, "tier": st.ByTier} {
		rows, err := db.conn.Query(`SELECT ` + col + `, count(*) FROM objectives GROUP BY ` + col)
		if err != nil {
			return Stats{}, fmt.Errorf("index: stats by %s: %w", col, err)
		}
		for rows.Next() {
			var k string
			var n int
			if err := rows.Scan(&k, &n); err != nil {
				rows.Close()
				return Stats{}, err
			}
			dst[k] = n
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return Stats{}, err
		}
		rows.Close()
	}
	return st, nil
}
