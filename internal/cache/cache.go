// Package cache persists the last good data snapshot to a local sqlite file
// so reads keep working across process runs and network outages. It is the
// offline fallback behind the in-memory store, not a second source of truth.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/linkverse/linkverse/internal/gateway"
	"github.com/linkverse/linkverse/internal/store"
)

type Cache struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	c := &Cache{readDB: readDB, writeDB: writeDB}
	if err := c.init(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) init() error {
	_, err := c.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS links (
			id   TEXT PRIMARY KEY,
			data TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS collections (
			id   TEXT PRIMARY KEY,
			data TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	var errs []error
	if c.readDB != nil {
		errs = append(errs, c.readDB.Close())
	}
	if c.writeDB != nil {
		errs = append(errs, c.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// Save replaces the stored snapshot wholesale. Partial writes never survive:
// the delete+insert runs in one transaction.
func (c *Cache) Save(snap store.Snapshot) error {
	tx, err := c.writeDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM links`); err != nil {
		return fmt.Errorf("clearing links: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM collections`); err != nil {
		return fmt.Errorf("clearing collections: %w", err)
	}

	linkStmt, err := tx.Prepare(`INSERT INTO links (id, data) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer linkStmt.Close()

	for _, l := range snap.Links {
		data, err := json.Marshal(l)
		if err != nil {
			return fmt.Errorf("encoding link %s: %w", l.ID, err)
		}
		if _, err := linkStmt.Exec(l.ID, string(data)); err != nil {
			return fmt.Errorf("storing link %s: %w", l.ID, err)
		}
	}

	collStmt, err := tx.Prepare(`INSERT INTO collections (id, data) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer collStmt.Close()

	for _, col := range snap.Collections {
		data, err := json.Marshal(col)
		if err != nil {
			return fmt.Errorf("encoding collection %s: %w", col.ID, err)
		}
		if _, err := collStmt.Exec(col.ID, string(data)); err != nil {
			return fmt.Errorf("storing collection %s: %w", col.ID, err)
		}
	}

	if err := setMeta(tx, "fetched_at", snap.FetchedAt.Format(time.RFC3339)); err != nil {
		return err
	}
	profile := ""
	if snap.Profile != nil {
		data, err := json.Marshal(snap.Profile)
		if err != nil {
			return fmt.Errorf("encoding profile: %w", err)
		}
		profile = string(data)
	}
	if err := setMeta(tx, "profile", profile); err != nil {
		return err
	}

	return tx.Commit()
}

func setMeta(tx *sql.Tx, key, value string) error {
	_, err := tx.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("storing meta %s: %w", key, err)
	}
	return nil
}

// Load restores the stored snapshot. The second return is false when nothing
// was ever saved.
func (c *Cache) Load() (store.Snapshot, bool, error) {
	var fetchedAt string
	err := c.readDB.QueryRow(`SELECT value FROM meta WHERE key = 'fetched_at'`).Scan(&fetchedAt)
	if err == sql.ErrNoRows {
		return store.Snapshot{}, false, nil
	}
	if err != nil {
		return store.Snapshot{}, false, fmt.Errorf("reading meta: %w", err)
	}

	snap := store.Snapshot{Populated: true}
	if t, err := time.Parse(time.RFC3339, fetchedAt); err == nil {
		snap.FetchedAt = t
	}

	rows, err := c.readDB.Query(`SELECT data FROM links`)
	if err != nil {
		return store.Snapshot{}, false, fmt.Errorf("reading links: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return store.Snapshot{}, false, fmt.Errorf("scanning link: %w", err)
		}
		var l gateway.Link
		if err := json.Unmarshal([]byte(data), &l); err != nil {
			return store.Snapshot{}, false, fmt.Errorf("decoding link: %w", err)
		}
		snap.Links = append(snap.Links, l)
	}
	if err := rows.Err(); err != nil {
		return store.Snapshot{}, false, err
	}

	collRows, err := c.readDB.Query(`SELECT data FROM collections`)
	if err != nil {
		return store.Snapshot{}, false, fmt.Errorf("reading collections: %w", err)
	}
	defer collRows.Close()
	for collRows.Next() {
		var data string
		if err := collRows.Scan(&data); err != nil {
			return store.Snapshot{}, false, fmt.Errorf("scanning collection: %w", err)
		}
		var col gateway.Collection
		if err := json.Unmarshal([]byte(data), &col); err != nil {
			return store.Snapshot{}, false, fmt.Errorf("decoding collection: %w", err)
		}
		snap.Collections = append(snap.Collections, col)
	}
	if err := collRows.Err(); err != nil {
		return store.Snapshot{}, false, err
	}

	var profileJSON string
	if err := c.readDB.QueryRow(`SELECT value FROM meta WHERE key = 'profile'`).Scan(&profileJSON); err == nil && profileJSON != "" {
		var p gateway.Profile
		if err := json.Unmarshal([]byte(profileJSON), &p); err == nil {
			snap.Profile = &p
		}
	}

	return snap, true, nil
}

// Clear wipes the stored snapshot. Used on logout and after a data wipe.
func (c *Cache) Clear() error {
	for _, stmt := range []string{`DELETE FROM links`, `DELETE FROM collections`, `DELETE FROM meta`} {
		if _, err := c.writeDB.Exec(stmt); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
	}
	return nil
}

// Stats reports the number of cached links and the db file size.
func (c *Cache) Stats(dbPath string) (count int, size int64, err error) {
	if err := c.readDB.QueryRow(`SELECT COUNT(*) FROM links`).Scan(&count); err != nil {
		return 0, 0, fmt.Errorf("counting links: %w", err)
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, nil
	}
	return count, info.Size(), nil
}
