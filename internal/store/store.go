package store

import (
	"database/sql"
	"fmt"

	"github.com/rnwolfe/hobbit/internal/config"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the hobbit database.
func Open() (*DB, error) {
	paths := config.GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("creating data dirs: %w", err)
	}
	return OpenPath(paths.DBFile)
}

// OpenPath opens a database at an explicit path. Used by tests and import.
func OpenPath(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Performance pragmas
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the raw sql.DB for direct queries.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// migrate runs all schema migrations.
func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		// Habits and sub-habits share one table. A sub-habit is a row with
		// parent_id set; nesting stops at one level (enforced in code).
		`CREATE TABLE IF NOT EXISTS habits (
			id TEXT PRIMARY KEY,
			parent_id TEXT REFERENCES habits(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			goal REAL NOT NULL DEFAULT 0,
			unit TEXT NOT NULL DEFAULT '',
			frequency TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL DEFAULT 0,
			expanded INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		// One row per (habit, sub, day). sub_id is '' for the habit's own
		// check-ins. value is NULL for binary check-ins and holds the logged
		// number for quantitative ones.
		`CREATE TABLE IF NOT EXISTS checkins (
			habit_id TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
			sub_id TEXT NOT NULL DEFAULT '',
			day TEXT NOT NULL,
			value REAL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (habit_id, sub_id, day)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_habits_parent ON habits(parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_checkins_day ON checkins(day)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	return nil
}
