// Package summary stores a snapshot of a project index in SQLite.
package summary

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/agentic-research/cardweave/internal/config"
	"github.com/agentic-research/cardweave/internal/project"
)

const schema = `
CREATE TABLE fragments (
	name TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	path TEXT NOT NULL,
	has_metadata INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX idx_fragments_kind ON fragments(kind);

CREATE TABLE configurations (
	name TEXT PRIMARY KEY REFERENCES fragments(name),
	overrides TEXT,
	error TEXT
);
`

// Configuration is one row of the configurations table.
type Configuration struct {
	Name      string
	Overrides string // empty for root configurations
	Error     string // set when the file could not be decoded
}

// Summary is the content of a summary database.
type Summary struct {
	Fragments      []project.Entry
	Configurations []Configuration
}

// Write replaces dbPath with a summary of p. Configurations that fail to
// decode are recorded with their error instead of aborting the write.
func Write(dbPath string, p *project.Project) error {
	if err := os.Remove(dbPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove old summary %s: %w", dbPath, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }() // safe to ignore

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	stmtFrag, err := tx.Prepare(`INSERT INTO fragments (name, kind, path, has_metadata) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmtFrag.Close() }()

	for _, e := range p.Index.Entries() {
		if _, err := stmtFrag.Exec(e.Name, e.Kind.String(), e.Path, e.HasMetadata); err != nil {
			return fmt.Errorf("insert fragment %s: %w", e.Name, err)
		}
	}

	stmtConf, err := tx.Prepare(`INSERT INTO configurations (name, overrides, error) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmtConf.Close() }()

	resolver := config.NewResolver(p.FS, p.Index, nil)
	for _, name := range p.Index.Configurations() {
		var overrides, loadErr sql.NullString
		rec, err := resolver.Load(name)
		if err != nil {
			loadErr = sql.NullString{String: err.Error(), Valid: true}
		} else if rec.Overrides != "" {
			overrides = sql.NullString{String: rec.Overrides, Valid: true}
		}
		if _, err := stmtConf.Exec(name, overrides, loadErr); err != nil {
			return fmt.Errorf("insert configuration %s: %w", name, err)
		}
	}

	return tx.Commit()
}

// Load reads a summary written by Write. Rows come back sorted by name.
func Load(dbPath string) (*Summary, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("open summary: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }() // safe to ignore

	s := &Summary{}

	rows, err := db.Query(`SELECT name, kind, path, has_metadata FROM fragments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query fragments: %w", err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore
	for rows.Next() {
		var (
			e    project.Entry
			kind string
		)
		if err := rows.Scan(&e.Name, &kind, &e.Path, &e.HasMetadata); err != nil {
			return nil, fmt.Errorf("scan fragment: %w", err)
		}
		k, ok := project.ParseKind(kind)
		if !ok {
			return nil, fmt.Errorf("fragment %s: unknown kind %q", e.Name, kind)
		}
		e.Kind = k
		s.Fragments = append(s.Fragments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	crows, err := db.Query(`SELECT name, overrides, error FROM configurations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query configurations: %w", err)
	}
	defer func() { _ = crows.Close() }() // safe to ignore
	for crows.Next() {
		var (
			c              Configuration
			overrides, msg sql.NullString
		)
		if err := crows.Scan(&c.Name, &overrides, &msg); err != nil {
			return nil, fmt.Errorf("scan configuration: %w", err)
		}
		c.Overrides, c.Error = overrides.String, msg.String
		s.Configurations = append(s.Configurations, c)
	}
	return s, crows.Err()
}
