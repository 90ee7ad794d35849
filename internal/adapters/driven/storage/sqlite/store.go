// Package sqlite keeps the ingestion history in a SQLite file through
// modernc.org/sqlite, so the binary stays free of cgo. The schema is a
// series of numbered migrations embedded from migrations/; applied
// versions are recorded in schema_migrations.
package sqlite

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/custodia-labs/curricula/internal/core/ports/driven"
)

const dbFile = "curricula.db"

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Store is an open database. It is safe for concurrent use; SQLite runs
// in WAL mode with a busy timeout so readers do not block the writer.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens dir/curricula.db and brings the schema up to date. An
// empty dir means ~/.curricula/data.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locate home directory: %w", err)
		}
		dir = filepath.Join(home, ".curricula", "data")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	path := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	s := &Store{db: db, path: path}
	scripts, _ := fs.Sub(migrationFiles, "migrations")
	if err := s.migrate(scripts); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Path() string { return s.path }

// RunStore exposes the ingest_runs table. Closing it closes s.
func (s *Store) RunStore() driven.RunStore {
	return &runStore{db: s.db, closer: s}
}

// SchemaVersion is the newest applied migration, 0 for a fresh file.
func (s *Store) SchemaVersion() (int, error) {
	var v int
	err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

type migration struct {
	version int
	file    string
}

// pending lists the NNN_name.up.sql files in fsys newer than applied,
// oldest first. Files without a numeric prefix are ignored.
func pending(fsys fs.FS, applied int) ([]migration, error) {
	names, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return nil, err
	}
	var out []migration
	for _, name := range names {
		prefix, _, ok := strings.Cut(name, "_")
		if !ok {
			continue
		}
		v, err := strconv.Atoi(prefix)
		if err != nil || v <= applied {
			continue
		}
		out = append(out, migration{version: v, file: name})
	}
	slices.SortFunc(out, func(a, b migration) int { return a.version - b.version })
	return out, nil
}

// migrate runs each pending script in its own transaction together with
// its schema_migrations row.
func (s *Store) migrate(fsys fs.FS) error {
	const bootstrap = `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := s.db.Exec(bootstrap); err != nil {
		return err
	}

	applied, err := s.SchemaVersion()
	if err != nil {
		return err
	}
	todo, err := pending(fsys, applied)
	if err != nil {
		return err
	}

	for _, m := range todo {
		script, err := fs.ReadFile(fsys, m.file)
		if err != nil {
			return err
		}
		if err := s.apply(m.version, string(script)); err != nil {
			return fmt.Errorf("%s: %w", m.file, err)
		}
	}
	return nil
}

func (s *Store) apply(version int, script string) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(script); err != nil {
		return err
	}
	if _, err = tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
		return err
	}
	return tx.Commit()
}
