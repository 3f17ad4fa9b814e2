// Package migration applies numbered SQL files to a store database and
// records the schema version in a one-row table.
package migration

import (
	"cmp"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
)

// ErrSchemaTooNew is returned when the database was migrated by a newer sitelit.
var ErrSchemaTooNew = errors.New("store schema is newer than this version of sitelit supports")

// Dialect selects the bind placeholder style of the target database.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// Migration is one NNN_name.sql file.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Status compares the recorded schema version with the embedded files.
type Status struct {
	Current int
	Latest  int
}

// Pending is the number of versions not applied yet.
func (s Status) Pending() int {
	return max(s.Latest-s.Current, 0)
}

func (s Status) check() error {
	if s.Current > s.Latest {
		return fmt.Errorf("%w: store is at version %d, latest known is %d", ErrSchemaTooNew, s.Current, s.Latest)
	}
	return nil
}

type Runner struct {
	db      *sql.DB
	files   fs.FS
	dialect Dialect
}

func NewRunner(db *sql.DB, files fs.FS, dialect Dialect) *Runner {
	return &Runner{db: db, files: files, dialect: dialect}
}

func (r *Runner) placeholder() string {
	if r.dialect == Postgres {
		return "$1"
	}
	return "?"
}

// EnsureSchemaVersionTable creates the schema_version table if it doesn't exist
func (r *Runner) EnsureSchemaVersionTable() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`)
	return err
}

// Current returns the recorded schema version, 0 for a fresh database.
func (r *Runner) Current() (int, error) {
	if err := r.EnsureSchemaVersionTable(); err != nil {
		return 0, fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var v int
	switch err := r.db.QueryRow("SELECT version FROM schema_version").Scan(&v); {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

// parseName splits "007_add_index.sql" into 7 and "add_index".
func parseName(file string) (int, string, error) {
	prefix, name, ok := strings.Cut(strings.TrimSuffix(file, ".sql"), "_")
	if !ok {
		return 0, "", fmt.Errorf("migration %s: expected NNN_name.sql", file)
	}
	v, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, "", fmt.Errorf("migration %s: bad version: %w", file, err)
	}
	if v < 1 {
		return 0, "", fmt.Errorf("migration %s: version must be at least 1", file)
	}
	return v, name, nil
}

// Migrations reads the .sql files in version order. Other files are ignored.
func (r *Runner) Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(r.files, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	var out []Migration
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".sql" {
			continue
		}
		v, name, err := parseName(e.Name())
		if err != nil {
			return nil, err
		}
		body, err := fs.ReadFile(r.files, e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", e.Name(), err)
		}
		out = append(out, Migration{Version: v, Name: name, SQL: string(body)})
	}

	slices.SortFunc(out, func(a, b Migration) int { return cmp.Compare(a.Version, b.Version) })
	for i := 1; i < len(out); i++ {
		if out[i].Version == out[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", out[i].Version)
		}
	}
	return out, nil
}

// Status reports the recorded and the latest available schema version.
func (r *Runner) Status() (Status, error) {
	current, err := r.Current()
	if err != nil {
		return Status{}, err
	}
	ms, err := r.Migrations()
	if err != nil {
		return Status{}, err
	}
	s := Status{Current: current}
	if len(ms) > 0 {
		s.Latest = ms[len(ms)-1].Version
	}
	return s, nil
}

// Apply runs every migration above the recorded version, one transaction
// each, and returns how many ran. logFn may be nil.
func (r *Runner) Apply(logFn func(string)) (int, error) {
	st, err := r.Status()
	if err != nil {
		return 0, err
	}
	if err := st.check(); err != nil {
		return 0, err
	}
	if st.Pending() == 0 {
		return 0, nil
	}

	ms, err := r.Migrations()
	if err != nil {
		return 0, err
	}

	n := 0
	for _, m := range ms {
		if m.Version <= st.Current {
			continue
		}
		if err := r.applyOne(m); err != nil {
			return n, err
		}
		n++
		if logFn != nil {
			logFn(fmt.Sprintf("Applied migration %d: %s", m.Version, m.Name))
		}
	}
	return n, nil
}

func (r *Runner) applyOne(m Migration) (err error) {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("migration %d: begin: %w", m.Version, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(m.SQL); err != nil {
		return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
	}
	if _, err = tx.Exec("DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("migration %d: clear version: %w", m.Version, err)
	}
	if _, err = tx.Exec("INSERT INTO schema_version (version) VALUES ("+r.placeholder()+")", m.Version); err != nil {
		return fmt.Errorf("migration %d: record version: %w", m.Version, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("migration %d: commit: %w", m.Version, err)
	}
	return nil
}

// Validate fails with ErrSchemaTooNew when the store is ahead of the embedded files.
func (r *Runner) Validate() error {
	st, err := r.Status()
	if err != nil {
		return err
	}
	return st.check()
}
