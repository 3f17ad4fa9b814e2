package kvstore

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/sitelit/internal/logger"
	"github.com/julianstephens/sitelit/internal/migration"
	"github.com/julianstephens/sitelit/migrations"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.runner().apply(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return ErrNotInitialized
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	return s.runner().validate()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) runner() schemaRunner {
	return schemaRunner{db: s.db, dir: "sqlite", dialect: migration.SQLite}
}

// SchemaStatus reports the applied and latest schema versions.
func (s *SQLiteStore) SchemaStatus() (migration.Status, error) {
	return s.runner().status()
}

func (s *SQLiteStore) Get(key string) (string, error) {
	if s.db == nil {
		return "", fmt.Errorf("store not loaded")
	}
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) Set(key, value string) error {
	if s.db == nil {
		return fmt.Errorf("store not loaded")
	}
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

// schemaRunner binds the embedded migrations of one backend to its database.
type schemaRunner struct {
	db      *sql.DB
	dir     string
	dialect migration.Dialect
}

func (r schemaRunner) newRunner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s migrations: %w", r.dir, err)
	}
	return migration.NewRunner(r.db, subFS, r.dialect), nil
}

func (r schemaRunner) apply() error {
	runner, err := r.newRunner()
	if err != nil {
		return err
	}
	_, err = runner.Apply(func(msg string) {
		logger.Info(msg, "store", r.dir)
	})
	return err
}

func (r schemaRunner) validate() error {
	runner, err := r.newRunner()
	if err != nil {
		return err
	}
	return runner.Validate()
}

func (r schemaRunner) status() (migration.Status, error) {
	if r.db == nil {
		return migration.Status{}, fmt.Errorf("store not loaded")
	}
	runner, err := r.newRunner()
	if err != nil {
		return migration.Status{}, err
	}
	return runner.Status()
}
