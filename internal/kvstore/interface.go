// Package kvstore persists small string values by key. The legacy progress
// tracker keeps its checkbox state here.
package kvstore

import (
	"errors"
	"strings"

	"github.com/julianstephens/sitelit/internal/migration"
)

var (
	// ErrNotFound is returned by Get when the key has never been written
	ErrNotFound = errors.New("key not found")
	// ErrNotInitialized is returned by Load when the store does not exist yet
	ErrNotInitialized = errors.New("store not initialized, run 'sitelit init' first")
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Entries
	Get(key string) (string, error)
	Set(key, value string) error

	// Utils
	GetConfigPath() string
}

// SchemaReporter is implemented by the SQL-backed providers.
type SchemaReporter interface {
	SchemaStatus() (migration.Status, error)
}

// IsPostgres reports whether store names a PostgreSQL connection string.
func IsPostgres(store string) bool {
	return strings.HasPrefix(store, "postgres://") || strings.HasPrefix(store, "postgresql://")
}

// Open returns the provider matching store: a PostgreSQL connection string,
// a path ending in .json, or otherwise a SQLite database path. The provider
// is not loaded.
func Open(store string) (Provider, error) {
	switch {
	case IsPostgres(store):
		if HasEmbeddedCredentials(store) {
			return nil, ErrEmbeddedCredentials
		}
		return NewPostgresStore(store), nil
	case strings.HasSuffix(strings.ToLower(store), ".json"):
		return NewJSONStore(store), nil
	case store == "":
		return nil, errors.New("store path cannot be empty")
	default:
		return NewSQLiteStore(store), nil
	}
}
