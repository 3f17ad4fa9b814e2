// Package backup keeps timestamped snapshots of file-backed checkbox state
// stores next to the store itself.
package backup

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/sitelit/internal/constants"
	"github.com/julianstephens/sitelit/internal/logger"
)

const (
	// MaxSnapshots is the number of snapshots kept per store
	MaxSnapshots = 14
	DirName      = "backups"

	timestampFormat      = "20060102-150405"
	shortTimestampFormat = "20060102-1504"
)

// ErrNoStore is returned when the store file does not exist yet.
var ErrNoStore = errors.New("store does not exist")

// Snapshot describes one backup file.
type Snapshot struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager snapshots and restores the store at storePath. SQLite stores are
// copied with VACUUM INTO, JSON stores byte for byte.
type Manager struct {
	storePath string
	dir       string
	ext       string
	now       func() time.Time
}

func NewManager(storePath string) *Manager {
	ext := filepath.Ext(storePath)
	if ext == "" {
		ext = ".db"
	}
	return &Manager{
		storePath: storePath,
		dir:       filepath.Join(filepath.Dir(storePath), DirName),
		ext:       ext,
		now:       time.Now,
	}
}

func (m *Manager) Dir() string {
	return m.dir
}

func (m *Manager) isSQLite() bool {
	return !strings.EqualFold(m.ext, ".json")
}

func (m *Manager) prefix() string {
	return constants.AppName + "-"
}

// Create writes a new snapshot and prunes the oldest beyond MaxSnapshots.
func (m *Manager) Create() (string, error) {
	path, err := m.create()
	if err != nil {
		return "", err
	}
	if err := m.prune(); err != nil {
		logger.Warn("Failed to prune old snapshots", "dir", m.dir, "error", err)
	}
	return path, nil
}

func (m *Manager) create() (string, error) {
	if _, err := os.Stat(m.storePath); errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNoStore, m.storePath)
	}
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	stamp := m.now().Format(timestampFormat)
	path := filepath.Join(m.dir, m.prefix()+stamp+m.ext)
	for i := 1; fileExists(path); i++ {
		if i > 100 {
			return "", errors.New("failed to generate unique snapshot name")
		}
		path = filepath.Join(m.dir, fmt.Sprintf("%s%s-%d%s", m.prefix(), stamp, i, m.ext))
	}

	if m.isSQLite() {
		if err := vacuumInto(m.storePath, path); err != nil {
			return "", err
		}
	} else if err := copyFile(m.storePath, path); err != nil {
		return "", fmt.Errorf("failed to copy store: %w", err)
	}

	logger.Info("Created snapshot", "path", path)
	return path, nil
}

func vacuumInto(src, dst string) error {
	db, err := sql.Open("sqlite", src+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	if err := verify(db); err != nil {
		return fmt.Errorf("store appears to be corrupted: %w", err)
	}
	if _, err := db.Exec("VACUUM INTO ?", dst); err != nil {
		db.Close()
		return copyFile(src, dst)
	}
	return nil
}

func verify(db *sql.DB) error {
	var n int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&n)
}

// List returns the snapshots of this store, newest first.
func (m *Manager) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(m.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var out []Snapshot
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, m.prefix()) || !strings.HasSuffix(name, m.ext) {
			continue
		}
		ts, ok := parseStamp(strings.TrimSuffix(strings.TrimPrefix(name, m.prefix()), m.ext))
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, Snapshot{Path: filepath.Join(m.dir, name), Timestamp: ts, Size: info.Size()})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Path > out[j].Path
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// parseStamp accepts YYYYMMDD-HHMMSS with an optional -N counter.
func parseStamp(s string) (time.Time, bool) {
	parts := strings.Split(s, "-")
	if len(parts) == 3 {
		s = parts[0] + "-" + parts[1]
	}
	for _, layout := range []string{timestampFormat, shortTimestampFormat} {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func (m *Manager) prune() error {
	snaps, err := m.List()
	if err != nil {
		return err
	}
	for i := MaxSnapshots; i < len(snaps); i++ {
		if err := os.Remove(snaps[i].Path); err != nil {
			return fmt.Errorf("failed to remove old snapshot %s: %w", snaps[i].Path, err)
		}
	}
	return nil
}

// Restore replaces the store with the snapshot at path. The current store is
// snapshotted first and that snapshot path is returned.
func (m *Manager) Restore(path string) (string, error) {
	if !fileExists(path) {
		return "", fmt.Errorf("snapshot does not exist: %s", path)
	}
	if m.isSQLite() {
		db, err := sql.Open("sqlite", path)
		if err != nil {
			return "", err
		}
		err = verify(db)
		db.Close()
		if err != nil {
			return "", fmt.Errorf("snapshot is corrupted or invalid: %w", err)
		}
	}

	var previous string
	if fileExists(m.storePath) {
		p, err := m.create()
		if err != nil {
			return "", fmt.Errorf("failed to snapshot current store before restore: %w", err)
		}
		previous = p
	}

	tmp := m.storePath + ".restore.tmp"
	if err := copyFile(path, tmp); err != nil {
		return "", fmt.Errorf("failed to copy snapshot: %w", err)
	}
	if err := os.Rename(tmp, m.storePath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tmp, "error", rmErr)
		}
		return "", fmt.Errorf("failed to restore store: %w", err)
	}
	return previous, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
