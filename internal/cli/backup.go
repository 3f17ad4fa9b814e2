package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/julianstephens/sitelit/internal/backup"
	"github.com/julianstephens/sitelit/internal/kvstore"
	"github.com/julianstephens/sitelit/internal/logger"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Snapshot the checkbox state store." default:"1"`
	List    BackupListCmd    `cmd:"" help:"List store snapshots."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore the store from a snapshot."`
}

func (c *Context) backupManager() (*backup.Manager, error) {
	if kvstore.IsPostgres(c.Config.Store) {
		return nil, errors.New("snapshots are only available for file stores; use pg_dump for PostgreSQL")
	}
	return backup.NewManager(c.Config.Store), nil
}

// PerformAutomaticBackup snapshots file stores and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.backupManager()
	if err != nil {
		return
	}
	if _, err := mgr.Create(); err != nil && !errors.Is(err, backup.ErrNoStore) {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	path, err := mgr.Create()
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.out(), "Created snapshot: %s\n", path)
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	snaps, err := mgr.List()
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Fprintf(ctx.out(), "No snapshots in %s\n", mgr.Dir())
		return nil
	}

	w := tabwriter.NewWriter(ctx.out(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tSIZE\tPATH")
	for _, s := range snaps {
		fmt.Fprintf(w, "%s\t%d\t%s\n", s.Timestamp.Format("2006-01-02 15:04:05"), s.Size, s.Path)
	}
	return w.Flush()
}

type BackupRestoreCmd struct {
	Path string `arg:"" help:"Snapshot file to restore." type:"existingfile"`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	previous, err := mgr.Restore(c.Path)
	if err != nil {
		return err
	}
	if previous != "" {
		fmt.Fprintf(ctx.out(), "Saved current store as: %s\n", previous)
	}
	fmt.Fprintf(ctx.out(), "Restored %s from %s\n", ctx.Config.Store, c.Path)
	return nil
}
