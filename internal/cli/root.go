package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/sitelit/internal/calendar"
	"github.com/julianstephens/sitelit/internal/config"
	"github.com/julianstephens/sitelit/internal/constants"
	"github.com/julianstephens/sitelit/internal/kvstore"
	"github.com/julianstephens/sitelit/internal/logger"
	"github.com/julianstephens/sitelit/internal/site"
	"github.com/julianstephens/sitelit/internal/source"
)

// Context is shared by every command.
type Context struct {
	Config     *config.Config
	ConfigPath string
	Store      kvstore.Provider
	// Now overrides the clock, for tests.
	Now func() time.Time
	// Out receives command output. Stdout when nil.
	Out io.Writer
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// NewStore returns the provider for cfg.Store. PostgreSQL connection strings
// resolved from the environment or the keyring may carry a password.
func NewStore(cfg *config.Config) (kvstore.Provider, error) {
	if !kvstore.IsPostgres(cfg.Store) {
		return kvstore.Open(cfg.Store)
	}
	conn, fromSecret, err := cfg.ResolveConnString()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve connection string: %w", err)
	}
	if fromSecret {
		if err := kvstore.ValidateConnString(conn); err != nil {
			return nil, err
		}
		return kvstore.NewPostgresStore(conn), nil
	}
	return kvstore.Open(conn)
}

// LoadStore loads the store and reports whether it can persist writes. A store
// that cannot be loaded is replaced with an in-memory one so pages still render.
func (c *Context) LoadStore() (kvstore.Provider, bool) {
	if err := c.Store.Load(); err != nil {
		if errors.Is(err, kvstore.ErrNotInitialized) {
			logger.Warn("Store not initialized, checkbox changes are disabled", "store", c.Store.GetConfigPath())
		} else {
			logger.Error("Failed to load store", "store", c.Store.GetConfigPath(), "error", err)
		}
		c.Store = kvstore.NewMemoryStore()
		return c.Store, false
	}
	return c.Store, true
}

// SiteOptions describes the configured site. month and openDate may be empty.
func (c *Context) SiteOptions(month, openDate string) (site.Options, error) {
	cfg := c.Config
	if err := cfg.ResolveScheduleToken(); err != nil {
		logger.Warn("Cannot read schedule token from keyring", "error", err)
	}

	fetcher := source.NewFetcher(cfg.Site.Root)
	store, persistent := c.LoadStore()
	opts := site.Options{
		Fetcher:  fetcher,
		Page:     cfg.Site.Page,
		Projects: cfg.Sources.Projects,
		Events:   cfg.Sources.Events,
		Schedule: cfg.Sources.Schedule,
		Locale:   cfg.Locale,
		Store:    store,
		ReadOnly: !persistent,
		OpenDate: openDate,
		Now:      c.Now,
	}
	if cfg.Sources.Schedule != "" {
		opts.ScheduleFetcher = fetcher.WithToken(cfg.ScheduleToken)
	}
	if month != "" {
		m, err := calendar.ParseMonth(month)
		if err != nil {
			return site.Options{}, err
		}
		opts.Month = m
	}
	if openDate != "" {
		if _, err := time.Parse(constants.DateFormat, openDate); err != nil {
			return site.Options{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", openDate)
		}
	}
	return opts, nil
}
