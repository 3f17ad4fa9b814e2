package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/sitelit/internal/backup"
	"github.com/julianstephens/sitelit/internal/calendar"
	"github.com/julianstephens/sitelit/internal/config"
	"github.com/julianstephens/sitelit/internal/kvstore"
	"github.com/julianstephens/sitelit/internal/logger"
)

type InitCmd struct {
	Force       bool `help:"Delete an existing store file before initialization."`
	Interactive bool `short:"i" help:"Answer questions to write the config file."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if c.Interactive {
		if err := newWizard(ctx.Config).Run(); err != nil {
			return err
		}
		if err := ctx.Config.Save(ctx.ConfigPath); err != nil {
			return err
		}
		fmt.Fprintf(ctx.out(), "Wrote config to: %s\n", config.ExpandHome(ctx.ConfigPath))
		ctx.Config.Store = config.ExpandHome(ctx.Config.Store)

		store, err := NewStore(ctx.Config)
		if err != nil {
			return err
		}
		ctx.Store = store
	}

	if c.Force && !kvstore.IsPostgres(ctx.Config.Store) {
		path := ctx.Store.GetConfigPath()
		if _, err := os.Stat(path); err == nil {
			if snap, err := backup.NewManager(path).Create(); err != nil {
				logger.Warn("Failed to snapshot store before reset", "error", err)
			} else {
				fmt.Fprintf(ctx.out(), "Saved existing store as: %s\n", snap)
			}
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing store: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing store: %w", err)
			}
			fmt.Fprintf(ctx.out(), "Deleted existing store at: %s\n", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to access existing store: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Fprintf(ctx.out(), "Initialized sitelit storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}

func newWizard(cfg *config.Config) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Site root").
				Description("Directory or http(s) URL the page and documents are read from").
				Value(&cfg.Site.Root).
				Validate(notEmpty("site root")),
			huh.NewInput().
				Title("Page").
				Value(&cfg.Site.Page),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Projects document").
				Value(&cfg.Sources.Projects),
			huh.NewInput().
				Title("Events document").
				Value(&cfg.Sources.Events),
			huh.NewInput().
				Title("Schedule endpoint").
				Description("Optional remote event source tried before the events document").
				Value(&cfg.Sources.Schedule),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Store").
				Description("SQLite path, .json path or postgres:// URL without password").
				Value(&cfg.Store).
				Validate(func(s string) error {
					if kvstore.IsPostgres(s) && kvstore.HasEmbeddedCredentials(s) {
						return kvstore.ErrEmbeddedCredentials
					}
					return notEmpty("store")(s)
				}),
			huh.NewSelect[string]().
				Title("Locale").
				Options(
					huh.NewOption("Español", "es_ES"),
					huh.NewOption("English", "en_US"),
				).
				Value(&cfg.Locale).
				Validate(func(s string) error {
					if !calendar.SupportedLocale(s) {
						return fmt.Errorf("unsupported locale %q", s)
					}
					return nil
				}),
		),
	)
}

func notEmpty(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}
