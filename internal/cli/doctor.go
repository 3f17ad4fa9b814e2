package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/sitelit/internal/calendar"
	"github.com/julianstephens/sitelit/internal/keyring"
	"github.com/julianstephens/sitelit/internal/kvstore"
	"github.com/julianstephens/sitelit/internal/page"
	"github.com/julianstephens/sitelit/internal/source"
)

type DoctorCmd struct {
	Timeout time.Duration `help:"Timeout for each remote check." default:"10s"`
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	out := ctx.out()
	fmt.Fprintln(out, "Running diagnostics...")
	fmt.Fprintln(out)

	hasError := false
	report := func(name string, err error) {
		if err != nil {
			fmt.Fprintf(out, "❌ %s: FAIL\n", name)
			fmt.Fprintf(out, "   Error: %v\n", err)
			hasError = true
			return
		}
		fmt.Fprintf(out, "✓ %s: OK\n", name)
	}
	warn := func(name string, err error) {
		if err != nil {
			fmt.Fprintf(out, "⚠ %s: WARNING\n", name)
			fmt.Fprintf(out, "   %v\n", err)
			return
		}
		fmt.Fprintf(out, "✓ %s: OK\n", name)
	}

	storeErr := checkStore(ctx.Store)
	report("Store reachable", storeErr)
	if r, ok := ctx.Store.(kvstore.SchemaReporter); ok && storeErr == nil {
		report("Schema version", checkSchema(r))
	}

	doc, err := cmd.checkPage(ctx)
	report("Page loads", err)
	if doc != nil {
		warn("Progress anchors", boolCheck(doc.HasProgress(), "page has no progress anchors"))
		warn("Calendar anchors", boolCheck(doc.HasCalendar(), "page has no calendar anchors"))
	} else {
		fmt.Fprintln(out, "⊘ Page anchors: SKIPPED (page not loaded)")
	}

	warn("Projects document", cmd.checkDocument(ctx, ctx.Config.Sources.Projects))
	warn("Events document", cmd.checkDocument(ctx, ctx.Config.Sources.Events))
	if ctx.Config.Sources.Schedule != "" {
		warn("Schedule endpoint", cmd.checkSchedule(ctx))
	}

	report("Locale", boolCheck(calendar.SupportedLocale(ctx.Config.Locale),
		fmt.Sprintf("unsupported locale %q", ctx.Config.Locale)))
	warn("OS keyring", boolCheck(keyring.IsAvailable(), "keyring unavailable, secrets must come from the environment"))
	report("Clock/timezone", checkClockTimezone())

	fmt.Fprintln(out)
	if hasError {
		fmt.Fprintln(out, "Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	fmt.Fprintln(out, "All diagnostics passed!")
	return nil
}

func checkStore(store kvstore.Provider) error {
	if err := store.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	if _, err := store.Get("doctor-probe"); err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		return fmt.Errorf("failed to read store: %w", err)
	}
	return nil
}

func checkSchema(r kvstore.SchemaReporter) error {
	st, err := r.SchemaStatus()
	if err != nil {
		return err
	}
	if n := st.Pending(); n > 0 {
		return fmt.Errorf("store is at version %d, %d migration(s) pending; run 'sitelit init'", st.Current, n)
	}
	return nil
}

func (cmd *DoctorCmd) checkPage(ctx *Context) (*page.Document, error) {
	c, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()
	return page.Load(c, source.NewFetcher(ctx.Config.Site.Root), ctx.Config.Site.Page)
}

func (cmd *DoctorCmd) checkDocument(ctx *Context, location string) error {
	c, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()
	var v any
	return source.NewFetcher(ctx.Config.Site.Root).FetchJSON(c, location, &v)
}

func (cmd *DoctorCmd) checkSchedule(ctx *Context) error {
	if err := ctx.Config.ResolveScheduleToken(); err != nil {
		return err
	}
	c, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()
	f := source.NewFetcher(ctx.Config.Site.Root).WithToken(ctx.Config.ScheduleToken)
	var v any
	return f.FetchJSON(c, ctx.Config.Sources.Schedule, &v)
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func boolCheck(ok bool, msg string) error {
	if ok {
		return nil
	}
	return errors.New(msg)
}
