package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/sitelit/internal/config"
	"github.com/julianstephens/sitelit/internal/render"
	"github.com/julianstephens/sitelit/internal/site"
)

// ProgressCmd prints the aggregated progress of the configured page.
type ProgressCmd struct {
	JSON bool `help:"Print the summary and initiatives as JSON."`
}

func (c *ProgressCmd) Run(ctx *Context) error {
	s, err := ctx.build("", "")
	if err != nil {
		return err
	}
	if !s.HasProgress {
		fmt.Fprintln(ctx.out(), "Page has no progress anchors.")
		return nil
	}

	if c.JSON {
		return writeJSON(ctx.out(), map[string]any{
			"summary":     s.Progress.Summary,
			"initiatives": s.Progress.Initiatives,
		})
	}
	fmt.Fprintln(ctx.out(), render.ProgressView(s.Progress.Summary, s.Progress.Initiatives, 40, -1))
	return nil
}

// CalendarCmd prints the month grid, or the overlay of one day.
type CalendarCmd struct {
	Month string `arg:"" optional:"" help:"Month to show (YYYY-MM). Defaults to the current month."`
	Day   string `help:"Show the events of one day (YYYY-MM-DD)."`
	JSON  bool   `help:"Print the grid or overlay as JSON."`
}

func (c *CalendarCmd) Run(ctx *Context) error {
	month := c.Month
	if month == "" && len(c.Day) >= 7 {
		month = c.Day[:7]
	}
	s, err := ctx.build(month, "")
	if err != nil {
		return err
	}
	if !s.HasCalendar {
		fmt.Fprintln(ctx.out(), "Page has no calendar anchors.")
		return nil
	}
	e := s.Calendar

	if c.Day != "" {
		ov, err := e.Open(c.Day)
		if err != nil {
			return fmt.Errorf("%s: %w", c.Day, err)
		}
		if c.JSON {
			return writeJSON(ctx.out(), ov)
		}
		fmt.Fprintln(ctx.out(), render.OverlayCard(ov, 60))
		return nil
	}

	g := e.Grid()
	if c.JSON {
		return writeJSON(ctx.out(), g.View(e.Source()))
	}
	fmt.Fprintln(ctx.out(), render.MonthView(g, e.Format(), ""))
	fmt.Fprintln(ctx.out(), render.MutedStyle.Render(fmt.Sprintf("%d eventos · fuente: %s", e.Index().Len(), e.Source())))
	return nil
}

// RenderCmd writes the fully painted page.
type RenderCmd struct {
	Output string `short:"o" help:"Write the page to this file instead of stdout."`
	Month  string `help:"Month to paint (YYYY-MM)."`
	Open   string `help:"Open the overlay of this day (YYYY-MM-DD)."`
}

func (c *RenderCmd) Run(ctx *Context) error {
	s, err := ctx.build(c.Month, c.Open)
	if err != nil {
		return err
	}
	if c.Output == "" {
		return s.Render(ctx.out())
	}

	path := config.ExpandHome(c.Output)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := s.Render(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(ctx.out(), "Wrote %s\n", path)
	return nil
}

// CheckCmd toggles a legacy checkbox and persists its state.
type CheckCmd struct {
	Name    string `arg:"" help:"Checkbox name."`
	Uncheck bool   `help:"Clear the checkbox instead of setting it."`
}

func (c *CheckCmd) Run(ctx *Context) error {
	s, err := ctx.build("", "")
	if err != nil {
		return err
	}

	summary, err := s.Toggle(c.Name, !c.Uncheck)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.out(), summary.Sentence())
	return nil
}

func (c *Context) build(month, openDate string) (*site.Site, error) {
	opts, err := c.SiteOptions(month, openDate)
	if err != nil {
		return nil, err
	}
	return site.Build(context.Background(), opts)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
