package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/sitelit/internal/tui"
)

type TuiCmd struct {
	Month string `arg:"" optional:"" help:"Month to show first (YYYY-MM)."`
}

func (c *TuiCmd) Run(ctx *Context) error {
	opts, err := ctx.SiteOptions(c.Month, "")
	if err != nil {
		return err
	}
	defer ctx.Store.Close()

	ctx.PerformAutomaticBackup()

	p := tea.NewProgram(tui.NewModel(opts), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
