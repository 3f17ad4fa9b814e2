package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/sitelit/internal/logger"
	"github.com/julianstephens/sitelit/internal/server"
)

type ServeCmd struct {
	Addr string `help:"Listen address. Defaults to server.addr from the config."`
}

func (c *ServeCmd) Run(ctx *Context) error {
	opts, err := ctx.SiteOptions("", "")
	if err != nil {
		return err
	}
	defer ctx.Store.Close()

	addr := c.Addr
	if addr == "" {
		addr = ctx.Config.Server.Addr
	}

	srv := server.New(server.Config{
		Addr:        addr,
		Site:        opts,
		ToggleRate:  ctx.Config.Server.Rate,
		ToggleBurst: ctx.Config.Server.Burst,
	})

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Serving site", "addr", addr, "root", ctx.Config.Site.Root)
	return srv.ListenAndServe(sigCtx)
}
