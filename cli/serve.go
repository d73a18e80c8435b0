package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/robinvdvleuten/beancount-grammar/output"
	"github.com/robinvdvleuten/beancount-grammar/telemetry"
	"github.com/robinvdvleuten/beancount-grammar/web"
)

type ServeCmd struct {
	File     string `help:"Beancount ledger to serve." arg:"" type:"existingfile"`
	Port     int    `help:"Port to listen on." default:"8080"`
	Host     string `help:"Host to bind to." default:"127.0.0.1"`
	ReadOnly bool   `help:"Reject writes to the ledger."`
	Watch    bool   `help:"Reload when the ledger or its includes change." default:"true" negatable:""`
}

func (cmd *ServeCmd) Run(ctx *kong.Context, globals *Globals, logger *zap.Logger) error {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if globals.Telemetry {
		collector := telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		defer func() {
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr, output.NewStyles(ctx.Stderr))
		}()
	}

	server := web.New(cmd.Port, cmd.File)
	server.Host = cmd.Host
	server.ReadOnly = cmd.ReadOnly
	server.WatchEnabled = cmd.Watch
	server.Logger = logger

	printInfof(ctx.Stderr, "Serving %s on http://%s", pathStyle.Render(cmd.File), server.Addr())
	return server.Start(runCtx)
}
