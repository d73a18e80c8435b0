package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/robinvdvleuten/beancount-grammar/ast"
	errfmt "github.com/robinvdvleuten/beancount-grammar/errors"
	"github.com/robinvdvleuten/beancount-grammar/loader"
	"github.com/robinvdvleuten/beancount-grammar/output"
	"github.com/robinvdvleuten/beancount-grammar/telemetry"
)

type CheckCmd struct {
	File    FileOrStdin `help:"Beancount input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Watch   bool        `help:"Check again whenever the file changes." short:"w"`
	Summary bool        `help:"Print directive counts by kind." default:"true" negatable:""`

	FollowIncludes bool   `help:"Load included files and check them too." name:"follow-includes"`
	ErrorFormat    string `help:"How to report errors: text, json or yaml." enum:"text,json,yaml" default:"text"`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals, logger *zap.Logger) error {
	if cmd.Watch && cmd.File.IsStdin() {
		return fmt.Errorf("--watch needs a file name")
	}

	if !cmd.Watch {
		if !cmd.check(context.Background(), ctx.Stdout, ctx.Stderr, globals, logger) {
			return NewCommandError(1)
		}
		return nil
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd.check(runCtx, ctx.Stdout, ctx.Stderr, globals, logger)
	printInfof(ctx.Stderr, "Watching %s for changes", pathStyle.Render(cmd.File.DisplayName()))

	return watchFile(runCtx, cmd.File.AbsolutePath(), logger, func() {
		_, _ = fmt.Fprintln(ctx.Stderr)
		cmd.check(runCtx, ctx.Stdout, ctx.Stderr, globals, logger)
	})
}

// check parses the input once and reports the outcome. It returns whether the
// file parsed.
func (cmd *CheckCmd) check(ctx context.Context, stdout, stderr io.Writer, globals *Globals, logger *zap.Logger) bool {
	name := cmd.File.DisplayName()

	if globals.Telemetry {
		collector := telemetry.NewTimingCollector()
		ctx = telemetry.WithCollector(ctx, collector)

		timer := collector.Start(fmt.Sprintf("check %s", filepath.Base(name)))
		defer func() {
			timer.End()
			_, _ = fmt.Fprintln(stderr)
			collector.Report(stderr, output.NewStyles(stderr))
		}()
	}

	var opts []loader.Option
	if cmd.FollowIncludes {
		opts = append(opts, loader.WithFollowIncludes())
	}
	ldr := loader.New(opts...)

	tree, err := cmd.File.Load(ctx, ldr)
	if err != nil {
		logger.Debug("load failed", zap.String("file", name), zap.Error(err))

		if cmd.ErrorFormat != "text" {
			f, ferr := errfmt.New(cmd.ErrorFormat)
			if ferr != nil {
				printError(stderr, ferr.Error())
				return false
			}
			_, _ = fmt.Fprintln(stdout, f.FormatAll([]error{err}))
			return false
		}

		if _, ok := errorPosition(err); !ok {
			printError(stderr, err.Error())
			return false
		}

		_, _ = fmt.Fprintln(stderr, renderLoadError(ldr, err))
		printError(stderr, "parse error")
		return false
	}
	logger.Debug("parsed", zap.Int("directives", len(tree.Directives)))

	if cmd.Summary {
		_, _ = Summarize(tree).WriteTo(stdout)
	}
	printSuccess(stdout, fmt.Sprintf("Check passed: %s", countDirectives(tree)))
	return true
}

func countDirectives(tree *ast.AST) string {
	if len(tree.Directives) == 1 {
		return "1 directive"
	}
	return fmt.Sprintf("%d directives", len(tree.Directives))
}
