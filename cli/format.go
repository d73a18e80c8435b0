package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/robinvdvleuten/beancount-grammar/formatter"
	"github.com/robinvdvleuten/beancount-grammar/loader"
	"github.com/robinvdvleuten/beancount-grammar/output"
	"github.com/robinvdvleuten/beancount-grammar/telemetry"
)

type FormatCmd struct {
	File           FileOrStdin `help:"Beancount input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	CurrencyColumn int         `help:"Column for currency alignment (auto-calculated from content if 0)." default:"0"`
	Indent         int         `help:"Spaces before postings and metadata." default:"2"`
	NoBlanks       bool        `help:"Drop blank lines between directives."`
	Write          bool        `help:"Write the result back to the file instead of stdout." short:"W"`
	Yes            bool        `help:"Overwrite without asking." short:"y"`
}

// Validate rejects indentation the parser would not read back.
func (cmd *FormatCmd) Validate() error {
	if cmd.Indent < formatter.MinimumIndentation {
		return fmt.Errorf("--indent must be at least %d", formatter.MinimumIndentation)
	}
	return nil
}

func (cmd *FormatCmd) Run(ctx *kong.Context, globals *Globals, logger *zap.Logger) error {
	if cmd.Write && cmd.File.IsStdin() {
		return fmt.Errorf("--write needs a file name")
	}

	runCtx := context.Background()

	if globals.Telemetry {
		collector := telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		defer func() {
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr, output.NewStyles(ctx.Stderr))
		}()
	}

	ldr := loader.New()
	tree, err := cmd.File.Load(runCtx, ldr)
	if err != nil {
		if _, ok := errorPosition(err); !ok {
			return err
		}
		_, _ = fmt.Fprintln(ctx.Stderr, renderLoadError(ldr, err))
		printError(ctx.Stderr, "parse error")
		return NewCommandError(1)
	}

	source, _ := ldr.Source(cmd.File.DisplayName())
	logger.Debug("formatting", zap.String("file", cmd.File.DisplayName()), zap.Int("directives", len(tree.Directives)))

	f := formatter.New(
		formatter.WithCurrencyColumn(cmd.CurrencyColumn),
		formatter.WithIndentation(cmd.Indent),
		formatter.WithPreserveBlanks(!cmd.NoBlanks),
	)
	if !cmd.Write {
		return f.Format(runCtx, tree, source, ctx.Stdout)
	}

	var buf bytes.Buffer
	if err := f.Format(runCtx, tree, source, &buf); err != nil {
		return err
	}
	if bytes.Equal(buf.Bytes(), source) {
		printInfof(ctx.Stderr, "%s is already formatted", pathStyle.Render(cmd.File.DisplayName()))
		return nil
	}

	if !cmd.Yes {
		ok, err := promptYesNo(fmt.Sprintf("Overwrite %s?", cmd.File.DisplayName()))
		if err != nil {
			return err
		}
		if !ok {
			printError(ctx.Stderr, "not overwriting "+cmd.File.DisplayName()+" (pass --yes to skip the prompt)")
			return NewCommandError(1)
		}
	}

	info, err := os.Stat(cmd.File.Filename)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cmd.File.Filename, buf.Bytes(), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", cmd.File.Filename, err)
	}
	printSuccess(ctx.Stderr, fmt.Sprintf("Formatted %s", cmd.File.DisplayName()))
	return nil
}
