package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/robinvdvleuten/beancount-grammar/ast"
	"github.com/robinvdvleuten/beancount-grammar/output"
	"github.com/robinvdvleuten/beancount-grammar/parser"
)

// DoctorCmd provides utilities for debugging beancount files.
type DoctorCmd struct {
	Lex LexCmd `cmd:"" help:"Show lexical tokens from a beancount file."`
	AST ASTCmd `cmd:"" name:"ast" help:"Dump the parsed directives of a beancount file."`
}

// LexCmd shows lexical tokens from a beancount file.
type LexCmd struct {
	File       FileOrStdin `help:"Beancount input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Whitespace bool        `help:"Include whitespace and line break tokens."`
}

// Run executes the lex command.
func (cmd *LexCmd) Run(ctx *kong.Context, logger *zap.Logger) error {
	content, err := cmd.File.Read()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	tokens, err := parser.NewLexer(content, cmd.File.DisplayName()).ScanAll()
	if err != nil {
		_, _ = fmt.Fprintln(ctx.Stderr, NewErrorRenderer(content).Render(err))
		printError(ctx.Stderr, "lex error")
		return NewCommandError(1)
	}
	logger.Debug("lexed", zap.Int("tokens", len(tokens)))

	writeTokens(ctx.Stdout, content, tokens, cmd.Whitespace)
	return nil
}

// writeTokens prints one token per line: TYPE line:col "text".
func writeTokens(w io.Writer, source []byte, tokens []parser.Token, whitespace bool) {
	styles := output.NewStyles(w)

	for _, tok := range tokens {
		switch tok.Type {
		case parser.EOF:
			continue
		case parser.WHITESPACE, parser.NEWLINE:
			if !whitespace {
				continue
			}
		}

		typ := runewidth.FillRight(tok.Type.String(), 10)
		pos := runewidth.FillRight(strconv.Itoa(tok.Line)+":"+strconv.Itoa(tok.Column), 8)
		_, _ = fmt.Fprintf(w, "%s %s %s\n",
			styleToken(styles, tok.Type, typ),
			styles.Dim(pos),
			strconv.Quote(tok.String(source)))
	}
}

func styleToken(styles *output.Styles, typ parser.TokenType, text string) string {
	switch typ {
	case parser.DATE, parser.STRING:
		return styles.Literal(text)
	case parser.NUMBER, parser.UPPER:
		return styles.Amount(text)
	case parser.KEY:
		return styles.Account(text)
	case parser.COMMENT:
		return styles.Dim(text)
	case parser.ILLEGAL:
		return styles.Error(text)
	default:
		return styles.Keyword(text)
	}
}

// ASTCmd dumps the parsed directives.
type ASTCmd struct {
	File      FileOrStdin `help:"Beancount input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Positions bool        `help:"Include source positions in the dump."`
}

// Run executes the ast command.
func (cmd *ASTCmd) Run(ctx *kong.Context, logger *zap.Logger) error {
	content, err := cmd.File.Read()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	tree, err := parser.ParseBytesWithFilename(context.Background(), cmd.File.DisplayName(), content)
	if err != nil {
		_, _ = fmt.Fprintln(ctx.Stderr, NewErrorRenderer(content).Render(err))
		printError(ctx.Stderr, "parse error")
		return NewCommandError(1)
	}
	logger.Debug("parsed", zap.Int("directives", len(tree.Directives)))

	opts := []repr.Option{repr.Indent("  "), repr.OmitEmpty(true)}
	if !cmd.Positions {
		opts = append(opts, repr.Hide[ast.Position]())
	}
	repr.New(ctx.Stdout, opts...).Println(tree)
	return nil
}
