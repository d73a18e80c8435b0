// Package cli implements the beancount command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/robinvdvleuten/beancount-grammar/ast"
	"github.com/robinvdvleuten/beancount-grammar/loader"
)

var (
	successSymbol = "✓"
	errorSymbol   = "✗"
	infoSymbol    = "→"

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D7D7", Dark: "#00D7D7"})
)

func printSuccess(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		successStyle.Render(successSymbol),
		message,
	)
}

func printError(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		errorStyle.Render(errorSymbol),
		errorStyle.Render(message),
	)
}

func printInfof(w io.Writer, format string, args ...interface{}) {
	formatted := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(w, "%s %s\n",
		infoStyle.Render(infoSymbol),
		formatted,
	)
}

// promptYesNo asks a yes/no question on the terminal. It answers no when
// stdin is not a terminal. Tests replace it.
var promptYesNo = func(question string) (bool, error) {
	if !stdinIsTerminal() {
		return false, nil
	}

	var confirm bool

	form := huh.NewConfirm().
		Title(question).
		WithButtonAlignment(lipgloss.Left).
		Value(&confirm)

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}

	return confirm, nil
}

// stdinName is the filename reported for input read from stdin.
const stdinName = "<stdin>"

// stdin is swapped out in tests.
var stdin io.Reader = os.Stdin

// stdinIsTerminal reports whether stdin is attached to a terminal, in which
// case there is nothing piped to read.
var stdinIsTerminal = func() bool {
	f, ok := stdin.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// FileOrStdin accepts a file path, or "-" (or nothing) for stdin.
type FileOrStdin struct {
	Filename string
	Contents []byte
}

// Decode implements kong.MapperValue.
func (f *FileOrStdin) Decode(ctx *kong.DecodeContext) error {
	var filename string
	if err := ctx.Scan.PopValueInto("filename", &filename); err != nil {
		return err
	}
	if filename == "-" {
		filename = ""
	}

	if filename != "" {
		if _, err := os.Stat(filename); err != nil {
			return err
		}
	}
	f.Filename = filename
	f.Contents = nil

	return nil
}

// IsStdin reports whether input comes from stdin.
func (f *FileOrStdin) IsStdin() bool {
	return f.Filename == "" || f.Filename == stdinName
}

// Read returns the input bytes. Stdin is read once and cached; files are read
// on every call so watch mode sees fresh contents.
func (f *FileOrStdin) Read() ([]byte, error) {
	if !f.IsStdin() {
		return os.ReadFile(f.Filename)
	}
	if f.Contents != nil {
		return f.Contents, nil
	}

	if stdinIsTerminal() {
		return nil, fmt.Errorf("no input: pass a file name or pipe a ledger on stdin")
	}
	contents, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}
	f.Filename = stdinName
	f.Contents = contents
	return contents, nil
}

// DisplayName is the name used in positions and messages.
func (f *FileOrStdin) DisplayName() string {
	if f.IsStdin() {
		return stdinName
	}
	return f.Filename
}

// AbsolutePath returns the absolute path of the file, or "<stdin>".
func (f *FileOrStdin) AbsolutePath() string {
	if f.IsStdin() {
		return stdinName
	}
	absPath, err := filepath.Abs(f.Filename)
	if err != nil {
		return f.Filename
	}
	return absPath
}

// Load reads the input and parses it through ldr under its display name.
func (f *FileOrStdin) Load(ctx context.Context, ldr *loader.Loader) (*ast.AST, error) {
	source, err := f.Read()
	if err != nil {
		return nil, err
	}
	return ldr.LoadBytes(ctx, f.DisplayName(), source)
}
