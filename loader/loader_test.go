package loader

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/beancount-grammar/ast"
	"github.com/robinvdvleuten/beancount-grammar/parser"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func kinds(tree *ast.AST) []ast.DirectiveKind {
	out := make([]ast.DirectiveKind, len(tree.Directives))
	for i, d := range tree.Directives {
		out[i] = d.Kind()
	}
	return out
}

func TestLoadSingleFile(t *testing.T) {
	dir := t.TempDir()
	mainFile := writeFile(t, dir, "main.beancount", `
2024-01-01 open Assets:Checking USD
2024-01-02 * "Test"
  Assets:Checking  100.00 USD
  Equity:Opening-Balances
`)

	for _, ldr := range []*Loader{New(), New(WithFollowIncludes())} {
		tree, err := ldr.Load(context.Background(), mainFile)
		assert.NoError(t, err)
		assert.Equal(t, 2, len(tree.Directives))
		assert.Equal(t, mainFile, tree.Directives[0].Position().Filename)
	}
}

func TestLoadWithIncludeNoFollow(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "included.beancount", "2024-01-01 open Assets:Savings USD\n")
	mainFile := writeFile(t, dir, "main.beancount", "include \"included.beancount\"\n\n2024-01-02 open Assets:Checking USD\n")

	tree, err := New().Load(context.Background(), mainFile)
	assert.NoError(t, err)
	assert.Equal(t, []ast.DirectiveKind{ast.KindInclude, ast.KindOpen}, kinds(tree))
	assert.Equal(t, "included.beancount", tree.Directives[0].(*ast.Include).Filename)
}

func TestLoadFollowIncludesSplicesInPlace(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "accounts/assets.beancount", "2024-01-01 open Assets:Savings USD\n2024-01-01 open Assets:Cash USD\n")
	mainFile := writeFile(t, dir, "main.beancount", `option "title" "Main"
include "accounts/assets.beancount"
2024-01-02 close Assets:Cash
`)

	tree, err := New(WithFollowIncludes()).Load(context.Background(), mainFile)
	assert.NoError(t, err)
	assert.Equal(t, []ast.DirectiveKind{ast.KindOption, ast.KindOpen, ast.KindOpen, ast.KindClose}, kinds(tree))

	savings := tree.Directives[1].(*ast.Open)
	assert.Equal(t, "Assets:Savings", savings.Account.String())
	assert.Equal(t, filepath.Join(dir, "accounts", "assets.beancount"), savings.Pos.Filename)
	assert.Equal(t, 1, savings.Pos.Line)
}

func TestLoadNestedIncludesResolveFromIncludingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ledger/prices/2024.beancount", "2024-07-09 price HOOL 579.18 USD\n")
	writeFile(t, dir, "ledger/prices.beancount", "include \"prices/2024.beancount\"\n")
	mainFile := writeFile(t, dir, "main.beancount", "include \"ledger/prices.beancount\"\n")

	ldr := New(WithFollowIncludes())
	tree, err := ldr.Load(context.Background(), mainFile)
	assert.NoError(t, err)
	assert.Equal(t, []ast.DirectiveKind{ast.KindPrice}, kinds(tree))
	assert.Equal(t, []string{
		mainFile,
		filepath.Join(dir, "ledger", "prices.beancount"),
		filepath.Join(dir, "ledger", "prices", "2024.beancount"),
	}, ldr.Files())
}

func TestLoadDeduplicatesIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shared.beancount", "2024-01-01 open Assets:Shared USD\n")
	writeFile(t, dir, "a.beancount", "include \"shared.beancount\"\n2024-01-02 open Assets:A\n")
	writeFile(t, dir, "b.beancount", "include \"shared.beancount\"\n2024-01-03 open Assets:B\n")
	mainFile := writeFile(t, dir, "main.beancount", "include \"a.beancount\"\ninclude \"b.beancount\"\n")

	tree, err := New(WithFollowIncludes()).Load(context.Background(), mainFile)
	assert.NoError(t, err)

	var accounts []string
	for _, d := range tree.Directives {
		accounts = append(accounts, d.(*ast.Open).Account.String())
	}
	assert.Equal(t, []string{"Assets:Shared", "Assets:A", "Assets:B"}, accounts)
}

func TestLoadIncludeCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.beancount", "include \"b.beancount\"\n2024-01-01 open Assets:A\n")
	mainFile := writeFile(t, dir, "b.beancount", "include \"a.beancount\"\n2024-01-01 open Assets:B\n")

	tree, err := New(WithFollowIncludes()).Load(context.Background(), mainFile)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(tree.Directives))
}

func TestLoadMissingInclude(t *testing.T) {
	dir := t.TempDir()
	mainFile := writeFile(t, dir, "main.beancount", "2024-01-01 open Assets:A\ninclude \"missing.beancount\"\n")

	_, err := New(WithFollowIncludes()).Load(context.Background(), mainFile)
	assert.Error(t, err)

	var incErr *IncludeError
	assert.True(t, errors.As(err, &incErr))
	assert.Equal(t, "missing.beancount", incErr.Filename)
	assert.Equal(t, 2, incErr.Pos.Line)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := New().Load(context.Background(), filepath.Join(t.TempDir(), "nope.beancount"))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadParseErrorInIncludedFile(t *testing.T) {
	dir := t.TempDir()
	broken := writeFile(t, dir, "broken.beancount", "2024-01-01 open Assets:A\n2024-01-02 opne Assets:B\n")
	mainFile := writeFile(t, dir, "main.beancount", "include \"broken.beancount\"\n")

	ldr := New(WithFollowIncludes())
	_, err := ldr.Load(context.Background(), mainFile)

	var perr *parser.ParseError
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, broken, perr.Pos.Filename)
	assert.Equal(t, 2, perr.Pos.Line)

	source, ok := ldr.Source(perr.Pos.Filename)
	assert.True(t, ok)
	assert.Equal(t, "2024-01-01 open Assets:A\n2024-01-02 opne Assets:B\n", string(source))
}

func TestLoadBytesResolvesFromWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "accounts.beancount", "2024-01-01 open Assets:A\n")
	t.Chdir(dir)

	tree, err := New(WithFollowIncludes()).LoadBytes(context.Background(), "<stdin>", []byte("include \"accounts.beancount\"\n"))
	assert.NoError(t, err)
	assert.Equal(t, []ast.DirectiveKind{ast.KindOpen}, kinds(tree))
}

func TestLoadCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.beancount", "2024-01-01 open Assets:A\n")
	mainFile := writeFile(t, dir, "main.beancount", "include \"a.beancount\"\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(WithFollowIncludes()).Load(ctx, mainFile)
	assert.True(t, errors.Is(err, context.Canceled))
}
