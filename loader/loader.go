// Package loader reads Beancount files from disk and can follow include
// directives.
//
// Without FollowIncludes a file is parsed on its own and its Include
// directives stay in the tree. With it, every Include is replaced in place by
// the directives of the file it names, so the result reads as one file in
// source order. Relative include paths resolve from the directory of the
// including file and a file reached twice is only loaded the first time.
//
//	ldr := loader.New(loader.WithFollowIncludes())
//	tree, err := ldr.Load(ctx, "main.beancount")
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/robinvdvleuten/beancount-grammar/ast"
	"github.com/robinvdvleuten/beancount-grammar/parser"
	"github.com/robinvdvleuten/beancount-grammar/telemetry"
)

// Loader handles loading and parsing of Beancount files with optional include
// resolution. It remembers the source of every file it parsed so errors can be
// shown against it.
type Loader struct {
	// FollowIncludes determines whether included files are loaded and spliced
	// into the tree.
	FollowIncludes bool

	mu      sync.Mutex
	sources map[string][]byte
	files   []string
}

// Option configures how files are loaded.
type Option func(*Loader)

// WithFollowIncludes configures the loader to load included files.
func WithFollowIncludes() Option {
	return func(l *Loader) {
		l.FollowIncludes = true
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{sources: make(map[string][]byte)}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// IncludeError reports an include directive whose file could not be loaded.
type IncludeError struct {
	Pos      ast.Position
	Filename string
	Err      error
}

func (e *IncludeError) Error() string {
	return fmt.Sprintf("%s: include %q: %v", e.Pos, e.Filename, e.Err)
}

func (e *IncludeError) Unwrap() error { return e.Err }

// Load reads and parses filename.
func (l *Loader) Load(ctx context.Context, filename string) (*ast.AST, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return l.LoadBytes(ctx, filename, data)
}

// LoadBytes parses source as the contents of filename. Includes are resolved
// relative to filename's directory, which for a name without one is the
// working directory.
func (l *Loader) LoadBytes(ctx context.Context, filename string, source []byte) (*ast.AST, error) {
	timer := telemetry.FromContext(ctx).Start("loader.load")
	defer timer.End()

	state := &loaderState{loader: l, visited: make(map[string]bool)}
	return state.load(ctx, filename, source)
}

// Source returns the bytes of a file parsed by the loader, keyed by the name
// that appears in positions.
func (l *Loader) Source(filename string) ([]byte, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	source, ok := l.sources[filename]
	return source, ok
}

// Files returns the names of the files parsed by the loader in the order they
// were first read.
func (l *Loader) Files() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.files...)
}

func (l *Loader) remember(filename string, source []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.sources[filename]; !ok {
		l.files = append(l.files, filename)
	}
	l.sources[filename] = source
}

// loaderState tracks one Load call.
type loaderState struct {
	loader  *Loader
	visited map[string]bool // absolute paths already loaded
}

func (s *loaderState) load(ctx context.Context, filename string, source []byte) (*ast.AST, error) {
	if absPath, err := filepath.Abs(filename); err == nil {
		s.visited[absPath] = true
	}
	s.loader.remember(filename, source)

	tree, err := parser.ParseBytesWithFilename(ctx, filename, source)
	if err != nil {
		return nil, err
	}

	if !s.loader.FollowIncludes {
		return tree, nil
	}

	baseDir := filepath.Dir(filename)
	directives := make([]ast.Directive, 0, len(tree.Directives))

	for _, d := range tree.Directives {
		inc, ok := d.(*ast.Include)
		if !ok {
			directives = append(directives, d)
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		included, err := s.include(ctx, baseDir, inc)
		if err != nil {
			return nil, err
		}
		directives = append(directives, included...)
	}

	tree.Directives = directives
	return tree, nil
}

// include loads the file named by inc and returns its directives, or none
// when it was already loaded.
func (s *loaderState) include(ctx context.Context, baseDir string, inc *ast.Include) ([]ast.Directive, error) {
	path := inc.Filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, &IncludeError{Pos: inc.Pos, Filename: inc.Filename, Err: err}
	}
	if s.visited[absPath] {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IncludeError{Pos: inc.Pos, Filename: inc.Filename, Err: err}
	}

	tree, err := s.load(ctx, path, data)
	if err != nil {
		return nil, err
	}
	return tree.Directives, nil
}
