// Package web provides a local HTTP API over a Beancount ledger.
//
// The server exposes endpoints for reading and writing the ledger source with
// parse errors attached, listing opened accounts, and formatting text. With
// watching enabled it reloads when the root file or any include changes and
// notifies clients over Server-Sent Events.
//
// SECURITY WARNING: This server has no authentication and should only be
// bound to localhost (127.0.0.1). Do not expose it to untrusted networks.
// File access is restricted to the directory tree of the root file.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/robinvdvleuten/beancount-grammar/ast"
	"github.com/robinvdvleuten/beancount-grammar/loader"
	"github.com/robinvdvleuten/beancount-grammar/parser"
	"github.com/robinvdvleuten/beancount-grammar/telemetry"
)

type Server struct {
	Port         int
	Host         string
	ReadOnly     bool
	WatchEnabled bool
	Logger       *zap.Logger

	mu           sync.RWMutex
	tree         *ast.AST
	loadErr      error    // parse or include error of the last load
	rootFile     string   // Absolute path of the root ledger file
	includeFiles []string // Absolute paths of included files

	// ledgerFile is the absolute path of the file passed to New. Every path
	// the API accepts must live under its directory.
	ledgerFile string

	// SSE clients for broadcasting reload events
	sseClients map[chan string]struct{}
	sseMu      sync.Mutex
}

func New(port int, ledgerFile string) *Server {
	if ledgerFile != "" {
		if abs, err := filepath.Abs(ledgerFile); err == nil {
			ledgerFile = abs
		}
	}

	return &Server{
		Port:       port,
		Host:       "127.0.0.1",
		Logger:     zap.NewNop(),
		ledgerFile: ledgerFile,
		sseClients: make(map[chan string]struct{}),
	}
}

// Addr is the host:port the server listens on.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Start loads the ledger and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	collector := telemetry.FromContext(ctx)
	timer := collector.Start(fmt.Sprintf("web.start %s", s.Addr()))

	if s.ledgerFile == "" {
		timer.End()
		return fmt.Errorf("ledger file is required")
	}

	loadTimer := timer.Child(fmt.Sprintf("web.load_ledger %s", filepath.Base(s.ledgerFile)))
	if err := s.reload(ctx); err != nil {
		loadTimer.End()
		timer.End()
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	loadTimer.End()

	if s.WatchEnabled {
		if err := s.startWatcher(ctx); err != nil {
			timer.End()
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
	}

	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	timer.End()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) setupRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/source", s.handleGetSource)
	mux.HandleFunc("PUT /api/source", s.requireWritable(s.handlePutSource))
	mux.HandleFunc("GET /api/accounts", s.handleGetAccounts)
	mux.HandleFunc("POST /api/format", s.handleFormat)
	mux.HandleFunc("GET /api/events", s.handleSSE)

	return mux
}

// requireWritable is middleware that rejects write requests in read-only mode.
func (s *Server) requireWritable(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.ReadOnly {
			http.Error(w, "Server is in read-only mode", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

// reload loads the ledger and its includes from disk. A parse or include
// error is kept for the API to report; only a failure to read the root file
// is returned.
func (s *Server) reload(ctx context.Context) error {
	ldr := loader.New(loader.WithFollowIncludes())

	tree, err := ldr.Load(ctx, s.ledgerFile)
	if err != nil && !isLocated(err) {
		return err
	}

	files := ldr.Files()
	var includes []string
	if len(files) > 1 {
		includes = files[1:]
	}

	s.mu.Lock()
	s.tree = tree
	s.loadErr = err
	s.rootFile = s.ledgerFile
	s.includeFiles = includes
	s.mu.Unlock()

	if err != nil {
		s.Logger.Debug("ledger has errors", zap.Error(err))
	} else {
		s.Logger.Debug("ledger loaded", zap.Int("directives", len(tree.Directives)), zap.Int("includes", len(includes)))
	}
	return nil
}

// isLocated reports whether err points into a ledger file.
func isLocated(err error) bool {
	var perr *parser.ParseError
	var incErr *loader.IncludeError
	return errors.As(err, &perr) || errors.As(err, &incErr)
}

// startWatcher starts a file watcher for the root file and all includes.
// It reloads the ledger and broadcasts SSE events when files change.
func (s *Server) startWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	s.mu.RLock()
	filesToWatch := append([]string{s.rootFile}, s.includeFiles...)
	s.mu.RUnlock()

	for _, file := range filesToWatch {
		if err := watcher.Add(file); err != nil {
			s.Logger.Warn("failed to watch file", zap.String("file", file), zap.Error(err))
		}
	}

	go s.runWatcher(ctx, watcher)

	return nil
}

// runWatcher processes file system events with debouncing.
func (s *Server) runWatcher(ctx context.Context, watcher *fsnotify.Watcher) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = watcher.Close()
	}()

	// Editors often write files in multiple steps
	const debounceDelay = 100 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			// Remove and Rename are common in atomic saves
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.handleFileChange(ctx, watcher)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.Logger.Warn("file watcher error", zap.Error(err))
		}
	}
}

// handleFileChange reloads the ledger and updates the watch list.
func (s *Server) handleFileChange(ctx context.Context, watcher *fsnotify.Watcher) {
	s.mu.RLock()
	oldIncludes := make(map[string]bool)
	for _, f := range s.includeFiles {
		oldIncludes[f] = true
	}
	s.mu.RUnlock()

	if err := s.reload(ctx); err != nil {
		s.Logger.Warn("failed to reload ledger", zap.Error(err))
		return
	}

	s.mu.RLock()
	newIncludes := make(map[string]bool)
	for _, f := range s.includeFiles {
		newIncludes[f] = true
	}
	root := s.rootFile
	s.mu.RUnlock()

	for file := range oldIncludes {
		if !newIncludes[file] {
			_ = watcher.Remove(file)
		}
	}

	// Re-add to catch files that were re-created by an atomic save
	for file := range newIncludes {
		if err := watcher.Add(file); err != nil {
			s.Logger.Warn("failed to watch file", zap.String("file", file), zap.Error(err))
		}
	}
	if err := watcher.Add(root); err != nil {
		s.Logger.Warn("failed to watch root", zap.String("file", root), zap.Error(err))
	}

	s.broadcast("reload")
}

// handleSSE handles Server-Sent Events connections for real-time updates.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	clientChan := make(chan string, 10)

	s.sseMu.Lock()
	s.sseClients[clientChan] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseClients, clientChan)
		s.sseMu.Unlock()
	}()

	_, _ = fmt.Fprintf(w, "data: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-clientChan:
			_, _ = fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

// broadcast sends an event to all connected SSE clients.
func (s *Server) broadcast(event string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()

	for clientChan := range s.sseClients {
		select {
		case clientChan <- event:
		default:
			// Client buffer full, skip
		}
	}
}
