package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	errfmt "github.com/robinvdvleuten/beancount-grammar/errors"
)

func writeJSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// FilesResponse lists the root ledger file and every file it includes.
type FilesResponse struct {
	Root     string   `json:"root"`
	Includes []string `json:"includes"`
}

// SourceResponse carries one file of the ledger together with the errors of
// the last load.
type SourceResponse struct {
	Filepath string             `json:"filepath"`
	Source   string             `json:"source"`
	Errors   []errfmt.ErrorJSON `json:"errors"`
	Files    FilesResponse      `json:"files"`
}

// errOutsideLedger is returned for paths that resolve outside the directory
// holding the ledger file.
var errOutsideLedger = errors.New("access denied: path outside the ledger directory")

// ledgerPath turns a requested path into the absolute file to read or write.
// An empty request means the ledger file itself.
func (s *Server) ledgerPath(requested string) (string, error) {
	if requested == "" {
		if s.ledgerFile == "" {
			return "", errors.New("no filepath given and no ledger file configured")
		}
		return s.ledgerFile, nil
	}

	path, err := filepath.Abs(requested)
	if err != nil {
		return "", fmt.Errorf("invalid filepath %q: %w", requested, err)
	}
	if s.ledgerFile == "" {
		return path, nil
	}

	root, err := filepath.EvalSymlinks(filepath.Dir(s.ledgerFile))
	if err != nil {
		return "", fmt.Errorf("ledger directory: %w", err)
	}
	if !within(root, canonical(path)) {
		return "", errOutsideLedger
	}
	return path, nil
}

// canonical resolves symlinks in path. A file that does not exist yet is
// resolved through its parent directory.
func canonical(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	if parent, err := filepath.EvalSymlinks(filepath.Dir(path)); err == nil {
		return filepath.Join(parent, filepath.Base(path))
	}
	return path
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// buildResponse creates a SourceResponse from the current ledger state.
// Must be called with s.mu held for reading.
func (s *Server) buildResponse(filename string, source []byte) *SourceResponse {
	var errs []error
	if s.loadErr != nil {
		errs = append(errs, s.loadErr)
	}

	includes := s.includeFiles
	if includes == nil {
		includes = []string{}
	}

	return &SourceResponse{
		Filepath: filename,
		Source:   string(source),
		Errors:   errfmt.FormatAllToSlice(errs),
		Files:    FilesResponse{Root: s.rootFile, Includes: includes},
	}
}

// handleGetSource serves GET /api/source?filepath=...
func (s *Server) handleGetSource(w http.ResponseWriter, r *http.Request) {
	filename, err := s.ledgerPath(r.URL.Query().Get("filepath"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, fs.ErrNotExist) {
			status = http.StatusNotFound
		}
		http.Error(w, fmt.Sprintf("read %s: %v", filepath.Base(filename), err), status)
		return
	}

	s.mu.RLock()
	response := s.buildResponse(filename, content)
	s.mu.RUnlock()

	writeJSONResponse(w, http.StatusOK, response)
}

// handlePutSource saves the posted source, reloads the ledger and answers with
// the errors of that reload. A file that fails to parse is still saved.
func (s *Server) handlePutSource(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Filepath string `json:"filepath"`
		Source   string `json:"source"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	filename, err := s.ledgerPath(request.Filepath)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := os.WriteFile(filename, []byte(request.Source), 0o600); err != nil {
		http.Error(w, "Failed to write file", http.StatusInternalServerError)
		return
	}

	if err := s.reload(r.Context()); err != nil {
		http.Error(w, "Failed to reload ledger", http.StatusInternalServerError)
		return
	}

	s.mu.RLock()
	response := s.buildResponse(filename, []byte(request.Source))
	s.mu.RUnlock()

	writeJSONResponse(w, http.StatusOK, response)
}
