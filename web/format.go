package web

import (
	"bytes"
	"encoding/json"
	"net/http"

	errfmt "github.com/robinvdvleuten/beancount-grammar/errors"
	"github.com/robinvdvleuten/beancount-grammar/formatter"
	"github.com/robinvdvleuten/beancount-grammar/parser"
)

type FormatRequest struct {
	Source         string `json:"source"`
	CurrencyColumn int    `json:"currency_column"`
}

type FormatResponse struct {
	Formatted string             `json:"formatted,omitempty"`
	Errors    []errfmt.ErrorJSON `json:"errors"`
}

// handleFormat handles POST requests to /api/format. It formats the posted
// source without touching any file. Source that does not parse is answered
// with 422 and the error.
func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	var request FormatRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	source := []byte(request.Source)
	tree, err := parser.ParseBytes(r.Context(), source)
	if err != nil {
		writeJSONResponse(w, http.StatusUnprocessableEntity, &FormatResponse{
			Errors: errfmt.FormatAllToSlice([]error{err}),
		})
		return
	}

	var buf bytes.Buffer
	f := formatter.New(formatter.WithCurrencyColumn(request.CurrencyColumn))
	if err := f.Format(r.Context(), tree, source, &buf); err != nil {
		http.Error(w, "Failed to format source", http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, http.StatusOK, &FormatResponse{
		Formatted: buf.String(),
		Errors:    []errfmt.ErrorJSON{},
	})
}
