package web

import (
	"net/http"
	"sort"

	"github.com/robinvdvleuten/beancount-grammar/ast"
)

// AccountInfo describes an account as declared by its open directive.
type AccountInfo struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Opened      string   `json:"opened"`
	Closed      string   `json:"closed,omitempty"`
	Commodities []string `json:"commodities,omitempty"`
}

// AccountsResponse is the JSON response structure for the accounts endpoint.
type AccountsResponse struct {
	Accounts []AccountInfo `json:"accounts"`
}

// collectAccounts lists the accounts opened in tree with their close dates,
// sorted by name. A later open of the same account replaces the earlier one.
func collectAccounts(tree *ast.AST) []AccountInfo {
	if tree == nil {
		return []AccountInfo{}
	}

	byName := make(map[string]*AccountInfo)
	for _, d := range tree.Directives {
		switch d := d.(type) {
		case *ast.Open:
			name := d.Account.String()
			byName[name] = &AccountInfo{
				Name:        name,
				Type:        d.Account.Type.String(),
				Opened:      d.Date.String(),
				Commodities: d.Commodities,
			}
		case *ast.Close:
			if info, ok := byName[d.Account.String()]; ok {
				info.Closed = d.Date.String()
			}
		}
	}

	accounts := make([]AccountInfo, 0, len(byName))
	for _, info := range byName {
		accounts = append(accounts, *info)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Name < accounts[j].Name
	})
	return accounts
}

// handleGetAccounts handles GET requests to /api/accounts.
func (s *Server) handleGetAccounts(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	accounts := collectAccounts(s.tree)
	s.mu.RUnlock()

	writeJSONResponse(w, http.StatusOK, &AccountsResponse{Accounts: accounts})
}
