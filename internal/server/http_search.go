package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/groblegark/kjql/internal/fitter"
	"github.com/groblegark/kjql/internal/model"
	"github.com/groblegark/kjql/internal/query"
	"github.com/groblegark/kjql/internal/sorting"
)

// searchRequest carries one search: the requesting user, an optional
// clause tree, and optional ORDER BY terms. A missing clause matches
// every issue the user may browse.
type searchRequest struct {
	User    string            `json:"user"`
	Clause  json.RawMessage   `json:"clause,omitempty"`
	OrderBy []model.SortField `json:"order_by,omitempty"`
}

type searchResponse struct {
	Issues []*model.Issue `json:"issues"`
	Total  int            `json:"total"`
}

// handleSearch handles POST /v1/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	clause, err := parseClauseBody(req.Clause)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, _ := s.snapshot()
	issues, serr := s.store.ListIssues(r.Context())
	if serr != nil {
		writeError(w, http.StatusInternalServerError, "failed to list issues: "+serr.Error())
		return
	}

	engine := query.New(snap, req.User, time.Now().UTC())
	matched, qerr := engine.Evaluate(issues, clause)
	if qerr != nil {
		writeError(w, http.StatusBadRequest, qerr.Message)
		return
	}

	if len(req.OrderBy) > 0 {
		matched, qerr = sorting.Sort(snap, matched, req.OrderBy)
		if qerr != nil {
			writeError(w, http.StatusBadRequest, qerr.Message)
			return
		}
	}

	if matched == nil {
		matched = []*model.Issue{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Issues: matched, Total: len(matched)})
}

type validateResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// handleValidate handles POST /v1/search/validate. A query that parses
// but fails validation is reported in the body, not as an HTTP error;
// the caller asked whether the query is valid and got an answer.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	clause, err := parseClauseBody(req.Clause)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, _ := s.snapshot()
	engine := query.New(snap, req.User, time.Now().UTC())
	if qerr := engine.Validate(clause); qerr != nil {
		writeJSON(w, http.StatusOK, validateResponse{Valid: false, Error: qerr.Message})
		return
	}
	writeJSON(w, http.StatusOK, validateResponse{Valid: true})
}

// handleFit handles POST /v1/search/fit. Too-complex and invalid are
// classification outcomes carried in the result, not HTTP errors.
func (s *Server) handleFit(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if len(req.Clause) == 0 {
		writeError(w, http.StatusBadRequest, "clause is required")
		return
	}
	clause, err := parseClauseBody(req.Clause)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, _ := s.snapshot()
	result := fitter.New(snap, req.User, time.Now().UTC()).Fit(clause)
	writeJSON(w, http.StatusOK, result)
}

// parseClauseBody parses an optional clause tree from a request body.
func parseClauseBody(raw json.RawMessage) (model.Clause, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	clause, err := model.ParseClause(raw)
	if err != nil {
		return nil, inputError("invalid clause: " + err.Error())
	}
	return clause, nil
}
