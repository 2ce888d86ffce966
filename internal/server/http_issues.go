package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/groblegark/kjql/internal/events"
	"github.com/groblegark/kjql/internal/model"
)

// handlePutIssue handles PUT /v1/issues. Issues are upserted by id; a
// put under an existing id replaces the record, key included.
func (s *Server) handlePutIssue(w http.ResponseWriter, r *http.Request) {
	var issue model.Issue
	if err := json.NewDecoder(r.Body).Decode(&issue); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := validateIssue(&issue); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.PutIssue(r.Context(), &issue); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store issue: "+err.Error())
		return
	}

	s.publish(r.Context(), events.TopicIssueUpserted, events.IssueUpserted{Issue: &issue})
	writeJSON(w, http.StatusOK, &issue)
}

// handleGetIssue handles GET /v1/issues/{key}.
func (s *Server) handleGetIssue(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	issue, err := s.store.GetIssue(r.Context(), key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "issue not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get issue: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, issue)
}

// handleListIssues handles GET /v1/issues.
func (s *Server) handleListIssues(w http.ResponseWriter, r *http.Request) {
	issues, err := s.store.ListIssues(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list issues: "+err.Error())
		return
	}

	if issues == nil {
		issues = []*model.Issue{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Issues: issues, Total: len(issues)})
}

// handleDeleteIssue handles DELETE /v1/issues/{key}.
func (s *Server) handleDeleteIssue(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	if err := s.store.DeleteIssue(r.Context(), key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "issue not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete issue: "+err.Error())
		return
	}

	s.publish(r.Context(), events.TopicIssueDeleted, events.IssueDeleted{Key: key})
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func validateIssue(issue *model.Issue) error {
	if issue.ID <= 0 {
		return inputError("id is required")
	}
	if issue.Key == "" {
		return inputError("key is required")
	}
	if issue.ProjectID <= 0 {
		return inputError("project_id is required")
	}
	if issue.TypeID <= 0 {
		return inputError("type_id is required")
	}
	return nil
}
