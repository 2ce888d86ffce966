package server

import (
	"encoding/json"
	"net/http"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *Server) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/search", s.handleSearch)
	mux.HandleFunc("POST /v1/search/validate", s.handleValidate)
	mux.HandleFunc("POST /v1/search/fit", s.handleFit)
	mux.HandleFunc("PUT /v1/issues", s.handlePutIssue)
	mux.HandleFunc("GET /v1/issues", s.handleListIssues)
	mux.HandleFunc("GET /v1/issues/{key}", s.handleGetIssue)
	mux.HandleFunc("DELETE /v1/issues/{key}", s.handleDeleteIssue)
	mux.HandleFunc("GET /v1/catalog", s.handleGetCatalog)
	mux.HandleFunc("PUT /v1/catalog", s.handleReplaceCatalog)
	mux.HandleFunc("POST /v1/catalog/contexts", s.handleAddContext)
	mux.HandleFunc("DELETE /v1/catalog/contexts/{id}", s.handleRemoveContext)
	mux.HandleFunc("PATCH /v1/catalog/fields/{id}", s.handleUpdateField)
	mux.HandleFunc("PUT /v1/catalog/timetracking", s.handleSetTimeTracking)
	mux.HandleFunc("PUT /v1/catalog/filters", s.handleSaveFilter)
	mux.HandleFunc("DELETE /v1/catalog/filters/{id}", s.handleDeleteFilter)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return AuthMiddleware(authToken, mux)
}

// handleHealth handles GET /v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
