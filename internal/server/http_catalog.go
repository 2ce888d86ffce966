package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/groblegark/kjql/internal/events"
	"github.com/groblegark/kjql/internal/idgen"
	"github.com/groblegark/kjql/internal/model"
	"github.com/groblegark/kjql/internal/registry"
)

type catalogResponse struct {
	Catalog  registry.Catalog `json:"catalog"`
	Revision int64            `json:"revision"`
}

// handleGetCatalog handles GET /v1/catalog.
func (s *Server) handleGetCatalog(w http.ResponseWriter, _ *http.Request) {
	snap, revision := s.snapshot()
	writeJSON(w, http.StatusOK, catalogResponse{Catalog: snap.Catalog(), Revision: revision})
}

// handleReplaceCatalog handles PUT /v1/catalog. The whole configuration
// is replaced in one revision.
func (s *Server) handleReplaceCatalog(w http.ResponseWriter, r *http.Request) {
	var cat registry.Catalog
	if err := json.NewDecoder(r.Body).Decode(&cat); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.adminMu.Lock()
	revision, err := s.swapCatalog(r.Context(), cat)
	s.adminMu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.publish(r.Context(), events.TopicCatalogUpdated, events.CatalogUpdated{
		Revision: revision,
		Actor:    r.Header.Get("X-Actor"),
	})
	writeJSON(w, http.StatusOK, map[string]int64{"revision": revision})
}

// handleAddContext handles POST /v1/catalog/contexts. A context with no
// id gets a generated one.
func (s *Server) handleAddContext(w http.ResponseWriter, r *http.Request) {
	var ctx registry.Context
	if err := json.NewDecoder(r.Body).Decode(&ctx); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if ctx.FieldID == "" {
		writeError(w, http.StatusBadRequest, "field_id is required")
		return
	}
	if ctx.ID == "" {
		id, err := idgen.GenerateWithPrefix("ctx-")
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to generate id: "+err.Error())
			return
		}
		ctx.ID = id
	}

	s.adminMu.Lock()
	snap, _ := s.snapshot()
	cat := snap.Catalog().Clone()

	if snap.FieldByName(ctx.FieldID) == nil {
		s.adminMu.Unlock()
		writeError(w, http.StatusBadRequest, "unknown field: "+ctx.FieldID)
		return
	}
	for _, existing := range cat.Contexts {
		if existing.ID == ctx.ID {
			s.adminMu.Unlock()
			writeError(w, http.StatusConflict, "context already exists: "+ctx.ID)
			return
		}
	}
	cat.Contexts = append(cat.Contexts, ctx)

	revision, err := s.swapCatalog(r.Context(), cat)
	s.adminMu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.publish(r.Context(), events.TopicContextAdded, events.ContextAdded{Context: ctx, Revision: revision})
	writeJSON(w, http.StatusCreated, ctx)
}

// handleRemoveContext handles DELETE /v1/catalog/contexts/{id}.
func (s *Server) handleRemoveContext(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.adminMu.Lock()
	snap, _ := s.snapshot()
	cat := snap.Catalog().Clone()

	idx := -1
	for i, ctx := range cat.Contexts {
		if ctx.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.adminMu.Unlock()
		writeError(w, http.StatusNotFound, "context not found")
		return
	}
	removed := cat.Contexts[idx]
	cat.Contexts = append(cat.Contexts[:idx], cat.Contexts[idx+1:]...)

	revision, err := s.swapCatalog(r.Context(), cat)
	s.adminMu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.publish(r.Context(), events.TopicContextRemoved, events.ContextRemoved{
		ContextID: removed.ID,
		FieldID:   removed.FieldID,
		Revision:  revision,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// fieldUpdateRequest carries a partial field update. Omitted settings
// are left alone.
type fieldUpdateRequest struct {
	Searchable *bool `json:"searchable,omitempty"`
	Orderable  *bool `json:"orderable,omitempty"`
}

// handleUpdateField handles PATCH /v1/catalog/fields/{id}. Only
// catalog-defined custom fields can be reconfigured; system fields are
// fixed.
func (s *Server) handleUpdateField(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req fieldUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.adminMu.Lock()
	snap, _ := s.snapshot()
	cat := snap.Catalog().Clone()

	idx := -1
	for i, f := range cat.Fields {
		if strings.EqualFold(f.ID, id) {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.adminMu.Unlock()
		writeError(w, http.StatusNotFound, "field not found")
		return
	}
	if req.Searchable != nil {
		cat.Fields[idx].Searchable = *req.Searchable
	}
	if req.Orderable != nil {
		cat.Fields[idx].Orderable = *req.Orderable
	}
	updated := cat.Fields[idx]

	revision, err := s.swapCatalog(r.Context(), cat)
	s.adminMu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.publish(r.Context(), events.TopicFieldUpdated, events.FieldUpdated{
		FieldID:    updated.ID,
		Searchable: updated.Searchable,
		Orderable:  updated.Orderable,
		Revision:   revision,
	})
	writeJSON(w, http.StatusOK, updated)
}

// handleSetTimeTracking handles PUT /v1/catalog/timetracking. Changing
// the units changes what every textual duration literal resolves to
// from the next revision on.
func (s *Server) handleSetTimeTracking(w http.ResponseWriter, r *http.Request) {
	var tt registry.TimeTracking
	if err := json.NewDecoder(r.Body).Decode(&tt); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if tt.HoursPerDay <= 0 || tt.DaysPerWeek <= 0 {
		writeError(w, http.StatusBadRequest, "hours_per_day and days_per_week must be positive")
		return
	}

	s.adminMu.Lock()
	snap, _ := s.snapshot()
	cat := snap.Catalog().Clone()
	cat.TimeTracking = tt

	revision, err := s.swapCatalog(r.Context(), cat)
	s.adminMu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.publish(r.Context(), events.TopicTimeTrackingUpdated, events.TimeTrackingUpdated{
		TimeTracking: tt,
		Revision:     revision,
	})
	writeJSON(w, http.StatusOK, tt)
}

// handleSaveFilter handles PUT /v1/catalog/filters. Filters are
// upserted by id; the stored clause must parse.
func (s *Server) handleSaveFilter(w http.ResponseWriter, r *http.Request) {
	var filter registry.SavedFilter
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if filter.ID <= 0 {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	if filter.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if _, err := model.ParseClause([]byte(filter.ClauseJSON)); err != nil {
		writeError(w, http.StatusBadRequest, "invalid clause: "+err.Error())
		return
	}

	s.adminMu.Lock()
	snap, _ := s.snapshot()
	cat := snap.Catalog().Clone()

	idx := -1
	for i, f := range cat.Filters {
		if f.ID == filter.ID {
			idx = i
			break
		}
	}
	if idx >= 0 {
		cat.Filters[idx] = filter
	} else {
		cat.Filters = append(cat.Filters, filter)
	}

	revision, err := s.swapCatalog(r.Context(), cat)
	s.adminMu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.publish(r.Context(), events.TopicFilterSaved, events.FilterSaved{Filter: filter, Revision: revision})
	writeJSON(w, http.StatusOK, filter)
}

// handleDeleteFilter handles DELETE /v1/catalog/filters/{id}.
func (s *Server) handleDeleteFilter(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter id")
		return
	}

	s.adminMu.Lock()
	snap, _ := s.snapshot()
	cat := snap.Catalog().Clone()

	idx := -1
	for i, f := range cat.Filters {
		if f.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.adminMu.Unlock()
		writeError(w, http.StatusNotFound, "filter not found")
		return
	}
	cat.Filters = append(cat.Filters[:idx], cat.Filters[idx+1:]...)

	revision, serr := s.swapCatalog(r.Context(), cat)
	s.adminMu.Unlock()
	if serr != nil {
		writeError(w, http.StatusInternalServerError, serr.Error())
		return
	}

	s.publish(r.Context(), events.TopicFilterDeleted, events.FilterDeleted{FilterID: id, Revision: revision})
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
