package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ledgerline/ledgerline/internal/activity"
	"github.com/ledgerline/ledgerline/internal/httpx"
	"github.com/ledgerline/ledgerline/internal/services"
	"github.com/ledgerline/ledgerline/internal/validation"
)

type ActivityHandler struct {
	activities *services.ActivityService
}

func NewActivityHandler(activities *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activities: activities}
}

// Timeline serves a client's activity, newest first, optionally narrowed
// by ?view=.
func (h *ActivityHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	view := activity.View(r.URL.Query().Get("view"))
	if view != "" && !view.Valid() {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_view", map[string]any{"views": activity.Views})
		return
	}
	entries, err := h.activities.ListByClient(r.Context(), id, view)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_activity", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": entries, "total": len(entries)})
}

// AddNote appends a manual note to the client's timeline.
func (h *ActivityHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var in struct {
		Body      string `json:"body"`
		CreatedBy string `json:"created_by"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("body", in.Body, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	entry, err := h.activities.AddNote(r.Context(), id, in.Body, in.CreatedBy)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, entry)
}
