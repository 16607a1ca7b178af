package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/napatsiri/go-biolink/pkg/core/domain"
	"github.com/napatsiri/go-biolink/pkg/ports"
)

type EntryHandler struct {
	service ports.EntryService
}

func NewEntryHandler(service ports.EntryService) *EntryHandler {
	return &EntryHandler{service: service}
}

// CreateEntryRequest payload
type CreateEntryRequest struct {
	Label  string `json:"label"`
	IsLink bool   `json:"is_link"`
}

// ReorderRequest payload: source and destination indexes of a drag.
type ReorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// List entries in render order
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context(), OwnerID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := map[string]interface{}{
		"data": entries,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Create a link or header entry at the end of the list
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := h.service.Create(r.Context(), OwnerID(r), req.Label, req.IsLink)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}

// Update label/active of one entry
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Entry id missing", http.StatusBadRequest)
		return
	}

	var patch domain.EntryPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}

	entry, err := h.service.Update(r.Context(), OwnerID(r), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entry)
}

// Delete one entry
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Entry id missing", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), OwnerID(r), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reorder moves one entry and returns the full renumbered list
func (h *EntryHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}

	entries, err := h.service.Reorder(r.Context(), OwnerID(r), req.From, req.To)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := map[string]interface{}{
		"data": entries,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// writeError maps domain errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrAuthRequired):
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
