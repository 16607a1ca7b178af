package handler

import (
	"encoding/json"
	"net/http"

	"github.com/napatsiri/go-biolink/pkg/ports"
)

type MarketHandler struct {
	service ports.MarketService
}

func NewMarketHandler(service ports.MarketService) *MarketHandler {
	return &MarketHandler{service: service}
}

type feedbackRequest struct {
	Content string `json:"content"`
}

func (h *MarketHandler) Listings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.service.Listings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"data": listings})
}

func (h *MarketHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}

	feedback, err := h.service.SubmitFeedback(r.Context(), OwnerID(r), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(feedback)
}
