package handler

import (
	"encoding/json"
	"net/http"

	"github.com/napatsiri/go-biolink/pkg/core/domain"
	"github.com/napatsiri/go-biolink/pkg/ports"
)

type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

type updateProfileRequest struct {
	Fullname  string `json:"fullname,omitempty"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type setTemplateRequest struct {
	Template string `json:"template"`
}

type socialLinkRequest struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.Get(r.Context(), OwnerID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}

	profile, err := h.service.Update(r.Context(), OwnerID(r), req.Fullname, req.Bio, req.AvatarURL)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// Templates lists the built-in themes
func (h *ProfileHandler) Templates(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"data": domain.Templates})
}

func (h *ProfileHandler) SetTemplate(w http.ResponseWriter, r *http.Request) {
	var req setTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}

	if err := h.service.SetTemplate(r.Context(), OwnerID(r), req.Template); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProfileHandler) ListSocialLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.service.ListSocialLinks(r.Context(), OwnerID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"data": links})
}

func (h *ProfileHandler) AddSocialLink(w http.ResponseWriter, r *http.Request) {
	var req socialLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}

	link, err := h.service.AddSocialLink(r.Context(), OwnerID(r), req.Platform, req.URL)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(link)
}

func (h *ProfileHandler) UpdateSocialLink(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req socialLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}

	link, err := h.service.UpdateSocialLink(r.Context(), OwnerID(r), id, req.Platform, req.URL)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(link)
}

func (h *ProfileHandler) RemoveSocialLink(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveSocialLink(r.Context(), OwnerID(r), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPublicPage serves the visitor-facing page payload by username
func (h *ProfileHandler) GetPublicPage(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if username == "" {
		http.Error(w, "Username missing", http.StatusBadRequest)
		return
	}

	page, err := h.service.PublicPage(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(page)
}
