package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/menulink/menulink/services/business-service/internal/model"
	"github.com/menulink/menulink/services/business-service/internal/storage"
)

type LinkHandler struct {
	repo *storage.LinkRepository
}

func NewLinkHandler(repo *storage.LinkRepository) *LinkHandler {
	return &LinkHandler{repo: repo}
}

type linkRequest struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Position int    `json:"position"`
}

func (req *linkRequest) validate() (model.Link, string) {
	title := strings.TrimSpace(req.Title)
	rawURL := strings.TrimSpace(req.URL)
	if title == "" || rawURL == "" {
		return model.Link{}, "title and url are required"
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return model.Link{}, "url must be absolute http(s)"
	}
	return model.Link{Title: title, URL: rawURL, Position: req.Position}, ""
}

// Create serves POST /api/v1/links.
func (h *LinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}

	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	link, msg := req.validate()
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	link.ID = uuid.NewString()
	link.BusinessID = sess.BusinessID

	if err := h.repo.Create(r.Context(), link); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create link")
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

// Update serves PUT /api/v1/links/{id}.
func (h *LinkHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}

	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	link, msg := req.validate()
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	link.ID = r.PathValue("id")
	link.BusinessID = sess.BusinessID

	if err := h.repo.Update(r.Context(), link); err != nil {
		if storage.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "link not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update link")
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// Delete serves DELETE /api/v1/links/{id}.
func (h *LinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	if err := h.repo.Delete(r.Context(), sess.BusinessID, r.PathValue("id")); err != nil {
		if storage.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "link not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete link")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List serves GET /api/v1/links.
func (h *LinkHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	list, err := h.repo.List(r.Context(), sess.BusinessID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list links")
		return
	}
	if list == nil {
		list = []model.Link{}
	}
	writeJSON(w, http.StatusOK, list)
}
