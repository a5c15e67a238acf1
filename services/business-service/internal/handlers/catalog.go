package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/menulink/menulink/services/business-service/internal/model"
	"github.com/menulink/menulink/services/business-service/internal/storage"
)

type CatalogHandler struct {
	repo *storage.CatalogRepository
}

func NewCatalogHandler(repo *storage.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{repo: repo}
}

type serviceRequest struct {
	Name         string `json:"name"`
	DurationMins int    `json:"duration_minutes"`
	PriceCents   int64  `json:"price_cents"`
	Description  string `json:"description"`
	Active       *bool  `json:"active"`
}

func (req *serviceRequest) validate() (model.Service, string) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.Service{}, "name is required"
	}
	if req.DurationMins <= 0 {
		return model.Service{}, "duration_minutes must be positive"
	}
	if req.PriceCents < 0 {
		return model.Service{}, "price_cents must not be negative"
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return model.Service{
		Name:         name,
		DurationMins: req.DurationMins,
		PriceCents:   req.PriceCents,
		Description:  strings.TrimSpace(req.Description),
		Active:       active,
	}, ""
}

// CreateService serves POST /api/v1/services.
func (h *CatalogHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}

	var req serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	svc, msg := req.validate()
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	svc.ID = uuid.NewString()
	svc.BusinessID = sess.BusinessID

	if err := h.repo.CreateService(r.Context(), svc); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create service")
		return
	}
	writeJSON(w, http.StatusCreated, svc)
}

// UpdateService serves PUT /api/v1/services/{id}.
func (h *CatalogHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}

	var req serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	svc, msg := req.validate()
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	svc.ID = r.PathValue("id")
	svc.BusinessID = sess.BusinessID

	if err := h.repo.UpdateService(r.Context(), svc); err != nil {
		if storage.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "service not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update service")
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

// DeleteService serves DELETE /api/v1/services/{id}.
func (h *CatalogHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	if err := h.repo.DeleteService(r.Context(), sess.BusinessID, r.PathValue("id")); err != nil {
		if storage.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "service not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete service")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListServices serves GET /api/v1/services.
func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	list, err := h.repo.ListServices(r.Context(), sess.BusinessID, 100)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list services")
		return
	}
	if list == nil {
		list = []model.Service{}
	}
	writeJSON(w, http.StatusOK, list)
}

type menuItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Category    string `json:"category"`
	Available   *bool  `json:"available"`
	Position    int    `json:"position"`
}

func (req *menuItemRequest) validate() (model.MenuItem, string) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.MenuItem{}, "name is required"
	}
	if req.PriceCents < 0 {
		return model.MenuItem{}, "price_cents must not be negative"
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	return model.MenuItem{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		PriceCents:  req.PriceCents,
		Category:    strings.TrimSpace(req.Category),
		Available:   available,
		Position:    req.Position,
	}, ""
}

// CreateMenuItem serves POST /api/v1/menu-items.
func (h *CatalogHandler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}

	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	item, msg := req.validate()
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	item.ID = uuid.NewString()
	item.BusinessID = sess.BusinessID

	if err := h.repo.CreateMenuItem(r.Context(), item); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create menu item")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// UpdateMenuItem serves PUT /api/v1/menu-items/{id}.
func (h *CatalogHandler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}

	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	item, msg := req.validate()
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	item.ID = r.PathValue("id")
	item.BusinessID = sess.BusinessID

	if err := h.repo.UpdateMenuItem(r.Context(), item); err != nil {
		if storage.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "menu item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update menu item")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeleteMenuItem serves DELETE /api/v1/menu-items/{id}.
func (h *CatalogHandler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	if err := h.repo.DeleteMenuItem(r.Context(), sess.BusinessID, r.PathValue("id")); err != nil {
		if storage.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "menu item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete menu item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMenuItems serves GET /api/v1/menu-items.
func (h *CatalogHandler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	list, err := h.repo.ListMenuItems(r.Context(), sess.BusinessID, 200)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list menu items")
		return
	}
	if list == nil {
		list = []model.MenuItem{}
	}
	writeJSON(w, http.StatusOK, list)
}
