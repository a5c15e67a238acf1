package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/menulink/menulink/services/business-service/internal/storage"
)

type BusinessHandler struct {
	repo   *storage.BusinessRepository
	logger *slog.Logger
}

func NewBusinessHandler(repo *storage.BusinessRepository, logger *slog.Logger) *BusinessHandler {
	return &BusinessHandler{repo: repo, logger: logger}
}

type businessResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Slug     string            `json:"slug"`
	Timezone string            `json:"timezone"`
	Phone    string            `json:"phone"`
	Address  string            `json:"address"`
	Hours    map[string]string `json:"hours"`
}

// GetProfile serves GET /api/v1/business.
func (h *BusinessHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}

	b, err := h.repo.Get(r.Context(), sess.BusinessID)
	if err != nil {
		if storage.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "business not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load business")
		return
	}
	writeJSON(w, http.StatusOK, businessResponse{
		ID:       b.ID,
		Name:     b.Name,
		Slug:     b.Slug,
		Timezone: b.Timezone,
		Phone:    b.Phone,
		Address:  b.Address,
		Hours:    b.Hours,
	})
}

type updateBusinessRequest struct {
	Name     *string            `json:"name"`
	Timezone *string            `json:"timezone"`
	Phone    *string            `json:"phone"`
	Address  *string            `json:"address"`
	Hours    *map[string]string `json:"hours"`
}

// UpdateProfile serves PUT /api/v1/business. Absent fields keep their
// current value; hours are validated before persisting.
func (h *BusinessHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}

	var req updateBusinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	b, err := h.repo.Get(r.Context(), sess.BusinessID)
	if err != nil {
		if storage.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "business not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load business")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, "name must not be empty")
			return
		}
		b.Name = name
	}
	if req.Timezone != nil {
		tz := strings.TrimSpace(*req.Timezone)
		if tz == "" {
			tz = "UTC"
		}
		if _, err := time.LoadLocation(tz); err != nil {
			writeError(w, http.StatusBadRequest, "unknown timezone")
			return
		}
		b.Timezone = tz
	}
	if req.Phone != nil {
		b.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		b.Address = strings.TrimSpace(*req.Address)
	}
	if req.Hours != nil {
		if err := ValidateHours(*req.Hours); err != nil {
			writeError(w, http.StatusBadRequest, "invalid hours: "+err.Error())
			return
		}
		b.Hours = *req.Hours
	}

	if err := h.repo.Update(r.Context(), b); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update business")
		return
	}
	h.logger.Info("business profile updated", "business_id", b.ID)
	writeJSON(w, http.StatusOK, businessResponse{
		ID:       b.ID,
		Name:     b.Name,
		Slug:     b.Slug,
		Timezone: b.Timezone,
		Phone:    b.Phone,
		Address:  b.Address,
		Hours:    b.Hours,
	})
}
