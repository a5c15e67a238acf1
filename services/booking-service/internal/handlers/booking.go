package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/menulink/menulink/services/booking-service/internal/availability"
	"github.com/menulink/menulink/services/booking-service/internal/model"
	"github.com/menulink/menulink/services/booking-service/internal/outbox"
	"github.com/menulink/menulink/services/booking-service/internal/schedule"
	"github.com/menulink/menulink/services/booking-service/internal/storage"
)

type BookingHandler struct {
	repo     *storage.BookingRepository
	business *storage.BusinessRepository
	outbox   *outbox.Repository
	logger   *slog.Logger
}

func NewBookingHandler(repo *storage.BookingRepository, business *storage.BusinessRepository, outboxRepo *outbox.Repository, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{
		repo:     repo,
		business: business,
		outbox:   outboxRepo,
		logger:   logger,
	}
}

type createBookingRequest struct {
	BusinessID    string `json:"business_id"`
	ServiceID     string `json:"service_id"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	Notes         string `json:"notes"`
}

type bookingResponse struct {
	ID            string `json:"id"`
	BusinessID    string `json:"business_id"`
	ServiceID     string `json:"service_id,omitempty"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	DurationMins  int    `json:"duration_minutes"`
	Status        string `json:"status"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	Notes         string `json:"notes,omitempty"`
}

func toBookingResponse(b model.Booking) bookingResponse {
	return bookingResponse{
		ID:            b.ID,
		BusinessID:    b.BusinessID,
		ServiceID:     b.ServiceID,
		Date:          b.Date.Format("2006-01-02"),
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		DurationMins:  b.DurationMins,
		Status:        b.Status,
		CustomerName:  b.CustomerName,
		CustomerPhone: b.CustomerPhone,
		Notes:         b.Notes,
	}
}

// Create serves POST /api/v1/public/bookings. The conflict check and insert
// run in one transaction; the partial unique index on
// (business_id, booking_date, start_time) catches the writer that loses a
// same-slot race.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	req.BusinessID = strings.TrimSpace(req.BusinessID)
	req.ServiceID = strings.TrimSpace(req.ServiceID)
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)

	if req.BusinessID == "" || req.CustomerName == "" || req.CustomerPhone == "" || req.Date == "" || req.StartTime == "" {
		writeError(w, http.StatusBadRequest, "business_id, customer_name, customer_phone, date, and start_time are required")
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date (want YYYY-MM-DD)")
		return
	}
	start, err := schedule.ParseTimeOfDay(req.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_time (want HH:MM)")
		return
	}

	ctx := r.Context()
	durationMins, ok := h.resolveDuration(w, r, req.BusinessID, req.ServiceID)
	if !ok {
		return
	}
	end := start.Add(durationMins)

	booking := &model.Booking{
		ID:            uuid.NewString(),
		BusinessID:    req.BusinessID,
		ServiceID:     req.ServiceID,
		Kind:          model.BookingKindAppointment,
		Date:          date,
		StartTime:     start.String(),
		EndTime:       end.String(),
		DurationMins:  durationMins,
		Status:        model.BookingStatusPending,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Notes:         strings.TrimSpace(req.Notes),
	}

	tx, err := h.repo.Begin(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if !h.enforceMonthlyCap(w, r, tx, req.BusinessID, date) {
		return
	}

	booked, err := h.repo.ListBlockingIntervalsTx(ctx, tx, req.BusinessID, date, "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load bookings")
		return
	}
	if availability.ConflictsAny(start, end, bookedIntervals(booked)) {
		writeError(w, http.StatusConflict, "slot taken")
		return
	}

	if err := h.repo.CreateTx(ctx, tx, booking); err != nil {
		if storage.IsConflict(err) {
			writeError(w, http.StatusConflict, "slot taken")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create booking")
		return
	}

	if !h.emitBookingEvent(w, r, tx, "booking.created.v1", booking) {
		return
	}
	if err := tx.Commit(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to commit")
		return
	}
	writeJSON(w, http.StatusCreated, toBookingResponse(*booking))
}

type updateBookingRequest struct {
	Date          *string `json:"date"`
	StartTime     *string `json:"start_time"`
	Status        *string `json:"status"`
	CustomerName  *string `json:"customer_name"`
	CustomerPhone *string `json:"customer_phone"`
	Notes         *string `json:"notes"`
}

// Update serves PUT /api/v1/bookings/{id}. Only schedule changes (date or
// start_time) trigger a conflict re-check, excluding the booking's own row.
func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	businessID := strings.TrimSpace(r.Header.Get("X-Business-Id"))
	if businessID == "" {
		writeError(w, http.StatusBadRequest, "missing X-Business-Id")
		return
	}
	bookingID := r.PathValue("id")

	var req updateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	ctx := r.Context()
	tx, err := h.repo.Begin(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	booking, err := h.repo.GetForUpdate(ctx, tx, businessID, bookingID)
	if err != nil {
		if storage.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "booking not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load booking")
		return
	}

	rescheduled := false
	if req.Date != nil {
		date, err := time.ParseInLocation("2006-01-02", *req.Date, time.UTC)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date (want YYYY-MM-DD)")
			return
		}
		if !date.Equal(booking.Date) {
			booking.Date = date
			rescheduled = true
		}
	}
	if req.StartTime != nil {
		start, err := schedule.ParseTimeOfDay(*req.StartTime)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start_time (want HH:MM)")
			return
		}
		if start.String() != booking.StartTime {
			booking.StartTime = start.String()
			rescheduled = true
		}
	}
	if req.Status != nil {
		status := strings.TrimSpace(*req.Status)
		if !validBookingStatus(status) {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		booking.Status = status
	}
	if req.CustomerName != nil {
		booking.CustomerName = strings.TrimSpace(*req.CustomerName)
	}
	if req.CustomerPhone != nil {
		booking.CustomerPhone = strings.TrimSpace(*req.CustomerPhone)
	}
	if req.Notes != nil {
		booking.Notes = strings.TrimSpace(*req.Notes)
	}

	if rescheduled {
		start, err := schedule.ParseTimeOfDay(booking.StartTime)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start_time (want HH:MM)")
			return
		}
		end := start.Add(booking.DurationMins)
		booking.EndTime = end.String()

		booked, err := h.repo.ListBlockingIntervalsTx(ctx, tx, businessID, booking.Date, booking.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load bookings")
			return
		}
		if availability.ConflictsAny(start, end, bookedIntervals(booked)) {
			writeError(w, http.StatusConflict, "slot taken")
			return
		}
	}

	if err := h.repo.UpdateTx(ctx, tx, &booking); err != nil {
		if storage.IsConflict(err) {
			writeError(w, http.StatusConflict, "slot taken")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update booking")
		return
	}

	if !h.emitBookingEvent(w, r, tx, "booking.updated.v1", &booking) {
		return
	}
	if err := tx.Commit(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to commit")
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

// List serves GET /api/v1/bookings, scoped to one tenant.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	businessID := strings.TrimSpace(r.Header.Get("X-Business-Id"))
	if businessID == "" {
		businessID = strings.TrimSpace(r.URL.Query().Get("business_id"))
	}
	if businessID == "" {
		writeError(w, http.StatusBadRequest, "business_id required")
		return
	}

	limit := 50
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	bookings, err := h.repo.ListByBusiness(r.Context(), businessID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}

	items := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, toBookingResponse(b))
	}
	writeJSON(w, http.StatusOK, items)
}

// resolveDuration picks the service duration, defaulting to 30 minutes when
// no service is given or it carries no usable duration. An explicit unknown
// service is a client error.
func (h *BookingHandler) resolveDuration(w http.ResponseWriter, r *http.Request, businessID, serviceID string) (int, bool) {
	if serviceID == "" {
		return defaultDurationMins, true
	}
	mins, err := h.business.GetServiceDuration(r.Context(), businessID, serviceID)
	if err != nil {
		if storage.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "service not found")
			return 0, false
		}
		writeError(w, http.StatusInternalServerError, "failed to load service")
		return 0, false
	}
	if mins <= 0 {
		return defaultDurationMins, true
	}
	return mins, true
}

func (h *BookingHandler) enforceMonthlyCap(w http.ResponseWriter, r *http.Request, tx pgx.Tx, businessID string, date time.Time) bool {
	maxBookings, err := h.business.GetMonthlyBookingCap(r.Context(), businessID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "entitlements check failed")
		return false
	}
	monthStart := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)
	cnt, err := h.repo.CountBookedInRange(r.Context(), tx, businessID, monthStart, monthEnd)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "entitlements check failed")
		return false
	}
	if cnt >= maxBookings {
		writeError(w, http.StatusPaymentRequired, "monthly booking limit reached (upgrade required)")
		return false
	}
	return true
}

func (h *BookingHandler) emitBookingEvent(w http.ResponseWriter, r *http.Request, tx pgx.Tx, eventType string, b *model.Booking) bool {
	payload, err := json.Marshal(map[string]any{
		"booking_id":     b.ID,
		"business_id":    b.BusinessID,
		"service_id":     b.ServiceID,
		"date":           b.Date.Format("2006-01-02"),
		"start_time":     b.StartTime,
		"end_time":       b.EndTime,
		"status":         b.Status,
		"customer_name":  b.CustomerName,
		"customer_phone": b.CustomerPhone,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build event payload")
		return false
	}
	if err := h.outbox.Insert(r.Context(), tx, outbox.Event{
		AggregateType: "booking",
		AggregateID:   b.ID,
		EventType:     eventType,
		Payload:       payload,
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to write outbox event")
		return false
	}
	return true
}

func validBookingStatus(s string) bool {
	switch s {
	case model.BookingStatusPending, model.BookingStatusConfirmed, model.BookingStatusCompleted,
		model.BookingStatusDelivered, model.BookingStatusCancelled, model.BookingStatusNoShow:
		return true
	}
	return false
}
