package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/menulink/menulink/services/booking-service/internal/availability"
	"github.com/menulink/menulink/services/booking-service/internal/model"
	"github.com/menulink/menulink/services/booking-service/internal/orders"
	"github.com/menulink/menulink/services/booking-service/internal/outbox"
	"github.com/menulink/menulink/services/booking-service/internal/schedule"
	"github.com/menulink/menulink/services/booking-service/internal/storage"
)

type OrderHandler struct {
	repo             *storage.OrderRepository
	bookings         *storage.BookingRepository
	business         *storage.BusinessRepository
	outbox           *outbox.Repository
	logger           *slog.Logger
	taxRateBps       int64
	deliveryFeeCents int64
}

func NewOrderHandler(repo *storage.OrderRepository, bookings *storage.BookingRepository, business *storage.BusinessRepository, outboxRepo *outbox.Repository, logger *slog.Logger, taxRateBps, deliveryFeeCents int64) *OrderHandler {
	return &OrderHandler{
		repo:             repo,
		bookings:         bookings,
		business:         business,
		outbox:           outboxRepo,
		logger:           logger,
		taxRateBps:       taxRateBps,
		deliveryFeeCents: deliveryFeeCents,
	}
}

type orderItemRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

type createOrderRequest struct {
	BusinessID    string             `json:"business_id"`
	OrderType     string             `json:"order_type"`
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	Items         []orderItemRequest `json:"items"`
	ScheduledDate string             `json:"scheduled_date"`
	ScheduledTime string             `json:"scheduled_time"`
}

type orderItemResponse struct {
	MenuItemID     string `json:"menu_item_id,omitempty"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
	LineTotalCents int64  `json:"line_total_cents"`
}

type orderResponse struct {
	ID               string              `json:"id"`
	BusinessID       string              `json:"business_id"`
	OrderType        string              `json:"order_type"`
	Status           string              `json:"status"`
	SubtotalCents    int64               `json:"subtotal_cents"`
	TaxCents         int64               `json:"tax_cents"`
	DeliveryFeeCents int64               `json:"delivery_fee_cents"`
	TotalCents       int64               `json:"total_cents"`
	CustomerName     string              `json:"customer_name"`
	CustomerPhone    string              `json:"customer_phone"`
	ScheduledDate    string              `json:"scheduled_date,omitempty"`
	ScheduledTime    string              `json:"scheduled_time,omitempty"`
	Items            []orderItemResponse `json:"items,omitempty"`
}

func toOrderResponse(o model.Order) orderResponse {
	resp := orderResponse{
		ID:               o.ID,
		BusinessID:       o.BusinessID,
		OrderType:        o.OrderType,
		Status:           o.Status,
		SubtotalCents:    o.SubtotalCents,
		TaxCents:         o.TaxCents,
		DeliveryFeeCents: o.DeliveryFeeCents,
		TotalCents:       o.TotalCents,
		CustomerName:     o.CustomerName,
		CustomerPhone:    o.CustomerPhone,
		ScheduledTime:    o.ScheduledStart,
	}
	if o.ScheduledDate != nil {
		resp.ScheduledDate = o.ScheduledDate.Format("2006-01-02")
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			MenuItemID:     it.MenuItemID,
			Name:           it.Name,
			UnitPriceCents: it.UnitPriceCents,
			Quantity:       it.Quantity,
			LineTotalCents: it.LineTotalCents,
		})
	}
	return resp
}

// Create serves POST /api/v1/public/orders. Line items snapshot the menu
// item's current name and price. A scheduled order reserves its pickup slot
// through the same conflict check bookings use, via a companion booking row.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	req.BusinessID = strings.TrimSpace(req.BusinessID)
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)

	if req.BusinessID == "" || req.CustomerName == "" || len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "business_id, customer_name, and items are required")
		return
	}
	orderType, err := orders.ParseOrderType(req.OrderType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	order := &model.Order{
		ID:            uuid.NewString(),
		BusinessID:    req.BusinessID,
		OrderType:     orderType,
		Status:        string(orders.StatusPending),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
	}

	var lines []orders.Line
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, "item quantity must be positive")
			return
		}
		itemID := strings.TrimSpace(item.MenuItemID)
		if itemID == "" {
			writeError(w, http.StatusBadRequest, "menu_item_id is required on every item")
			return
		}
		snap, err := h.business.GetMenuItem(ctx, req.BusinessID, itemID)
		if err != nil {
			if storage.IsNotFound(err) {
				writeError(w, http.StatusNotFound, "menu item not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to load menu item")
			return
		}
		if !snap.Available {
			writeError(w, http.StatusBadRequest, "menu item not available: "+snap.Name)
			return
		}
		line := orders.Line{UnitPriceCents: snap.PriceCents, Quantity: item.Quantity}
		lines = append(lines, line)
		order.Items = append(order.Items, model.OrderItem{
			ID:             uuid.NewString(),
			OrderID:        order.ID,
			MenuItemID:     snap.ID,
			Name:           snap.Name,
			UnitPriceCents: snap.PriceCents,
			Quantity:       item.Quantity,
			LineTotalCents: orders.LineTotal(line),
			Position:       i,
		})
	}

	totals := orders.ComputeTotals(lines, h.taxRateBps, h.deliveryFeeCents, orderType)
	order.SubtotalCents = totals.SubtotalCents
	order.TaxCents = totals.TaxCents
	order.DeliveryFeeCents = totals.DeliveryFeeCents
	order.TotalCents = totals.TotalCents

	slot, ok := h.parseSchedule(w, &req, order)
	if !ok {
		return
	}

	tx, err := h.repo.Begin(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if slot != nil {
		booked, err := h.bookings.ListBlockingIntervalsTx(ctx, tx, req.BusinessID, *order.ScheduledDate, "")
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load bookings")
			return
		}
		if availability.ConflictsAny(slot.Start, slot.End, bookedIntervals(booked)) {
			writeError(w, http.StatusConflict, "slot taken")
			return
		}
	}

	if err := h.repo.CreateTx(ctx, tx, order); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create order")
		return
	}

	if slot != nil {
		companion := &model.Booking{
			ID:            uuid.NewString(),
			BusinessID:    req.BusinessID,
			OrderID:       order.ID,
			Kind:          model.BookingKindOrder,
			Date:          *order.ScheduledDate,
			StartTime:     slot.Start.String(),
			EndTime:       slot.End.String(),
			DurationMins:  defaultDurationMins,
			Status:        model.BookingStatusPending,
			CustomerName:  order.CustomerName,
			CustomerPhone: order.CustomerPhone,
		}
		if err := h.bookings.CreateTx(ctx, tx, companion); err != nil {
			if storage.IsConflict(err) {
				writeError(w, http.StatusConflict, "slot taken")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to reserve order slot")
			return
		}
	}

	if !h.emitOrderEvent(w, r, tx, "order.created.v1", order, "") {
		return
	}
	if err := tx.Commit(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to commit")
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(*order))
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus serves PUT /api/v1/orders/{id}. Invalid transitions disclose
// the allowed set so the client can fix its request.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	businessID := strings.TrimSpace(r.Header.Get("X-Business-Id"))
	if businessID == "" {
		writeError(w, http.StatusBadRequest, "missing X-Business-Id")
		return
	}
	orderID := r.PathValue("id")

	var req updateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	next, err := orders.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	tx, err := h.repo.Begin(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	order, err := h.repo.GetForUpdate(ctx, tx, businessID, orderID)
	if err != nil {
		if storage.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}

	current := orders.Status(order.Status)
	if err := orders.Transition(current, next); err != nil {
		var invalid *orders.InvalidTransitionError
		if errors.As(err, &invalid) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":               invalid.Error(),
				"current_status":      invalid.Current,
				"requested_status":    invalid.Attempted,
				"allowed_transitions": invalid.Allowed,
			})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if next == current {
		writeJSON(w, http.StatusOK, map[string]string{"id": order.ID, "status": order.Status})
		return
	}

	if err := h.repo.UpdateStatusTx(ctx, tx, businessID, orderID, string(next)); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update order")
		return
	}
	if next == orders.StatusCancelled {
		// A cancelled scheduled order must stop blocking its slot.
		if err := h.repo.ReleaseOrderSlotTx(ctx, tx, businessID, orderID); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to release order slot")
			return
		}
	}

	order.Status = string(next)
	if !h.emitOrderEvent(w, r, tx, "order.status_changed.v1", &order, string(current)) {
		return
	}
	if err := tx.Commit(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to commit")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": order.ID, "status": order.Status})
}

// Get serves GET /api/v1/orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	businessID := strings.TrimSpace(r.Header.Get("X-Business-Id"))
	if businessID == "" {
		businessID = strings.TrimSpace(r.URL.Query().Get("business_id"))
	}
	if businessID == "" {
		writeError(w, http.StatusBadRequest, "business_id required")
		return
	}

	order, err := h.repo.Get(r.Context(), businessID, r.PathValue("id"))
	if err != nil {
		if storage.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// List serves GET /api/v1/orders with an optional status filter.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	businessID := strings.TrimSpace(r.Header.Get("X-Business-Id"))
	if businessID == "" {
		businessID = strings.TrimSpace(r.URL.Query().Get("business_id"))
	}
	if businessID == "" {
		writeError(w, http.StatusBadRequest, "business_id required")
		return
	}

	status := strings.TrimSpace(r.URL.Query().Get("status"))
	if status != "" {
		if _, err := orders.ParseStatus(status); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	limit := 50
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	list, err := h.repo.ListByBusiness(r.Context(), businessID, status, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	items := make([]orderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, toOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, items)
}

// parseSchedule validates the optional pickup slot on an order, storing the
// derived end time on the order row. Both fields must come together.
func (h *OrderHandler) parseSchedule(w http.ResponseWriter, req *createOrderRequest, order *model.Order) (*availability.Interval, bool) {
	dateStr := strings.TrimSpace(req.ScheduledDate)
	timeStr := strings.TrimSpace(req.ScheduledTime)
	if dateStr == "" && timeStr == "" {
		return nil, true
	}
	if dateStr == "" || timeStr == "" {
		writeError(w, http.StatusBadRequest, "scheduled_date and scheduled_time must both be set")
		return nil, false
	}

	date, err := time.ParseInLocation("2006-01-02", dateStr, time.UTC)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid scheduled_date (want YYYY-MM-DD)")
		return nil, false
	}
	start, err := schedule.ParseTimeOfDay(timeStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid scheduled_time (want HH:MM)")
		return nil, false
	}
	end := start.Add(defaultDurationMins)

	order.ScheduledDate = &date
	order.ScheduledStart = start.String()
	order.ScheduledEnd = end.String()
	return &availability.Interval{Start: start, End: end}, true
}

func (h *OrderHandler) emitOrderEvent(w http.ResponseWriter, r *http.Request, tx pgx.Tx, eventType string, o *model.Order, previousStatus string) bool {
	payload, err := json.Marshal(map[string]any{
		"order_id":        o.ID,
		"business_id":     o.BusinessID,
		"order_type":      o.OrderType,
		"status":          o.Status,
		"previous_status": previousStatus,
		"total_cents":     o.TotalCents,
		"customer_name":   o.CustomerName,
		"customer_phone":  o.CustomerPhone,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build event payload")
		return false
	}
	if err := h.outbox.Insert(r.Context(), tx, outbox.Event{
		AggregateType: "order",
		AggregateID:   o.ID,
		EventType:     eventType,
		Payload:       payload,
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to write outbox event")
		return false
	}
	return true
}
