package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/menulink/menulink/services/booking-service/internal/availability"
	"github.com/menulink/menulink/services/booking-service/internal/model"
	"github.com/menulink/menulink/services/booking-service/internal/schedule"
	"github.com/menulink/menulink/services/booking-service/internal/storage"
)

const defaultDurationMins = 30

// scheduleStore is the tenant data availability needs.
type scheduleStore interface {
	GetSchedule(ctx context.Context, businessID string) (storage.BusinessSchedule, error)
	GetServiceDuration(ctx context.Context, businessID, serviceID string) (int, error)
}

// dayBookingStore lists the intervals that block slots on one day.
type dayBookingStore interface {
	ListBlockingIntervals(ctx context.Context, businessID string, date time.Time, excludeID string) ([]model.Booking, error)
}

type AvailabilityHandler struct {
	business scheduleStore
	bookings dayBookingStore
	logger   *slog.Logger
	now      func() time.Time
}

func NewAvailabilityHandler(business scheduleStore, bookings dayBookingStore, logger *slog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		business: business,
		bookings: bookings,
		logger:   logger,
		now:      time.Now,
	}
}

type slotItem struct {
	Time      string  `json:"time"`
	EndTime   string  `json:"end_time"`
	Available bool    `json:"available"`
	Reason    *string `json:"reason"`
}

type availabilityResponse struct {
	Date            string     `json:"date"`
	DayOfWeek       string     `json:"day_of_week"`
	IsOpen          bool       `json:"is_open"`
	OpenTime        string     `json:"open_time,omitempty"`
	CloseTime       string     `json:"close_time,omitempty"`
	ServiceDuration int        `json:"service_duration,omitempty"`
	Slots           []slotItem `json:"slots"`
	AvailableCount  int        `json:"available_count"`
	TotalSlots      int        `json:"total_slots"`
}

// GetAvailability serves GET /api/v1/public/availability.
func (h *AvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	businessID := strings.TrimSpace(r.URL.Query().Get("business_id"))
	dateStr := strings.TrimSpace(r.URL.Query().Get("date"))
	serviceID := strings.TrimSpace(r.URL.Query().Get("service_id"))
	if businessID == "" || dateStr == "" {
		writeError(w, http.StatusBadRequest, "business_id and date are required")
		return
	}

	date, err := time.ParseInLocation("2006-01-02", dateStr, time.UTC)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date (want YYYY-MM-DD)")
		return
	}

	ctx := r.Context()
	sched, err := h.business.GetSchedule(ctx, businessID)
	if err != nil {
		if storage.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "business not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load business")
		return
	}

	durationMins := defaultDurationMins
	if serviceID != "" {
		mins, err := h.business.GetServiceDuration(ctx, businessID, serviceID)
		switch {
		case storage.IsNotFound(err):
			// Unknown service falls back to the default duration.
		case err != nil:
			writeError(w, http.StatusInternalServerError, "failed to load service")
			return
		case mins > 0:
			durationMins = mins
		}
	}

	week := h.weekHours(sched)
	day := week[schedule.DayKey(date)]

	resp := availabilityResponse{
		Date:      dateStr,
		DayOfWeek: schedule.DayKey(date),
		Slots:     []slotItem{},
	}
	if day.Closed {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	booked, err := h.bookings.ListBlockingIntervals(ctx, businessID, date, "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load bookings")
		return
	}

	now := h.now().In(businessLocation(sched.Timezone))
	today := now.Format("2006-01-02") == dateStr
	view := availability.BuildDay(day, durationMins, bookedIntervals(booked),
		today, schedule.TimeOfDay{Hour: now.Hour(), Minute: now.Minute()})

	resp.IsOpen = view.IsOpen
	resp.OpenTime = view.OpenTime.String()
	resp.CloseTime = view.CloseTime.String()
	resp.ServiceDuration = durationMins
	resp.AvailableCount = view.AvailableCount
	resp.TotalSlots = len(view.Slots)
	for _, s := range view.Slots {
		item := slotItem{Time: s.Time.String(), EndTime: s.EndTime.String(), Available: s.Available}
		if s.Reason != "" {
			reason := s.Reason
			item.Reason = &reason
		}
		resp.Slots = append(resp.Slots, item)
	}
	writeJSON(w, http.StatusOK, resp)
}

// weekHours parses stored hours, falling back to the documented default
// schedule on malformed data rather than reporting the business closed.
func (h *AvailabilityHandler) weekHours(sched storage.BusinessSchedule) schedule.WeekHours {
	if sched.HoursRaw == nil {
		h.logger.Warn("business hours missing; using default schedule", "business_id", sched.ID)
		return schedule.DefaultWeekHours()
	}
	week, err := schedule.ParseWeekHours(sched.HoursRaw)
	if err != nil {
		h.logger.Warn("business hours malformed; using default schedule", "business_id", sched.ID, "err", err)
		return schedule.DefaultWeekHours()
	}
	return week
}

func businessLocation(tz string) *time.Location {
	loc, err := time.LoadLocation(tz)
	if err != nil || tz == "" {
		return time.UTC
	}
	return loc
}

// bookedIntervals converts stored bookings to intervals, dropping rows whose
// times fail to parse (impossible for rows written through this service).
func bookedIntervals(booked []model.Booking) []availability.Interval {
	out := make([]availability.Interval, 0, len(booked))
	for _, b := range booked {
		start, err := schedule.ParseTimeOfDay(b.StartTime)
		if err != nil {
			continue
		}
		end, err := schedule.ParseTimeOfDay(b.EndTime)
		if err != nil {
			// End times past midnight ("24:15") don't parse as TimeOfDay;
			// reconstruct from the duration instead.
			end = start.Add(b.DurationMins)
		}
		out = append(out, availability.Interval{Start: start, End: end})
	}
	return out
}
