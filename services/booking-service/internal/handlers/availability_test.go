package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/menulink/menulink/services/booking-service/internal/model"
	"github.com/menulink/menulink/services/booking-service/internal/storage"
)

type stubBusinessStore struct {
	schedule storage.BusinessSchedule
	found    bool
	duration int
	svcFound bool
}

func (s *stubBusinessStore) GetSchedule(ctx context.Context, businessID string) (storage.BusinessSchedule, error) {
	if !s.found {
		return storage.BusinessSchedule{}, pgx.ErrNoRows
	}
	return s.schedule, nil
}

func (s *stubBusinessStore) GetServiceDuration(ctx context.Context, businessID, serviceID string) (int, error) {
	if !s.svcFound {
		return 0, pgx.ErrNoRows
	}
	return s.duration, nil
}

type stubBookingStore struct {
	bookings []model.Booking
}

func (s *stubBookingStore) ListBlockingIntervals(ctx context.Context, businessID string, date time.Time, excludeID string) ([]model.Booking, error) {
	return s.bookings, nil
}

func newTestAvailabilityHandler(business *stubBusinessStore, bookings *stubBookingStore, now time.Time) *AvailabilityHandler {
	h := NewAvailabilityHandler(business, bookings, slog.New(slog.DiscardHandler))
	h.now = func() time.Time { return now }
	return h
}

func getAvailability(t *testing.T, h *AvailabilityHandler, query string) (int, availabilityResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/availability?"+query, nil)
	rec := httptest.NewRecorder()
	h.GetAvailability(rec, req)

	var resp availabilityResponse
	if rec.Code == http.StatusOK {
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return rec.Code, resp
}

func TestGetAvailabilityMissingParams(t *testing.T) {
	h := newTestAvailabilityHandler(&stubBusinessStore{found: true}, &stubBookingStore{}, time.Now())

	code, _ := getAvailability(t, h, "date=2026-09-10")
	if code != http.StatusBadRequest {
		t.Fatalf("missing business_id: got %d, want 400", code)
	}
	code, _ = getAvailability(t, h, "business_id=b1")
	if code != http.StatusBadRequest {
		t.Fatalf("missing date: got %d, want 400", code)
	}
	code, _ = getAvailability(t, h, "business_id=b1&date=10-09-2026")
	if code != http.StatusBadRequest {
		t.Fatalf("bad date format: got %d, want 400", code)
	}
}

func TestGetAvailabilityUnknownBusiness(t *testing.T) {
	h := newTestAvailabilityHandler(&stubBusinessStore{found: false}, &stubBookingStore{}, time.Now())

	code, _ := getAvailability(t, h, "business_id=b1&date=2026-09-10")
	if code != http.StatusNotFound {
		t.Fatalf("got %d, want 404", code)
	}
}

func TestGetAvailabilityClosedDay(t *testing.T) {
	business := &stubBusinessStore{
		found: true,
		schedule: storage.BusinessSchedule{
			ID:       "b1",
			Timezone: "UTC",
			HoursRaw: map[string]string{"thu": ""},
		},
	}
	h := newTestAvailabilityHandler(business, &stubBookingStore{}, time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC))

	// 2026-09-10 is a Thursday.
	code, resp := getAvailability(t, h, "business_id=b1&date=2026-09-10")
	if code != http.StatusOK {
		t.Fatalf("got %d, want 200", code)
	}
	if resp.IsOpen {
		t.Fatal("closed day reported open")
	}
	if len(resp.Slots) != 0 {
		t.Fatalf("closed day has %d slots, want 0", len(resp.Slots))
	}
	if resp.DayOfWeek != "thu" {
		t.Fatalf("day_of_week = %q, want thu", resp.DayOfWeek)
	}
}

func TestGetAvailabilityMarksBookedSlots(t *testing.T) {
	business := &stubBusinessStore{
		found: true,
		schedule: storage.BusinessSchedule{
			ID:       "b1",
			Timezone: "UTC",
			HoursRaw: map[string]string{"thu": "09:00-11:00"},
		},
	}
	bookings := &stubBookingStore{
		bookings: []model.Booking{
			{StartTime: "09:30", EndTime: "10:00", DurationMins: 30},
		},
	}
	// A day in the future so no slot is past.
	h := newTestAvailabilityHandler(business, bookings, time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC))

	code, resp := getAvailability(t, h, "business_id=b1&date=2026-09-10")
	if code != http.StatusOK {
		t.Fatalf("got %d, want 200", code)
	}
	if !resp.IsOpen {
		t.Fatal("open day reported closed")
	}
	if len(resp.Slots) != 4 {
		t.Fatalf("got %d slots, want 4", len(resp.Slots))
	}
	for _, s := range resp.Slots {
		switch s.Time {
		case "09:30":
			if s.Available {
				t.Error("09:30 should be occupied")
			}
			if s.Reason == nil || *s.Reason != "occupied" {
				t.Errorf("09:30 reason = %v, want occupied", s.Reason)
			}
		default:
			if !s.Available {
				t.Errorf("%s should be available", s.Time)
			}
			if s.Reason != nil {
				t.Errorf("%s reason = %q, want null", s.Time, *s.Reason)
			}
		}
	}
	if resp.AvailableCount != 3 {
		t.Fatalf("available_count = %d, want 3", resp.AvailableCount)
	}
}

func TestGetAvailabilityFiltersPastToday(t *testing.T) {
	business := &stubBusinessStore{
		found: true,
		schedule: storage.BusinessSchedule{
			ID:       "b1",
			Timezone: "UTC",
			HoursRaw: map[string]string{"thu": "09:00-11:00"},
		},
	}
	// Requesting today's date at 09:45: 09:00 and 09:30 are past.
	now := time.Date(2026, 9, 10, 9, 45, 0, 0, time.UTC)
	h := newTestAvailabilityHandler(business, &stubBookingStore{}, now)

	code, resp := getAvailability(t, h, "business_id=b1&date=2026-09-10")
	if code != http.StatusOK {
		t.Fatalf("got %d, want 200", code)
	}
	past := map[string]bool{}
	for _, s := range resp.Slots {
		if s.Reason != nil && *s.Reason == "past" {
			past[s.Time] = true
		}
	}
	if !past["09:00"] || !past["09:30"] {
		t.Fatalf("past slots = %v, want 09:00 and 09:30", past)
	}
	if past["10:00"] || past["10:30"] {
		t.Fatalf("future slots marked past: %v", past)
	}
}

func TestGetAvailabilityServiceDuration(t *testing.T) {
	business := &stubBusinessStore{
		found:    true,
		svcFound: true,
		duration: 60,
		schedule: storage.BusinessSchedule{
			ID:       "b1",
			Timezone: "UTC",
			HoursRaw: map[string]string{"thu": "09:00-11:00"},
		},
	}
	h := newTestAvailabilityHandler(business, &stubBookingStore{}, time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC))

	code, resp := getAvailability(t, h, "business_id=b1&date=2026-09-10&service_id=s1")
	if code != http.StatusOK {
		t.Fatalf("got %d, want 200", code)
	}
	if resp.ServiceDuration != 60 {
		t.Fatalf("service_duration = %d, want 60", resp.ServiceDuration)
	}
	// 60-minute service in a two-hour window, 30-minute step.
	if len(resp.Slots) != 3 {
		t.Fatalf("got %d slots, want 3", len(resp.Slots))
	}
	if last := resp.Slots[len(resp.Slots)-1]; last.Time != "10:00" || last.EndTime != "11:00" {
		t.Fatalf("last slot = %s-%s, want 10:00-11:00", last.Time, last.EndTime)
	}
}

func TestGetAvailabilityUnknownServiceUsesDefault(t *testing.T) {
	business := &stubBusinessStore{
		found:    true,
		svcFound: false,
		schedule: storage.BusinessSchedule{
			ID:       "b1",
			Timezone: "UTC",
			HoursRaw: map[string]string{"thu": "09:00-10:00"},
		},
	}
	h := newTestAvailabilityHandler(business, &stubBookingStore{}, time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC))

	code, resp := getAvailability(t, h, "business_id=b1&date=2026-09-10&service_id=nope")
	if code != http.StatusOK {
		t.Fatalf("got %d, want 200", code)
	}
	if resp.ServiceDuration != defaultDurationMins {
		t.Fatalf("service_duration = %d, want %d", resp.ServiceDuration, defaultDurationMins)
	}
}

func TestGetAvailabilityMalformedHoursFallBack(t *testing.T) {
	business := &stubBusinessStore{
		found: true,
		schedule: storage.BusinessSchedule{
			ID:       "b1",
			Timezone: "UTC",
			HoursRaw: map[string]string{"thu": "garbage"},
		},
	}
	h := newTestAvailabilityHandler(business, &stubBookingStore{}, time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC))

	// Default schedule has Thursday 09:00-17:00, so the day is open.
	code, resp := getAvailability(t, h, "business_id=b1&date=2026-09-10")
	if code != http.StatusOK {
		t.Fatalf("got %d, want 200", code)
	}
	if !resp.IsOpen {
		t.Fatal("fallback schedule should report Thursday open")
	}
	if resp.OpenTime != "09:00" || resp.CloseTime != "17:00" {
		t.Fatalf("fallback hours = %s-%s, want 09:00-17:00", resp.OpenTime, resp.CloseTime)
	}
}
