package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestBookingHandler() *BookingHandler {
	return NewBookingHandler(nil, nil, nil, slog.New(slog.DiscardHandler))
}

func postBooking(t *testing.T, h *BookingHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/public/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	return rec
}

func TestCreateBookingRejectsBadJSON(t *testing.T) {
	rec := postBooking(t, newTestBookingHandler(), "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rec.Code)
	}
}

func TestCreateBookingRequiresFields(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty", `{}`},
		{"missing business", `{"customer_name":"Ana","customer_phone":"555","date":"2026-09-10","start_time":"09:00"}`},
		{"missing name", `{"business_id":"b1","customer_phone":"555","date":"2026-09-10","start_time":"09:00"}`},
		{"missing phone", `{"business_id":"b1","customer_name":"Ana","date":"2026-09-10","start_time":"09:00"}`},
		{"missing date", `{"business_id":"b1","customer_name":"Ana","customer_phone":"555","start_time":"09:00"}`},
		{"missing start", `{"business_id":"b1","customer_name":"Ana","customer_phone":"555","date":"2026-09-10"}`},
		{"blank name", `{"business_id":"b1","customer_name":"   ","customer_phone":"555","date":"2026-09-10","start_time":"09:00"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postBooking(t, newTestBookingHandler(), tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("got %d, want 400", rec.Code)
			}
		})
	}
}

func TestCreateBookingRejectsBadDateAndTime(t *testing.T) {
	rec := postBooking(t, newTestBookingHandler(),
		`{"business_id":"b1","customer_name":"Ana","customer_phone":"555","date":"10/09/2026","start_time":"09:00"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad date: got %d, want 400", rec.Code)
	}

	rec = postBooking(t, newTestBookingHandler(),
		`{"business_id":"b1","customer_name":"Ana","customer_phone":"555","date":"2026-09-10","start_time":"9am"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad time: got %d, want 400", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp["error"] == "" {
		t.Fatal("error body missing message")
	}
}

func TestUpdateBookingRequiresBusinessHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/bookings/abc", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	newTestBookingHandler().Update(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rec.Code)
	}
}

func TestListBookingsRequiresBusinessID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	rec := httptest.NewRecorder()
	newTestBookingHandler().List(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rec.Code)
	}
}
