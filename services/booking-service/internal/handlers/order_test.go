package handlers

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestOrderHandler() *OrderHandler {
	return NewOrderHandler(nil, nil, nil, nil, slog.New(slog.DiscardHandler), 825, 500)
}

func postOrder(t *testing.T, h *OrderHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/public/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	return rec
}

func TestCreateOrderRejectsBadJSON(t *testing.T) {
	rec := postOrder(t, newTestOrderHandler(), "nope")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rec.Code)
	}
}

func TestCreateOrderRequiresFields(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty", `{}`},
		{"no items", `{"business_id":"b1","customer_name":"Ana","items":[]}`},
		{"no business", `{"customer_name":"Ana","items":[{"menu_item_id":"m1","quantity":1}]}`},
		{"no name", `{"business_id":"b1","items":[{"menu_item_id":"m1","quantity":1}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postOrder(t, newTestOrderHandler(), tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("got %d, want 400", rec.Code)
			}
		})
	}
}

func TestCreateOrderRejectsUnknownOrderType(t *testing.T) {
	rec := postOrder(t, newTestOrderHandler(),
		`{"business_id":"b1","customer_name":"Ana","order_type":"teleport","items":[{"menu_item_id":"m1","quantity":1}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rec.Code)
	}
}

func TestCreateOrderRejectsNonPositiveQuantity(t *testing.T) {
	rec := postOrder(t, newTestOrderHandler(),
		`{"business_id":"b1","customer_name":"Ana","items":[{"menu_item_id":"m1","quantity":0}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("quantity 0: got %d, want 400", rec.Code)
	}
	rec = postOrder(t, newTestOrderHandler(),
		`{"business_id":"b1","customer_name":"Ana","items":[{"menu_item_id":"m1","quantity":-2}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("negative quantity: got %d, want 400", rec.Code)
	}
}

func TestUpdateOrderStatusRequiresBusinessHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/abc", strings.NewReader(`{"status":"confirmed"}`))
	rec := httptest.NewRecorder()
	newTestOrderHandler().UpdateStatus(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rec.Code)
	}
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/abc", strings.NewReader(`{"status":"vanished"}`))
	req.Header.Set("X-Business-Id", "b1")
	rec := httptest.NewRecorder()
	newTestOrderHandler().UpdateStatus(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rec.Code)
	}
}

func TestListOrdersRejectsBadStatusFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?business_id=b1&status=bogus", nil)
	rec := httptest.NewRecorder()
	newTestOrderHandler().List(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rec.Code)
	}
}
