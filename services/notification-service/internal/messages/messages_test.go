package messages

import (
	"strings"
	"testing"
)

func TestBookingCreated(t *testing.T) {
	msg := BookingCreated(BookingCreatedPayload{
		BookingID:    "3f2c8a10-aaaa-bbbb-cccc-000000000000",
		Date:         "2026-09-10",
		StartTime:    "09:30",
		EndTime:      "10:00",
		CustomerName: "Ana",
	})
	if msg.Subject != "Booking received" {
		t.Fatalf("subject = %q", msg.Subject)
	}
	for _, want := range []string{"Ana", "2026-09-10", "09:30", "10:00", "3f2c8a10"} {
		if !strings.Contains(msg.Body, want) {
			t.Errorf("body %q missing %q", msg.Body, want)
		}
	}
	if strings.Contains(msg.Body, "aaaa") {
		t.Error("body leaks full uuid")
	}
}

func TestBookingCreatedNoName(t *testing.T) {
	msg := BookingCreated(BookingCreatedPayload{Date: "2026-09-10"})
	if !strings.Contains(msg.Body, "Hi there") {
		t.Fatalf("body = %q, want greeting fallback", msg.Body)
	}
}

func TestOrderStatusChanged(t *testing.T) {
	msg := OrderStatusChanged(OrderStatusChangedPayload{
		OrderID:      "9d1e0000-1111-2222-3333-444444444444",
		OrderType:    "delivery",
		Status:       "out_for_delivery",
		TotalCents:   2840,
		CustomerName: "Ben",
	})
	if msg.Subject != "Order out for delivery" {
		t.Fatalf("subject = %q", msg.Subject)
	}
	for _, want := range []string{"Ben", "delivery order", "out for delivery", "$28.40"} {
		if !strings.Contains(msg.Body, want) {
			t.Errorf("body %q missing %q", msg.Body, want)
		}
	}
}

func TestFormatCents(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{100, "$1.00"},
		{2840, "$28.40"},
		{123456, "$1234.56"},
		{-250, "-$2.50"},
	}
	for _, tc := range cases {
		if got := FormatCents(tc.cents); got != tc.want {
			t.Errorf("FormatCents(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}
