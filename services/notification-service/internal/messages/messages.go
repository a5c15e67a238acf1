package messages

import (
	"fmt"
	"strings"
)

// Message is a rendered notification, ready for any channel.
type Message struct {
	Subject string
	Body    string
}

// BookingCreatedPayload mirrors booking.created.v1.
type BookingCreatedPayload struct {
	BookingID     string `json:"booking_id"`
	BusinessID    string `json:"business_id"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}

// OrderStatusChangedPayload mirrors order.status_changed.v1.
type OrderStatusChangedPayload struct {
	OrderID        string `json:"order_id"`
	BusinessID     string `json:"business_id"`
	OrderType      string `json:"order_type"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previous_status"`
	TotalCents     int64  `json:"total_cents"`
	CustomerName   string `json:"customer_name"`
	CustomerPhone  string `json:"customer_phone"`
}

// BookingCreated renders the confirmation for a new booking.
func BookingCreated(p BookingCreatedPayload) Message {
	name := p.CustomerName
	if name == "" {
		name = "there"
	}
	return Message{
		Subject: "Booking received",
		Body: fmt.Sprintf("Hi %s, your booking on %s from %s to %s is confirmed pending review. Reference: %s.",
			name, p.Date, p.StartTime, p.EndTime, shortRef(p.BookingID)),
	}
}

// OrderStatusChanged renders an order lifecycle update. Statuses read as
// human phrases rather than enum values.
func OrderStatusChanged(p OrderStatusChangedPayload) Message {
	name := p.CustomerName
	if name == "" {
		name = "there"
	}
	return Message{
		Subject: "Order " + strings.ReplaceAll(p.Status, "_", " "),
		Body: fmt.Sprintf("Hi %s, your %s order %s is now %s. Total: %s.",
			name, p.OrderType, shortRef(p.OrderID),
			strings.ReplaceAll(p.Status, "_", " "), FormatCents(p.TotalCents)),
	}
}

// FormatCents renders a cent amount as dollars, e.g. 1234 -> "$12.34".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// shortRef keeps the first uuid group so messages stay readable.
func shortRef(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
