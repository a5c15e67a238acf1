package model

import "time"

// Booking statuses. Orders have their own richer lifecycle in the orders
// package; bookings only need enough to know what blocks a slot.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusDelivered = "delivered"
	BookingStatusCancelled = "cancelled"
	BookingStatusNoShow    = "no_show"
)

// IsTerminalBookingStatus reports whether a booking no longer occupies its
// slot.
func IsTerminalBookingStatus(s string) bool {
	switch s {
	case BookingStatusCompleted, BookingStatusDelivered, BookingStatusCancelled, BookingStatusNoShow:
		return true
	}
	return false
}

// Booking kinds: a customer appointment, or the reserved slot of a
// scheduled order.
const (
	BookingKindAppointment = "appointment"
	BookingKindOrder       = "order"
)

// Booking is a reserved [StartTime, EndTime) interval on one business day.
// EndTime is always StartTime + DurationMins, recomputed whenever either
// side changes and stored redundantly for fast comparison.
type Booking struct {
	ID            string
	BusinessID    string
	ServiceID     string
	OrderID       string
	Kind          string
	Date          time.Time
	StartTime     string
	EndTime       string
	DurationMins  int
	Status        string
	CustomerName  string
	CustomerPhone string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Order is a tenant-scoped customer order with snapshot line items.
type Order struct {
	ID               string
	BusinessID       string
	OrderType        string
	Status           string
	SubtotalCents    int64
	TaxCents         int64
	DeliveryFeeCents int64
	TotalCents       int64
	CustomerName     string
	CustomerPhone    string
	ScheduledDate    *time.Time
	ScheduledStart   string
	ScheduledEnd     string
	Items            []OrderItem
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OrderItem snapshots the menu item at order time so later catalog edits
// don't rewrite history.
type OrderItem struct {
	ID             string
	OrderID        string
	MenuItemID     string
	Name           string
	UnitPriceCents int64
	Quantity       int
	LineTotalCents int64
	Position       int
}
