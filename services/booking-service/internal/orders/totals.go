package orders

import (
	"errors"
	"strings"
)

// Order fulfillment types.
const (
	TypePickup   = "pickup"
	TypeDelivery = "delivery"
	TypeDineIn   = "dine_in"
)

var ErrInvalidOrderType = errors.New("order_type must be pickup, delivery, or dine_in")

// ParseOrderType validates a client-supplied order type, defaulting to
// pickup when empty.
func ParseOrderType(s string) (string, error) {
	switch strings.TrimSpace(s) {
	case "":
		return TypePickup, nil
	case TypePickup:
		return TypePickup, nil
	case TypeDelivery:
		return TypeDelivery, nil
	case TypeDineIn:
		return TypeDineIn, nil
	default:
		return "", ErrInvalidOrderType
	}
}

// Line is one order line with its snapshot price.
type Line struct {
	UnitPriceCents int64
	Quantity       int
}

// Totals is the monetary summary of an order, in cents.
type Totals struct {
	SubtotalCents    int64
	TaxCents         int64
	DeliveryFeeCents int64
	TotalCents       int64
}

// LineTotal is unit price times quantity.
func LineTotal(l Line) int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}

// ComputeTotals recomputes order money fields from line items. taxRateBps is
// basis points (825 = 8.25%), rounded half up. The delivery fee applies only
// to delivery orders.
func ComputeTotals(lines []Line, taxRateBps int64, deliveryFeeCents int64, orderType string) Totals {
	var subtotal int64
	for _, l := range lines {
		subtotal += LineTotal(l)
	}

	tax := (subtotal*taxRateBps + 5000) / 10000
	var fee int64
	if orderType == TypeDelivery {
		fee = deliveryFeeCents
	}

	return Totals{
		SubtotalCents:    subtotal,
		TaxCents:         tax,
		DeliveryFeeCents: fee,
		TotalCents:       subtotal + tax + fee,
	}
}
