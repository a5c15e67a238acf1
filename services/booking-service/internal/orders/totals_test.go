package orders

import "testing"

func TestComputeTotals(t *testing.T) {
	lines := []Line{
		{UnitPriceCents: 1250, Quantity: 2}, // 25.00
		{UnitPriceCents: 300, Quantity: 1},  // 3.00
	}

	got := ComputeTotals(lines, 825, 500, TypeDelivery)
	if got.SubtotalCents != 2800 {
		t.Fatalf("expected subtotal 2800, got %d", got.SubtotalCents)
	}
	// 2800 * 8.25% = 231.0
	if got.TaxCents != 231 {
		t.Fatalf("expected tax 231, got %d", got.TaxCents)
	}
	if got.DeliveryFeeCents != 500 {
		t.Fatalf("expected delivery fee 500, got %d", got.DeliveryFeeCents)
	}
	if got.TotalCents != 3531 {
		t.Fatalf("expected total 3531, got %d", got.TotalCents)
	}
}

func TestComputeTotalsNoFeeForPickup(t *testing.T) {
	got := ComputeTotals([]Line{{UnitPriceCents: 1000, Quantity: 1}}, 0, 500, TypePickup)
	if got.DeliveryFeeCents != 0 {
		t.Fatalf("pickup orders carry no delivery fee, got %d", got.DeliveryFeeCents)
	}
	if got.TotalCents != 1000 {
		t.Fatalf("expected total 1000, got %d", got.TotalCents)
	}
}

func TestComputeTotalsRoundsTaxHalfUp(t *testing.T) {
	// 999 * 7% = 69.93 -> 70
	got := ComputeTotals([]Line{{UnitPriceCents: 999, Quantity: 1}}, 700, 0, TypePickup)
	if got.TaxCents != 70 {
		t.Fatalf("expected tax 70, got %d", got.TaxCents)
	}
}

func TestParseOrderType(t *testing.T) {
	if got, err := ParseOrderType(""); err != nil || got != TypePickup {
		t.Fatalf("empty type should default to pickup, got %q err %v", got, err)
	}
	if got, err := ParseOrderType("dine_in"); err != nil || got != TypeDineIn {
		t.Fatalf("expected dine_in, got %q err %v", got, err)
	}
	if _, err := ParseOrderType("drive_thru"); err == nil {
		t.Fatal("expected error for unknown type")
	}
}
