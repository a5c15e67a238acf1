package storage

import (
	"context"
	"encoding/json"

	"github.com/menulink/menulink/libs/db"
)

// BusinessRepository gives the booking service read access to tenant data
// owned by the business service: hours, catalog durations, menu prices, and
// plan entitlements. All services share one Postgres.
type BusinessRepository struct {
	pool *db.Pool
}

func NewBusinessRepository(pool *db.Pool) *BusinessRepository {
	return &BusinessRepository{pool: pool}
}

// BusinessSchedule is what availability needs to know about a tenant.
type BusinessSchedule struct {
	ID       string
	Timezone string
	// HoursRaw is the stored weekday->"HH:MM-HH:MM" map. Parsing (and the
	// fallback for malformed data) happens in the schedule package.
	HoursRaw map[string]string
}

func (r *BusinessRepository) GetSchedule(ctx context.Context, businessID string) (BusinessSchedule, error) {
	var s BusinessSchedule
	var hoursJSON []byte
	err := r.pool.QueryRow(ctx, `
		SELECT id, timezone, hours
		FROM businesses
		WHERE id = $1
	`, businessID).Scan(&s.ID, &s.Timezone, &hoursJSON)
	if err != nil {
		return BusinessSchedule{}, err
	}
	if err := json.Unmarshal(hoursJSON, &s.HoursRaw); err != nil {
		// Malformed hours fall back downstream; treat as empty here.
		s.HoursRaw = nil
	}
	return s, nil
}

// GetServiceDuration returns a catalog service's duration in minutes.
func (r *BusinessRepository) GetServiceDuration(ctx context.Context, businessID, serviceID string) (int, error) {
	var mins int
	err := r.pool.QueryRow(ctx, `
		SELECT duration_minutes
		FROM services
		WHERE id = $1 AND business_id = $2 AND active
	`, serviceID, businessID).Scan(&mins)
	if err != nil {
		return 0, err
	}
	return mins, nil
}

// MenuItemSnapshot is the price/name pair copied onto order lines.
type MenuItemSnapshot struct {
	ID         string
	Name       string
	PriceCents int64
	Available  bool
}

func (r *BusinessRepository) GetMenuItem(ctx context.Context, businessID, itemID string) (MenuItemSnapshot, error) {
	var m MenuItemSnapshot
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, price_cents, available
		FROM menu_items
		WHERE id = $1 AND business_id = $2
	`, itemID, businessID).Scan(&m.ID, &m.Name, &m.PriceCents, &m.Available)
	if err != nil {
		return MenuItemSnapshot{}, err
	}
	return m, nil
}

// GetMonthlyBookingCap returns the tenant's plan cap, defaulting to the
// free tier when no entitlements row exists yet.
func (r *BusinessRepository) GetMonthlyBookingCap(ctx context.Context, businessID string) (int, error) {
	const defaultFreeCap = 200

	var maxBookings int
	err := r.pool.QueryRow(ctx, `
		SELECT max_monthly_bookings
		FROM business_entitlements
		WHERE business_id = $1
	`, businessID).Scan(&maxBookings)
	if IsNotFound(err) {
		return defaultFreeCap, nil
	}
	if err != nil {
		return 0, err
	}
	if maxBookings <= 0 {
		return defaultFreeCap, nil
	}
	return maxBookings, nil
}
