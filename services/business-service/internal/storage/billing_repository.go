package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/menulink/menulink/libs/db"
	"github.com/menulink/menulink/services/business-service/internal/model"
)

var ErrDuplicateProviderEvent = errors.New("provider event already recorded")

// BillingRepository records raw provider webhook events and the entitlements
// they grant. booking-service reads business_entitlements when enforcing the
// monthly cap.
type BillingRepository struct {
	pool *db.Pool
}

func NewBillingRepository(pool *db.Pool) *BillingRepository {
	return &BillingRepository{pool: pool}
}

func (r *BillingRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

type ProviderEvent struct {
	Provider        string
	ProviderEventID string
	EventType       string
	Payload         []byte
}

// InsertProviderEvent records one webhook delivery, returning
// ErrDuplicateProviderEvent on replay.
func (r *BillingRepository) InsertProviderEvent(ctx context.Context, tx pgx.Tx, e ProviderEvent) error {
	tag, err := tx.Exec(ctx, `
		INSERT INTO provider_events (provider, provider_event_id, event_type, payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (provider, provider_event_id) DO NOTHING
	`, e.Provider, e.ProviderEventID, e.EventType, e.Payload)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicateProviderEvent
	}
	return nil
}

func (r *BillingRepository) UpsertEntitlementsTx(ctx context.Context, tx pgx.Tx, e model.Entitlements) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO business_entitlements (business_id, tier, max_monthly_bookings, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (business_id) DO UPDATE
		SET tier = EXCLUDED.tier,
			max_monthly_bookings = EXCLUDED.max_monthly_bookings,
			updated_at = now()
	`, e.BusinessID, e.Tier, e.MaxMonthlyBookings)
	return err
}

func (r *BillingRepository) GetEntitlements(ctx context.Context, businessID string) (model.Entitlements, error) {
	var e model.Entitlements
	err := r.pool.QueryRow(ctx, `
		SELECT business_id, tier, max_monthly_bookings
		FROM business_entitlements
		WHERE business_id = $1
	`, businessID).Scan(&e.BusinessID, &e.Tier, &e.MaxMonthlyBookings)
	return e, err
}
