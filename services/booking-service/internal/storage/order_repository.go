package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/menulink/menulink/libs/db"
	"github.com/menulink/menulink/services/booking-service/internal/model"
)

type OrderRepository struct {
	pool *db.Pool
}

func NewOrderRepository(pool *db.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

func (r *OrderRepository) CreateTx(ctx context.Context, tx pgx.Tx, o *model.Order) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO orders
			(id, business_id, order_type, status, subtotal_cents, tax_cents, delivery_fee_cents,
			total_cents, customer_name, customer_phone, scheduled_date, scheduled_start, scheduled_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''), NULLIF($13, ''))
	`, o.ID, o.BusinessID, o.OrderType, o.Status, o.SubtotalCents, o.TaxCents, o.DeliveryFeeCents,
		o.TotalCents, o.CustomerName, o.CustomerPhone, o.ScheduledDate, o.ScheduledStart, o.ScheduledEnd)
	if err != nil {
		return err
	}

	for _, item := range o.Items {
		_, err := tx.Exec(ctx, `
			INSERT INTO order_items
				(id, order_id, menu_item_id, name, unit_price_cents, quantity, line_total_cents, position)
			VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8)
		`, item.ID, o.ID, item.MenuItemID, item.Name, item.UnitPriceCents, item.Quantity,
			item.LineTotalCents, item.Position)
		if err != nil {
			return err
		}
	}
	return nil
}

func scanOrder(row pgx.Row) (model.Order, error) {
	var o model.Order
	var schedDate *time.Time
	var schedStart, schedEnd *string
	err := row.Scan(
		&o.ID,
		&o.BusinessID,
		&o.OrderType,
		&o.Status,
		&o.SubtotalCents,
		&o.TaxCents,
		&o.DeliveryFeeCents,
		&o.TotalCents,
		&o.CustomerName,
		&o.CustomerPhone,
		&schedDate,
		&schedStart,
		&schedEnd,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return model.Order{}, err
	}
	o.ScheduledDate = schedDate
	if schedStart != nil {
		o.ScheduledStart = *schedStart
	}
	if schedEnd != nil {
		o.ScheduledEnd = *schedEnd
	}
	return o, nil
}

const orderColumns = `
	id, business_id, order_type, status, subtotal_cents, tax_cents, delivery_fee_cents,
	total_cents, customer_name, customer_phone, scheduled_date, scheduled_start, scheduled_end,
	created_at, updated_at`

func (r *OrderRepository) Get(ctx context.Context, businessID, orderID string) (model.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1 AND business_id = $2
	`, orderID, businessID))
	if err != nil {
		return model.Order{}, err
	}
	items, err := r.listItems(ctx, o.ID)
	if err != nil {
		return model.Order{}, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, businessID, orderID string) (model.Order, error) {
	return scanOrder(tx.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1 AND business_id = $2
		FOR UPDATE
	`, orderID, businessID))
}

func (r *OrderRepository) UpdateStatusTx(ctx context.Context, tx pgx.Tx, businessID, orderID, status string) error {
	tag, err := tx.Exec(ctx, `
		UPDATE orders
		SET status = $3, updated_at = now()
		WHERE id = $1 AND business_id = $2
	`, orderID, businessID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ReleaseOrderSlotTx cancels the companion booking that holds a scheduled
// order's slot, so a cancelled order stops blocking availability.
func (r *OrderRepository) ReleaseOrderSlotTx(ctx context.Context, tx pgx.Tx, businessID, orderID string) error {
	_, err := tx.Exec(ctx, `
		UPDATE bookings
		SET status = 'cancelled', updated_at = now()
		WHERE business_id = $1 AND order_id = $2 AND kind = 'order'
	`, businessID, orderID)
	return err
}

func (r *OrderRepository) ListByBusiness(ctx context.Context, businessID, status string, limit int) ([]model.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE business_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3
	`, businessID, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func (r *OrderRepository) listItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, COALESCE(menu_item_id::text, ''), name, unit_price_cents, quantity, line_total_cents, position
		FROM order_items
		WHERE order_id = $1
		ORDER BY position ASC
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Name, &it.UnitPriceCents,
			&it.Quantity, &it.LineTotalCents, &it.Position); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
