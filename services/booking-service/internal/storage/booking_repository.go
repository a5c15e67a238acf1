package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/menulink/menulink/libs/db"
	"github.com/menulink/menulink/services/booking-service/internal/model"
)

type BookingRepository struct {
	pool *db.Pool
}

func NewBookingRepository(pool *db.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

const bookingColumns = `
	id, business_id, COALESCE(service_id::text, ''), COALESCE(order_id::text, ''), kind,
	booking_date, start_time, end_time, duration_minutes, status,
	customer_name, customer_phone, notes, created_at, updated_at`

func scanBooking(row pgx.Row) (model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID,
		&b.BusinessID,
		&b.ServiceID,
		&b.OrderID,
		&b.Kind,
		&b.Date,
		&b.StartTime,
		&b.EndTime,
		&b.DurationMins,
		&b.Status,
		&b.CustomerName,
		&b.CustomerPhone,
		&b.Notes,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}

func (r *BookingRepository) CreateTx(ctx context.Context, tx pgx.Tx, b *model.Booking) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO bookings
			(id, business_id, service_id, order_id, kind, booking_date, start_time, end_time,
			duration_minutes, status, customer_name, customer_phone, notes)
		VALUES ($1, $2, NULLIF($3, '')::uuid, NULLIF($4, '')::uuid, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, b.ID, b.BusinessID, b.ServiceID, b.OrderID, b.Kind, b.Date, b.StartTime, b.EndTime,
		b.DurationMins, b.Status, b.CustomerName, b.CustomerPhone, b.Notes)
	return err
}

func (r *BookingRepository) Get(ctx context.Context, businessID, bookingID string) (model.Booking, error) {
	return scanBooking(r.pool.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE id = $1 AND business_id = $2
	`, bookingID, businessID))
}

func (r *BookingRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, businessID, bookingID string) (model.Booking, error) {
	return scanBooking(tx.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE id = $1 AND business_id = $2
		FOR UPDATE
	`, bookingID, businessID))
}

func (r *BookingRepository) UpdateTx(ctx context.Context, tx pgx.Tx, b *model.Booking) error {
	tag, err := tx.Exec(ctx, `
		UPDATE bookings
		SET booking_date = $3,
			start_time = $4,
			end_time = $5,
			duration_minutes = $6,
			status = $7,
			customer_name = $8,
			customer_phone = $9,
			notes = $10,
			updated_at = now()
		WHERE id = $1 AND business_id = $2
	`, b.ID, b.BusinessID, b.Date, b.StartTime, b.EndTime, b.DurationMins,
		b.Status, b.CustomerName, b.CustomerPhone, b.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const blockingIntervalsQuery = `
	SELECT ` + bookingColumns + `
	FROM bookings
	WHERE business_id = $1
		AND booking_date = $2
		AND status NOT IN ('cancelled', 'no_show', 'completed', 'delivered')
		AND ($3 = '' OR id <> $3::uuid)
	ORDER BY start_time ASC`

// ListBlockingIntervals returns the bookings that occupy slots on one
// business day: non-terminal status, optionally excluding the booking being
// edited.
func (r *BookingRepository) ListBlockingIntervals(ctx context.Context, businessID string, date time.Time, excludeID string) ([]model.Booking, error) {
	rows, err := r.pool.Query(ctx, blockingIntervalsQuery, businessID, date, excludeID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// ListBlockingIntervalsTx is the same read inside a booking-write
// transaction, so the conflict check and insert see a consistent day.
func (r *BookingRepository) ListBlockingIntervalsTx(ctx context.Context, tx pgx.Tx, businessID string, date time.Time, excludeID string) ([]model.Booking, error) {
	rows, err := tx.Query(ctx, blockingIntervalsQuery, businessID, date, excludeID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]model.Booking, error) {
	defer rows.Close()
	var bookings []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *BookingRepository) ListByBusiness(ctx context.Context, businessID string, limit int) ([]model.Booking, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE business_id = $1
		ORDER BY booking_date DESC, start_time DESC
		LIMIT $2
	`, businessID, limit)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// CountBookedInRange counts non-terminal bookings for the monthly
// entitlement cap.
func (r *BookingRepository) CountBookedInRange(ctx context.Context, tx pgx.Tx, businessID string, from, to time.Time) (int, error) {
	var cnt int
	err := tx.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM bookings
		WHERE business_id = $1
			AND booking_date >= $2 AND booking_date < $3
			AND status NOT IN ('cancelled', 'no_show')
	`, businessID, from, to).Scan(&cnt)
	return cnt, err
}

// IsConflict reports a violation of the ux_bookings_slot unique index, the
// backstop for two concurrent writers racing for the same slot.
func IsConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
