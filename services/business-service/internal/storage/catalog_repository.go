package storage

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/menulink/menulink/libs/db"
	"github.com/menulink/menulink/services/business-service/internal/model"
)

// CatalogRepository covers the two tenant catalogs: bookable services and
// the menu.
type CatalogRepository struct {
	pool *db.Pool
}

func NewCatalogRepository(pool *db.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) CreateService(ctx context.Context, s model.Service) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO services (id, business_id, name, duration_minutes, price_cents, description, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, s.ID, s.BusinessID, s.Name, s.DurationMins, s.PriceCents, s.Description, s.Active)
	return err
}

func (r *CatalogRepository) UpdateService(ctx context.Context, s model.Service) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE services
		SET name = $3, duration_minutes = $4, price_cents = $5, description = $6, active = $7
		WHERE id = $1 AND business_id = $2
	`, s.ID, s.BusinessID, s.Name, s.DurationMins, s.PriceCents, s.Description, s.Active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *CatalogRepository) DeleteService(ctx context.Context, businessID, id string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM services WHERE id = $1 AND business_id = $2
	`, id, businessID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *CatalogRepository) ListServices(ctx context.Context, businessID string, limit int) ([]model.Service, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, business_id, name, duration_minutes, price_cents, description, active
		FROM services
		WHERE business_id = $1
		ORDER BY created_at ASC
		LIMIT $2
	`, businessID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Service
	for rows.Next() {
		var s model.Service
		if err := rows.Scan(&s.ID, &s.BusinessID, &s.Name, &s.DurationMins,
			&s.PriceCents, &s.Description, &s.Active); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *CatalogRepository) CreateMenuItem(ctx context.Context, m model.MenuItem) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO menu_items (id, business_id, name, description, price_cents, category, available, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, m.ID, m.BusinessID, m.Name, m.Description, m.PriceCents, m.Category, m.Available, m.Position)
	return err
}

func (r *CatalogRepository) UpdateMenuItem(ctx context.Context, m model.MenuItem) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE menu_items
		SET name = $3, description = $4, price_cents = $5, category = $6, available = $7, position = $8
		WHERE id = $1 AND business_id = $2
	`, m.ID, m.BusinessID, m.Name, m.Description, m.PriceCents, m.Category, m.Available, m.Position)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *CatalogRepository) DeleteMenuItem(ctx context.Context, businessID, id string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM menu_items WHERE id = $1 AND business_id = $2
	`, id, businessID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *CatalogRepository) ListMenuItems(ctx context.Context, businessID string, limit int) ([]model.MenuItem, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, business_id, name, description, price_cents, category, available, position
		FROM menu_items
		WHERE business_id = $1
		ORDER BY category ASC, position ASC, created_at ASC
		LIMIT $2
	`, businessID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.MenuItem
	for rows.Next() {
		var m model.MenuItem
		if err := rows.Scan(&m.ID, &m.BusinessID, &m.Name, &m.Description,
			&m.PriceCents, &m.Category, &m.Available, &m.Position); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
