package storage

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/menulink/menulink/libs/db"
	"github.com/menulink/menulink/services/business-service/internal/model"
)

type LinkRepository struct {
	pool *db.Pool
}

func NewLinkRepository(pool *db.Pool) *LinkRepository {
	return &LinkRepository{pool: pool}
}

func (r *LinkRepository) Create(ctx context.Context, l model.Link) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO links (id, business_id, title, url, position)
		VALUES ($1, $2, $3, $4, $5)
	`, l.ID, l.BusinessID, l.Title, l.URL, l.Position)
	return err
}

func (r *LinkRepository) Update(ctx context.Context, l model.Link) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE links
		SET title = $3, url = $4, position = $5
		WHERE id = $1 AND business_id = $2
	`, l.ID, l.BusinessID, l.Title, l.URL, l.Position)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *LinkRepository) Delete(ctx context.Context, businessID, id string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM links WHERE id = $1 AND business_id = $2
	`, id, businessID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *LinkRepository) List(ctx context.Context, businessID string) ([]model.Link, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, business_id, title, url, position
		FROM links
		WHERE business_id = $1
		ORDER BY position ASC, created_at ASC
	`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Link
	for rows.Next() {
		var l model.Link
		if err := rows.Scan(&l.ID, &l.BusinessID, &l.Title, &l.URL, &l.Position); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
