package storage

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/menulink/menulink/libs/db"
	"github.com/menulink/menulink/services/business-service/internal/model"
)

type BusinessRepository struct {
	pool *db.Pool
}

func NewBusinessRepository(pool *db.Pool) *BusinessRepository {
	return &BusinessRepository{pool: pool}
}

func scanBusiness(row pgx.Row) (model.Business, error) {
	var b model.Business
	var hoursRaw []byte
	err := row.Scan(&b.ID, &b.Name, &b.Slug, &b.Timezone, &b.Phone, &b.Address,
		&hoursRaw, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return model.Business{}, err
	}
	if len(hoursRaw) > 0 {
		_ = json.Unmarshal(hoursRaw, &b.Hours)
	}
	return b, nil
}

const businessColumns = `id, name, slug, timezone, phone, address, hours, created_at, updated_at`

func (r *BusinessRepository) CreateTx(ctx context.Context, tx pgx.Tx, b model.Business) error {
	hours, err := json.Marshal(b.Hours)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO businesses (id, name, slug, timezone, phone, address, hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, b.ID, b.Name, b.Slug, b.Timezone, b.Phone, b.Address, hours)
	return err
}

func (r *BusinessRepository) Get(ctx context.Context, id string) (model.Business, error) {
	return scanBusiness(r.pool.QueryRow(ctx, `
		SELECT `+businessColumns+`
		FROM businesses
		WHERE id = $1
	`, id))
}

func (r *BusinessRepository) GetBySlug(ctx context.Context, slug string) (model.Business, error) {
	return scanBusiness(r.pool.QueryRow(ctx, `
		SELECT `+businessColumns+`
		FROM businesses
		WHERE slug = $1
	`, slug))
}

func (r *BusinessRepository) SlugTaken(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM businesses WHERE slug = $1)
	`, slug).Scan(&exists)
	return exists, err
}

func (r *BusinessRepository) Update(ctx context.Context, b model.Business) error {
	hours, err := json.Marshal(b.Hours)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE businesses
		SET name = $2, slug = $3, timezone = $4, phone = $5, address = $6,
			hours = $7, updated_at = now()
		WHERE id = $1
	`, b.ID, b.Name, b.Slug, b.Timezone, b.Phone, b.Address, hours)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
