package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/menulink/menulink/libs/db"
)

// Notification is one delivery attempt, kept for the tenant's audit trail.
type Notification struct {
	BusinessID string
	Channel    string
	Recipient  string
	Subject    string
	Body       string
	Status     string
	Error      string
}

type Repository struct {
	pool *db.Pool
}

func NewRepository(pool *db.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Insert(ctx context.Context, n Notification) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notifications (id, business_id, channel, recipient, subject, body, status, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, uuid.NewString(), n.BusinessID, n.Channel, n.Recipient, n.Subject, n.Body, n.Status, n.Error)
	return err
}
