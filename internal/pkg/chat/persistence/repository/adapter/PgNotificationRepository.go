package adapter

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	repository "chatline/internal/pkg/chat/persistence/repository/port"
)

// PgNotificationRepository records notices for identities with no live
// sessions at delivery time.
type PgNotificationRepository struct {
	pool *pgxpool.Pool
}

func NewPgNotificationRepository(pool *pgxpool.Pool) *PgNotificationRepository {
	return &PgNotificationRepository{pool: pool}
}

var _ repository.NotificationRepository = (*PgNotificationRepository)(nil)

func (r *PgNotificationRepository) Create(ctx context.Context, userID int64, kind, body string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO notifications (user_id, kind, body) VALUES ($1, $2, $3)`,
		userID, kind, body)
	return err
}
