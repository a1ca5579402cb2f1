package adapter

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	chat "chatline/internal/pkg/chat/domain"
	repository "chatline/internal/pkg/chat/persistence/repository/port"
)

// PgMessageRepository persists messages in Postgres.
type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

var _ repository.MessageRepository = (*PgMessageRepository)(nil)

const messageColumns = `id, sender_id, receiver_id, conversation_id, content, "timestamp", read_status, created_at, updated_at`

func (r *PgMessageRepository) Append(ctx context.Context, senderID, receiverID, conversationID int64, content string) (chat.Message, error) {
	var m chat.Message
	err := r.pool.QueryRow(ctx, `
		INSERT INTO messages (sender_id, receiver_id, conversation_id, content, "timestamp", read_status)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING `+messageColumns,
		senderID, receiverID, conversationID, content, time.Now().UTC(),
	).Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.ConversationID, &m.Content, &m.Timestamp, &m.ReadStatus, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (r *PgMessageRepository) PageByConversation(ctx context.Context, conversationID int64, page, size int) ([]chat.Message, int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE conversation_id = $1`, conversationID,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE conversation_id = $1
		ORDER BY "timestamp" ASC, id ASC
		LIMIT $2 OFFSET $3
	`, conversationID, size, page*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.ConversationID, &m.Content, &m.Timestamp, &m.ReadStatus, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, 0, err
		}
		msgs = append(msgs, m)
	}
	return msgs, total, rows.Err()
}

func (r *PgMessageRepository) CountUnreadForReceiver(ctx context.Context, receiverID int64) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND read_status = FALSE`, receiverID,
	).Scan(&n)
	return n, err
}

func (r *PgMessageRepository) CountUnreadInConversation(ctx context.Context, conversationID, receiverID int64) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM messages
		WHERE conversation_id = $1 AND receiver_id = $2 AND read_status = FALSE
	`, conversationID, receiverID).Scan(&n)
	return n, err
}

func (r *PgMessageRepository) MarkConversationRead(ctx context.Context, conversationID, receiverID int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE messages
		SET read_status = TRUE, updated_at = now()
		WHERE conversation_id = $1 AND receiver_id = $2 AND read_status = FALSE
	`, conversationID, receiverID)
	return err
}
