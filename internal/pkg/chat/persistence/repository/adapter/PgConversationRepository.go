package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "chatline/internal/pkg/chat/domain"
	repository "chatline/internal/pkg/chat/persistence/repository/port"
)

const pgUniqueViolation = "23505"

// PgConversationRepository persists conversations in Postgres. The
// (lo_id, hi_id) unique constraint is what makes concurrent first-contact
// sends converge on one row.
type PgConversationRepository struct {
	pool *pgxpool.Pool
}

func NewPgConversationRepository(pool *pgxpool.Pool) *PgConversationRepository {
	return &PgConversationRepository{pool: pool}
}

var _ repository.ConversationRepository = (*PgConversationRepository)(nil)

const conversationColumns = `id, lo_id, hi_id, last_message_time, COALESCE(last_message_content, ''), created_at, updated_at`

func (r *PgConversationRepository) ResolveOrCreate(ctx context.Context, idA, idB int64) (chat.Conversation, error) {
	lo, hi := chat.CanonicalPair(idA, idB)

	conv, err := r.byPair(ctx, lo, hi)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, chat.ErrNotFound) {
		return chat.Conversation{}, err
	}

	conv, err = r.insert(ctx, lo, hi)
	if err == nil {
		return conv, nil
	}

	// A racing first contact won the insert; the row exists now, read it.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return r.byPair(ctx, lo, hi)
	}
	return chat.Conversation{}, err
}

func (r *PgConversationRepository) ByID(ctx context.Context, id int64) (chat.Conversation, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE id = $1`, id)
	conv, err := scanConversation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return chat.Conversation{}, fmt.Errorf("%w: conversation %d", chat.ErrNotFound, id)
	}
	return conv, err
}

func (r *PgConversationRepository) RecordActivity(ctx context.Context, conversationID int64, at time.Time, content string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE conversations
		SET last_message_time = $2, last_message_content = $3, updated_at = now()
		WHERE id = $1
	`, conversationID, at, chat.Snippet(content))
	return err
}

func (r *PgConversationRepository) PageForUser(ctx context.Context, userID int64, page, size int) ([]chat.Conversation, int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM conversations WHERE lo_id = $1 OR hi_id = $1`, userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+conversationColumns+`
		FROM conversations
		WHERE lo_id = $1 OR hi_id = $1
		ORDER BY last_message_time DESC NULLS LAST, id DESC
		LIMIT $2 OFFSET $3
	`, userID, size, page*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var convs []chat.Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, 0, err
		}
		convs = append(convs, conv)
	}
	return convs, total, rows.Err()
}

func (r *PgConversationRepository) byPair(ctx context.Context, lo, hi int64) (chat.Conversation, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE lo_id = $1 AND hi_id = $2`, lo, hi)
	conv, err := scanConversation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return chat.Conversation{}, fmt.Errorf("%w: conversation for pair (%d,%d)", chat.ErrNotFound, lo, hi)
	}
	return conv, err
}

func (r *PgConversationRepository) insert(ctx context.Context, lo, hi int64) (chat.Conversation, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO conversations (lo_id, hi_id)
		VALUES ($1, $2)
		RETURNING `+conversationColumns, lo, hi)
	return scanConversation(row)
}

func scanConversation(row pgx.Row) (chat.Conversation, error) {
	var c chat.Conversation
	err := row.Scan(&c.ID, &c.LoID, &c.HiID, &c.LastMessageTime, &c.LastMessageSnippet, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
