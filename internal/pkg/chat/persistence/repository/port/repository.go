package repository

import (
	"context"
	"time"

	chat "chatline/internal/pkg/chat/domain"
)

// ConversationRepository owns the conversation entity.
type ConversationRepository interface {
	// ResolveOrCreate returns the canonical conversation for the unordered
	// pair, creating it on first contact. Concurrent first contacts from
	// either direction must converge on a single row: the insert relies on
	// the storage uniqueness constraint and falls back to a re-read on
	// conflict, never surfacing a duplicate-key error.
	ResolveOrCreate(ctx context.Context, idA, idB int64) (chat.Conversation, error)

	// ByID fetches a conversation, chat.ErrNotFound when absent.
	ByID(ctx context.Context, id int64) (chat.Conversation, error)

	// RecordActivity updates the last-message watermark and truncated
	// snippet after a successful send.
	RecordActivity(ctx context.Context, conversationID int64, at time.Time, content string) error

	// PageForUser lists the user's conversations ordered by last message
	// time descending, returning the page and the total count.
	PageForUser(ctx context.Context, userID int64, page, size int) ([]chat.Conversation, int64, error)
}

// MessageRepository owns message persistence, ordering and read state.
type MessageRepository interface {
	// Append stamps the send time, persists with read_status=false and
	// returns the stored record including its assigned id.
	Append(ctx context.Context, senderID, receiverID, conversationID int64, content string) (chat.Message, error)

	// PageByConversation returns a page ascending by timestamp plus the
	// total message count for the conversation.
	PageByConversation(ctx context.Context, conversationID int64, page, size int) ([]chat.Message, int64, error)

	CountUnreadForReceiver(ctx context.Context, receiverID int64) (int64, error)
	CountUnreadInConversation(ctx context.Context, conversationID, receiverID int64) (int64, error)

	// MarkConversationRead bulk-flips read_status for all unread messages
	// addressed to the receiver in the conversation. Idempotent.
	MarkConversationRead(ctx context.Context, conversationID, receiverID int64) error
}

// NotificationRepository records out-of-band notices for offline receivers.
type NotificationRepository interface {
	Create(ctx context.Context, userID int64, kind, body string) error
}
