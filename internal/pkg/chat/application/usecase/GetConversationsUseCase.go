package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	chat "chatline/internal/pkg/chat/domain"
	repository "chatline/internal/pkg/chat/persistence/repository/port"
	identity "chatline/internal/pkg/identity/port"
)

// ConversationSummary is one row of the requester's inbox: the other party's
// display data, the last message preview and the requester's unread count.
// The other-party projection is computed per call, relative to the requester.
type ConversationSummary struct {
	ID              int64      `json:"id"`
	OtherUserID     int64      `json:"otherUserId"`
	OtherUserName   string     `json:"otherUserName"`
	OtherUserAvatar string     `json:"otherUserAvatar"`
	LastMessage     string     `json:"lastMessage"`
	LastMessageTime *time.Time `json:"lastMessageTime"`
	UnreadCount     int64      `json:"unreadCount"`
}

// GetConversationsUseCase pages through the requester's conversations,
// most recently active first.
type GetConversationsUseCase struct {
	Conversations repository.ConversationRepository
	Messages      repository.MessageRepository
	Directory     identity.Directory
	Log           *slog.Logger
}

func NewGetConversationsUseCase(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	directory identity.Directory,
	log *slog.Logger,
) *GetConversationsUseCase {
	return &GetConversationsUseCase{
		Conversations: conversations,
		Messages:      messages,
		Directory:     directory,
		Log:           log,
	}
}

func (uc *GetConversationsUseCase) Execute(ctx context.Context, userID int64, page, size int) (*Page[ConversationSummary], error) {
	page, size = normalizePaging(page, size, 20)

	convs, total, err := uc.Conversations.PageForUser(ctx, userID, page, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	summaries := make([]ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		summary, err := uc.summarize(ctx, conv, userID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	result := NewPage(summaries, page, size, total)
	return &result, nil
}

func (uc *GetConversationsUseCase) summarize(ctx context.Context, conv chat.Conversation, userID int64) (ConversationSummary, error) {
	otherID := conv.OtherParticipant(userID)

	other, err := uc.Directory.Lookup(ctx, otherID)
	if err != nil {
		// A vanished profile should not hide the conversation; degrade to ids.
		uc.Log.Warn("other-party lookup failed", "conversation", conv.ID, "other", otherID, "error", err)
		other = identity.Profile{ID: otherID}
	}

	unread, err := uc.Messages.CountUnreadInConversation(ctx, conv.ID, userID)
	if err != nil {
		return ConversationSummary{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return ConversationSummary{
		ID:              conv.ID,
		OtherUserID:     otherID,
		OtherUserName:   other.DisplayName,
		OtherUserAvatar: other.Avatar,
		LastMessage:     conv.LastMessageSnippet,
		LastMessageTime: conv.LastMessageTime,
		UnreadCount:     unread,
	}, nil
}
