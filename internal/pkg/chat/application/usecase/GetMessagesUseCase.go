package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "chatline/internal/pkg/chat/domain"
	repository "chatline/internal/pkg/chat/persistence/repository/port"
)

// GetMessagesUseCase pages through a conversation's messages, oldest first,
// after checking the requester is one of the two participants.
type GetMessagesUseCase struct {
	Conversations repository.ConversationRepository
	Messages      repository.MessageRepository
}

func NewGetMessagesUseCase(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
) *GetMessagesUseCase {
	return &GetMessagesUseCase{Conversations: conversations, Messages: messages}
}

func (uc *GetMessagesUseCase) Execute(ctx context.Context, conversationID, requesterID int64, page, size int) (*Page[chat.Message], error) {
	page, size = normalizePaging(page, size, 50)

	conv, err := uc.Conversations.ByID(ctx, conversationID)
	if errors.Is(err, chat.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !conv.HasParticipant(requesterID) {
		return nil, fmt.Errorf("%w: not a conversation participant", chat.ErrNotPermitted)
	}

	msgs, total, err := uc.Messages.PageByConversation(ctx, conversationID, page, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	result := NewPage(msgs, page, size, total)
	return &result, nil
}
