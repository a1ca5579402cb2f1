package usecase

import (
	"context"
	"fmt"

	repository "chatline/internal/pkg/chat/persistence/repository/port"
)

// UnreadCountUseCase returns the requester's global unread message count.
type UnreadCountUseCase struct {
	Messages repository.MessageRepository
}

func NewUnreadCountUseCase(messages repository.MessageRepository) *UnreadCountUseCase {
	return &UnreadCountUseCase{Messages: messages}
}

func (uc *UnreadCountUseCase) Execute(ctx context.Context, userID int64) (int64, error) {
	n, err := uc.Messages.CountUnreadForReceiver(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return n, nil
}
