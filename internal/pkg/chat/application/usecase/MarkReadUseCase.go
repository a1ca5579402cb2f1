package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"chatline/internal/infrastructure/realtime"
	chat "chatline/internal/pkg/chat/domain"
	repository "chatline/internal/pkg/chat/persistence/repository/port"
	identity "chatline/internal/pkg/identity/port"
)

// ReadReceipt is pushed to the other participant when the reader marks the
// conversation read.
type ReadReceipt struct {
	ConversationID int64 `json:"conversationId"`
	ReaderID       int64 `json:"readerId"`
}

// MarkReadUseCase bulk-marks a conversation read for the requester and
// notifies the other participant. The receipt push is best-effort: a failed
// delivery is logged and swallowed, never unwinding the read itself.
type MarkReadUseCase struct {
	Conversations repository.ConversationRepository
	Messages      repository.MessageRepository
	Directory     identity.Directory
	Pusher        Pusher
	Log           *slog.Logger
}

func NewMarkReadUseCase(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	directory identity.Directory,
	pusher Pusher,
	log *slog.Logger,
) *MarkReadUseCase {
	return &MarkReadUseCase{
		Conversations: conversations,
		Messages:      messages,
		Directory:     directory,
		Pusher:        pusher,
		Log:           log,
	}
}

func (uc *MarkReadUseCase) Execute(ctx context.Context, conversationID, requesterID int64) error {
	conv, err := uc.Conversations.ByID(ctx, conversationID)
	if errors.Is(err, chat.ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !conv.HasParticipant(requesterID) {
		return fmt.Errorf("%w: not a conversation participant", chat.ErrNotPermitted)
	}

	if err := uc.Messages.MarkConversationRead(ctx, conversationID, requesterID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	uc.sendReceipt(ctx, conv, requesterID)
	return nil
}

func (uc *MarkReadUseCase) sendReceipt(ctx context.Context, conv chat.Conversation, readerID int64) {
	otherID := conv.OtherParticipant(readerID)

	other, err := uc.Directory.Lookup(ctx, otherID)
	if err != nil {
		uc.Log.Error("read receipt dropped",
			"error", fmt.Errorf("%w: resolve recipient %d: %v", chat.ErrDelivery, otherID, err),
			"conversation", conv.ID, "reader", readerID)
		return
	}

	receipt := ReadReceipt{ConversationID: conv.ID, ReaderID: readerID}
	delivered := uc.Pusher.Push(other.Address, realtime.TopicReadReceipts, receipt)
	uc.Log.Debug("read receipt pushed",
		"conversation", conv.ID, "reader", readerID, "sessions", delivered)
}
