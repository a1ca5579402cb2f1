package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	chat "chatline/internal/pkg/chat/domain"
	repository "chatline/internal/pkg/chat/persistence/repository/port"
	identity "chatline/internal/pkg/identity/port"
)

// SendMessageInput carries the data needed to send a new direct message.
type SendMessageInput struct {
	ReceiverID int64
	Content    string
}

// MessageResult is the enriched send outcome: the stored message plus the
// display metadata of both parties. It is both the synchronous return value
// and the payload fanned out to live sessions.
type MessageResult struct {
	ID             int64     `json:"id"`
	SenderID       int64     `json:"senderId"`
	SenderName     string    `json:"senderName"`
	SenderAvatar   string    `json:"senderAvatar"`
	ReceiverID     int64     `json:"receiverId"`
	ReceiverName   string    `json:"receiverName"`
	ReceiverAvatar string    `json:"receiverAvatar"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
	ReadStatus     bool      `json:"readStatus"`
	ConversationID int64     `json:"conversationId"`

	// Push-routing addresses; transport detail, not part of the payload.
	SenderAddress   string `json:"-"`
	ReceiverAddress string `json:"-"`
}

// SendMessageUseCase validates, authorizes and persists a direct message.
// The mutual-follow gate runs on every send; relationships can be revoked
// between sends, so the answer is never cached.
type SendMessageUseCase struct {
	Conversations repository.ConversationRepository
	Messages      repository.MessageRepository
	Graph         identity.Graph
	Directory     identity.Directory
	Log           *slog.Logger
}

func NewSendMessageUseCase(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	graph identity.Graph,
	directory identity.Directory,
	log *slog.Logger,
) *SendMessageUseCase {
	return &SendMessageUseCase{
		Conversations: conversations,
		Messages:      messages,
		Graph:         graph,
		Directory:     directory,
		Log:           log,
	}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, senderID int64, in SendMessageInput) (*MessageResult, error) {
	if senderID == in.ReceiverID {
		return nil, fmt.Errorf("%w: cannot message yourself", chat.ErrValidation)
	}

	content, err := chat.ValidateContent(in.Content)
	if err != nil {
		return nil, err
	}

	mutual, err := uc.Graph.MutualFollowers(ctx, senderID, in.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !mutual {
		return nil, fmt.Errorf("%w: messages only permitted between mutually-connected identities", chat.ErrNotPermitted)
	}

	sender, err := uc.lookup(ctx, senderID)
	if err != nil {
		return nil, err
	}
	receiver, err := uc.lookup(ctx, in.ReceiverID)
	if err != nil {
		return nil, err
	}

	conv, err := uc.Conversations.ResolveOrCreate(ctx, senderID, in.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	msg, err := uc.Messages.Append(ctx, senderID, in.ReceiverID, conv.ID, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := uc.Conversations.RecordActivity(ctx, conv.ID, msg.Timestamp, msg.Content); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	uc.Log.Info("message sent",
		"sender", senderID, "receiver", in.ReceiverID, "conversation", conv.ID, "message", msg.ID)

	return &MessageResult{
		ID:              msg.ID,
		SenderID:        senderID,
		SenderName:      sender.DisplayName,
		SenderAvatar:    sender.Avatar,
		ReceiverID:      in.ReceiverID,
		ReceiverName:    receiver.DisplayName,
		ReceiverAvatar:  receiver.Avatar,
		Content:         msg.Content,
		Timestamp:       msg.Timestamp,
		ReadStatus:      msg.ReadStatus,
		ConversationID:  conv.ID,
		SenderAddress:   sender.Address,
		ReceiverAddress: receiver.Address,
	}, nil
}

func (uc *SendMessageUseCase) lookup(ctx context.Context, id int64) (identity.Profile, error) {
	p, err := uc.Directory.Lookup(ctx, id)
	if errors.Is(err, identity.ErrUnknownIdentity) {
		return identity.Profile{}, fmt.Errorf("%w: identity %d", chat.ErrNotFound, id)
	}
	if err != nil {
		return identity.Profile{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return p, nil
}
