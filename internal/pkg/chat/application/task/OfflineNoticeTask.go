package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	qport "chatline/internal/infrastructure/queue/port"
	chat "chatline/internal/pkg/chat/domain"
	repository "chatline/internal/pkg/chat/persistence/repository/port"
)

// OfflineNoticeTaskType is the queue task name recorded when a pushed
// message found zero live sessions for the receiver.
const OfflineNoticeTaskType = "chat:offline_notice"

const noticeKind = "chat.message"

// OfflineNoticePayload is the JSON payload transported via the queue. Kept
// decoupled from domain types to avoid coupling queue wire shape to them.
type OfflineNoticePayload struct {
	ReceiverID int64  `json:"receiverId"`
	SenderName string `json:"senderName"`
	Preview    string `json:"preview"`
}

// NewOfflineNotice builds the queue task for an undelivered message.
func NewOfflineNotice(receiverID int64, senderName, content string) (qport.Task, error) {
	payload := OfflineNoticePayload{
		ReceiverID: receiverID,
		SenderName: senderName,
		Preview:    chat.Snippet(content),
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return qport.Task{}, err
	}
	return qport.Task{Type: OfflineNoticeTaskType, Payload: b}, nil
}

// RegisterOfflineNoticeTask binds the handler that turns undelivered pushes
// into durable notification rows the receiver sees on next fetch.
func RegisterOfflineNoticeTask(srv qport.Server, notifications repository.NotificationRepository, log *slog.Logger) {
	srv.Register(OfflineNoticeTaskType, func(ctx context.Context, t qport.Task) error {
		var p OfflineNoticePayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// Malformed payload will not get better with retries.
			log.Error("offline notice payload unreadable", "error", err)
			return nil
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		body := fmt.Sprintf("New message from %s: %s", p.SenderName, p.Preview)
		if err := notifications.Create(ctx, p.ReceiverID, noticeKind, body); err != nil {
			return err
		}
		log.Debug("offline notice recorded", "receiver", p.ReceiverID)
		return nil
	})
}
