package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"

	"chatline/internal/auth"
	qport "chatline/internal/infrastructure/queue/port"
	"chatline/internal/infrastructure/realtime"
	"chatline/internal/pkg/chat/application/task"
	"chatline/internal/pkg/chat/application/usecase"
	chat "chatline/internal/pkg/chat/domain"
)

const (
	authTimeout = 10 * time.Second
	readTimeout = 60 * time.Second
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Auth happens in-band via the bearer handshake, not by origin.
		return true
	},
}

// ChatSocketController is the live delivery gateway. Each connection starts
// unauthenticated; the first frame must be an auth handshake carrying a
// bearer credential. Only then is the session registered for push delivery
// and allowed to submit messages.
type ChatSocketController struct {
	registry *realtime.Registry
	verifier *auth.Verifier
	sendUC   *usecase.SendMessageUseCase
	queue    qport.Client
	validate *validator.Validate
	log      *slog.Logger
	timeout  time.Duration
}

func NewChatSocketController(
	registry *realtime.Registry,
	verifier *auth.Verifier,
	sendUC *usecase.SendMessageUseCase,
	queue qport.Client,
	log *slog.Logger,
	timeout time.Duration,
) *ChatSocketController {
	return &ChatSocketController{
		registry: registry,
		verifier: verifier,
		sendUC:   sendUC,
		queue:    queue,
		validate: validator.New(),
		log:      log,
		timeout:  timeout,
	}
}

// inboundFrame is the client-to-server wire shape for all frame types.
type inboundFrame struct {
	Type       string `json:"type"`
	Token      string `json:"token,omitempty"`
	ReceiverID int64  `json:"receiver_id,omitempty"`
	Content    string `json:"content,omitempty"`
}

// messageFrame is the validated payload of a "message" frame.
type messageFrame struct {
	ReceiverID int64  `validate:"required,gt=0"`
	Content    string `validate:"required,max=5000"`
}

type errorPayload struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

type ackPayload struct {
	Type string `json:"type"`
}

// chatNotification is the payload pushed on the messages topic to both
// parties' live sessions.
type chatNotification struct {
	Message        usecase.MessageResult `json:"message"`
	ConversationID int64                 `json:"conversationId"`
	SenderID       int64                 `json:"senderId"`
	SenderName     string                `json:"senderName"`
	Timestamp      time.Time             `json:"timestamp"`
}

// Handle upgrades the connection and runs it through the gateway state
// machine: unauthenticated -> authenticated -> closed.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response.
			return
		}

		claims, ok := ctl.handshake(ws)
		if !ok {
			_ = ws.Close()
			return
		}

		session := realtime.NewSession(claims.Address, ws)
		ctl.registry.Register(session)
		defer func() {
			ctl.registry.Unregister(session)
			session.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ctl.sendAck(session, "connected")
		ctl.log.Info("gateway session opened", "user", claims.UserID, "session", session.ID)

		ws.SetReadLimit(1 << 20)
		_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(readTimeout))
		})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if !isExpectedClose(err) {
					ctl.log.Debug("gateway read failed", "session", session.ID, "error", err)
				}
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(session, "bad_request", "invalid payload")
				continue
			}

			switch frame.Type {
			case "message":
				ctl.handleMessage(c.Request.Context(), session, claims.UserID, frame)
			default:
				ctl.replyError(session, "unsupported_type", "unknown frame type")
			}
		}
	}
}

// handshake reads the first frame and validates its credential. Before it
// succeeds only the error topic is reachable; no business frames are
// processed.
func (ctl *ChatSocketController) handshake(ws *websocket.Conn) (*auth.Claims, bool) {
	_ = ws.SetReadDeadline(time.Now().Add(authTimeout))

	_, data, err := ws.ReadMessage()
	if err != nil {
		return nil, false
	}

	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil || frame.Type != "auth" || frame.Token == "" {
		ctl.rejectHandshake(ws, "missing or malformed auth frame")
		return nil, false
	}

	claims, err := ctl.verifier.Verify(frame.Token)
	if err != nil {
		ctl.rejectHandshake(ws, "invalid credential")
		return nil, false
	}
	return claims, true
}

func (ctl *ChatSocketController) rejectHandshake(ws *websocket.Conn, reason string) {
	frame := realtime.Envelope{
		Topic: realtime.TopicErrors,
		Data:  errorPayload{Code: "unauthenticated", Error: reason},
	}
	_ = ws.SetWriteDeadline(time.Now().Add(authTimeout))
	_ = ws.WriteJSON(frame)
	_ = ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason),
		time.Now().Add(authTimeout))
}

func (ctl *ChatSocketController) handleMessage(ctx context.Context, session *realtime.Session, senderID int64, frame inboundFrame) {
	mf := messageFrame{ReceiverID: frame.ReceiverID, Content: frame.Content}
	if err := ctl.validate.Struct(mf); err != nil {
		ctl.replyError(session, "validation_error", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(ctx, ctl.timeout)
	defer cancel()

	result, err := ctl.sendUC.Execute(ctx, senderID, usecase.SendMessageInput{
		ReceiverID: frame.ReceiverID,
		Content:    frame.Content,
	})
	if err != nil {
		ctl.replyRoutingError(session, err)
		return
	}

	notification := chatNotification{
		Message:        *result,
		ConversationID: result.ConversationID,
		SenderID:       result.SenderID,
		SenderName:     result.SenderName,
		Timestamp:      time.Now().UTC(),
	}

	delivered := ctl.registry.Push(result.ReceiverAddress, realtime.TopicMessages, notification)
	ctl.registry.Push(result.SenderAddress, realtime.TopicMessages, notification)

	if delivered == 0 {
		ctl.enqueueOfflineNotice(ctx, result)
	}
}

// enqueueOfflineNotice records a durable notice when the receiver had no
// live session. Best-effort: a queue failure is logged and swallowed, the
// message itself is already stored.
func (ctl *ChatSocketController) enqueueOfflineNotice(ctx context.Context, result *usecase.MessageResult) {
	t, err := task.NewOfflineNotice(result.ReceiverID, result.SenderName, result.Content)
	if err != nil {
		ctl.log.Error("offline notice encode failed", "receiver", result.ReceiverID, "error", err)
		return
	}
	opts := qport.EnqueueOption{Queue: "chat", MaxRetry: 10}
	if _, err := ctl.queue.Enqueue(ctx, t, opts); err != nil {
		ctl.log.Error("offline notice dropped",
			"error", errors.Join(chat.ErrDelivery, err), "receiver", result.ReceiverID)
	}
}

// replyRoutingError maps a send failure onto an error frame pushed to the
// sender's own session, never to the receiver.
func (ctl *ChatSocketController) replyRoutingError(session *realtime.Session, err error) {
	switch {
	case errors.Is(err, chat.ErrValidation):
		ctl.replyError(session, "validation_error", err.Error())
	case errors.Is(err, chat.ErrNotPermitted):
		ctl.replyError(session, "not_permitted", err.Error())
	case errors.Is(err, chat.ErrNotFound):
		ctl.replyError(session, "not_found", err.Error())
	case errors.Is(err, usecase.ErrPersistence):
		ctl.replyError(session, "internal_error", "unexpected persistence error")
	default:
		ctl.replyError(session, "bad_request", err.Error())
	}
}

func (ctl *ChatSocketController) replyError(session *realtime.Session, code, message string) {
	frame, err := json.Marshal(realtime.Envelope{
		Topic: realtime.TopicErrors,
		Data:  errorPayload{Code: code, Error: message},
	})
	if err != nil {
		return
	}
	_ = session.Send(frame)
}

func (ctl *ChatSocketController) sendAck(session *realtime.Session, kind string) {
	frame, err := json.Marshal(realtime.Envelope{
		Topic: "system",
		Data:  ackPayload{Type: kind},
	})
	if err != nil {
		return
	}
	_ = session.Send(frame)
}

func isExpectedClose(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived) ||
		errors.Is(err, websocket.ErrCloseSent)
}
