package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"chatline/internal/auth"
	cacheport "chatline/internal/infrastructure/cache/port"
	qport "chatline/internal/infrastructure/queue/port"
	"chatline/internal/infrastructure/realtime"
	"chatline/internal/pkg/chat/application/usecase"
	repoAdapter "chatline/internal/pkg/chat/persistence/repository/adapter"
	"chatline/internal/pkg/chat/presentation/controller"
	identityAdapter "chatline/internal/pkg/identity/adapter"
)

// Deps bundles the shared infrastructure handed down from main.
type Deps struct {
	Pool     *pgxpool.Pool
	Cache    cacheport.Cache
	Queue    qport.Client
	Registry *realtime.Registry
	Verifier *auth.Verifier
	Log      *slog.Logger

	ProfileCacheTTL time.Duration
	RequestTimeout  time.Duration
	SendTimeout     time.Duration
}

// RegisterRoutes wires repositories, collaborator adapters and use cases,
// then binds the chat endpoints under the given router group.
func RegisterRoutes(g *gin.RouterGroup, deps Deps) {
	conversations := repoAdapter.NewPgConversationRepository(deps.Pool)
	messages := repoAdapter.NewPgMessageRepository(deps.Pool)

	graph := identityAdapter.NewPgGraph(deps.Pool)
	directory := identityAdapter.NewCachedDirectory(
		identityAdapter.NewPgDirectory(deps.Pool), deps.Cache, deps.ProfileCacheTTL, deps.Log)

	sendUC := usecase.NewSendMessageUseCase(conversations, messages, graph, directory, deps.Log)
	conversationsUC := usecase.NewGetConversationsUseCase(conversations, messages, directory, deps.Log)
	messagesUC := usecase.NewGetMessagesUseCase(conversations, messages)
	markReadUC := usecase.NewMarkReadUseCase(conversations, messages, directory, deps.Registry, deps.Log)
	unreadUC := usecase.NewUnreadCountUseCase(messages)
	canChatUC := usecase.NewCanChatUseCase(graph)

	socketCtl := controller.NewChatSocketController(
		deps.Registry, deps.Verifier, sendUC, deps.Queue, deps.Log, deps.SendTimeout)

	authed := g.Group("/chat", auth.Middleware(deps.Verifier))
	authed.GET("/conversations", controller.NewGetConversationsController(conversationsUC, deps.RequestTimeout).Handle())
	authed.GET("/conversations/:conversationId/messages", controller.NewGetMessagesController(messagesUC, deps.RequestTimeout).Handle())
	authed.POST("/conversations/:conversationId/read", controller.NewMarkReadController(markReadUC, deps.RequestTimeout).Handle())
	authed.GET("/unread-count", controller.NewUnreadCountController(unreadUC, deps.RequestTimeout).Handle())
	authed.GET("/can-chat/:userId", controller.NewCanChatController(canChatUC, deps.RequestTimeout).Handle())

	// The websocket endpoint authenticates in-band via the handshake frame.
	g.GET("/chat/ws", socketCtl.Handle())
}
