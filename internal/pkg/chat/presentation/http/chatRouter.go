package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/Hahanic/momo-messenger/internal/infrastructure/auth"
	cacheport "github.com/Hahanic/momo-messenger/internal/infrastructure/cache/port"
	qport "github.com/Hahanic/momo-messenger/internal/infrastructure/queue/port"
	"github.com/Hahanic/momo-messenger/internal/infrastructure/realtime"
	"github.com/Hahanic/momo-messenger/internal/pkg/chat/application/task"
	"github.com/Hahanic/momo-messenger/internal/pkg/chat/application/usecase"
	"github.com/Hahanic/momo-messenger/internal/pkg/chat/persistence/cache"
	"github.com/Hahanic/momo-messenger/internal/pkg/chat/persistence/repository/adapter"
	"github.com/Hahanic/momo-messenger/internal/pkg/chat/presentation/controller"
	"github.com/Hahanic/momo-messenger/internal/pkg/chat/presentation/ws"
	useradapter "github.com/Hahanic/momo-messenger/internal/pkg/user/persistence/repository/adapter"
)

// Deps carries the shared infrastructure the chat endpoints are built on.
// Cache and Queue may be nil; the affected paths degrade gracefully.
type Deps struct {
	Pool   *pgxpool.Pool
	Cache  cacheport.Cache
	Queue  qport.Client
	Router *realtime.Router
	Tokens *auth.TokenManager
	Logger zerolog.Logger
}

// RegisterRoutes constructs the per-endpoint controllers and binds them under
// the given group. All chat routes require authentication.
func RegisterRoutes(g *gin.RouterGroup, deps Deps) {
	convRepo := adapter.NewPgConversationRepository(deps.Pool)
	msgRepo := adapter.NewPgMessageRepository(deps.Pool)
	userRepo := useradapter.NewPgUserRepository(deps.Pool)
	publisher := ws.NewRoomEventPublisher(deps.Router)
	broadcaster := realtime.NewBroadcaster(deps.Router)

	var roomCache *cache.RoomCache
	if deps.Cache != nil {
		roomCache = cache.NewRoomCache(deps.Cache, deps.Logger)
	}

	ingest := usecase.NewIngestMessageUseCase(convRepo, msgRepo, publisher)
	ingest.Presence = deps.Router.Registry()
	if deps.Queue != nil {
		ingest.Notifier = task.NewOfflineNotifyProducer(deps.Queue, deps.Logger)
	}

	var invalidator usecase.RoomCacheInvalidator
	var resolverCache usecase.RoomCache
	if roomCache != nil {
		invalidator = roomCache
		resolverCache = roomCache
	}

	createUC := usecase.NewCreateConversationUseCase(convRepo, invalidator, deps.Router)
	listUC := usecase.NewListConversationsUseCase(convRepo)
	messagesUC := usecase.NewListMessagesUseCase(convRepo, msgRepo)
	markReadUC := usecase.NewMarkReadUseCase(convRepo)
	unreadUC := usecase.NewUnreadCountUseCase(convRepo, msgRepo)
	prefsUC := usecase.NewUpdateParticipantUseCase(convRepo)
	addUC := usecase.NewAddParticipantUseCase(convRepo, invalidator, deps.Router)
	leaveUC := usecase.NewLeaveConversationUseCase(convRepo, invalidator, deps.Router)
	roleUC := usecase.NewUpdateRoleUseCase(convRepo)
	resolveUC := usecase.NewResolveRoomsUseCase(convRepo, deps.Router.Registry(), resolverCache, deps.Logger)

	createCtl := &controller.CreateConversationController{UC: createUC}
	listCtl := &controller.ListConversationsController{UC: listUC}
	sendCtl := &controller.SendMessageController{UC: ingest}
	getCtl := &controller.GetMessagesController{UC: messagesUC}
	readCtl := &controller.MarkReadController{UC: markReadUC}
	unreadCtl := &controller.UnreadCountController{UC: unreadUC}
	prefsCtl := &controller.UpdateParticipantController{UC: prefsUC}
	addCtl := &controller.AddParticipantController{UC: addUC}
	leaveCtl := &controller.LeaveConversationController{UC: leaveUC}
	roleCtl := &controller.UpdateRoleController{UC: roleUC}
	socketCtl := &controller.ChatSocketController{
		Router:      deps.Router,
		Broadcaster: broadcaster,
		Resolver:    resolveUC,
		Ingest:      ingest,
		MarkRead:    markReadUC,
		Users:       userRepo,
		Logger:      deps.Logger,
	}

	authed := g.Group("", auth.Middleware(deps.Tokens))

	authed.POST("/chat", createCtl.Handle)
	authed.GET("/chat", listCtl.Handle)
	authed.GET("/chat/:chatId/messages", getCtl.Handle)
	authed.POST("/chat/:chatId/messages", sendCtl.Handle)
	authed.POST("/chat/:chatId/read", readCtl.Handle)
	authed.GET("/chat/:chatId/unread", unreadCtl.Handle)
	authed.PATCH("/chat/:chatId/participant", prefsCtl.Handle)
	authed.POST("/chat/:chatId/participants", addCtl.Handle)
	authed.DELETE("/chat/:chatId/participants", leaveCtl.Handle)
	authed.PATCH("/chat/:chatId/participants/:userId/role", roleCtl.Handle)
	authed.GET("/chat/ws", socketCtl.Handle)
}
