package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Hahanic/momo-messenger/internal/infrastructure/auth"
	"github.com/Hahanic/momo-messenger/internal/infrastructure/metrics"
	"github.com/Hahanic/momo-messenger/internal/infrastructure/realtime"
	chat "github.com/Hahanic/momo-messenger/internal/pkg/chat/application/domain"
	"github.com/Hahanic/momo-messenger/internal/pkg/chat/application/usecase"
	userrepo "github.com/Hahanic/momo-messenger/internal/pkg/user/persistence/repository/port"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// ChatSocketController owns the websocket lifecycle: handshake, room join,
// connected ack, initial presence snapshot, inbound frame dispatch, teardown.
type ChatSocketController struct {
	Router      *realtime.Router
	Broadcaster *realtime.Broadcaster
	Resolver    *usecase.ResolveRoomsUseCase
	Ingest      *usecase.IngestMessageUseCase
	MarkRead    *usecase.MarkReadUseCase
	Users       userrepo.UserRepository // optional
	Logger      zerolog.Logger
}

// inboundFrame is the envelope for all client-to-server frames.
type inboundFrame struct {
	Type           string            `json:"type"`
	ConversationID string            `json:"conversation_id"`
	Content        *string           `json:"content,omitempty"`
	Media          []chat.Attachment `json:"media,omitempty"`
	At             *time.Time        `json:"at,omitempty"`
}

type connectedEvent struct {
	Type        string  `json:"type"`
	ConnID      string  `json:"conn_id"`
	UserID      string  `json:"user_id"`
	DisplayName *string `json:"display_name,omitempty"`
}

type presenceInitEvent struct {
	Type        string   `json:"type"`
	OnlineUsers []string `json:"online_users"`
}

type errorEvent struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// Handle upgrades the request and serves the connection until the peer
// disconnects. Authentication already ran in middleware (token query fallback
// included), so an unauthenticated request never reaches the upgrade.
func (ctl *ChatSocketController) Handle(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing credentials"})
		return
	}

	wsConn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		ctl.Logger.Warn().Err(err).Str("userId", userID).Msg("websocket upgrade failed")
		return
	}

	conn := realtime.NewConnection(userID, wsConn)
	conn.Start()
	isFirst := ctl.Router.Attach(conn)
	metrics.WSConnections.Inc()

	ctl.Logger.Info().Str("userId", userID).Str("connId", conn.ConnID()).Bool("first", isFirst).Msg("connection opened")

	// Room resolution is best effort: a store outage degrades to an empty room
	// set instead of rejecting the connection.
	resolved, err := ctl.Resolver.Execute(c.Request.Context(), userID)
	if err != nil {
		resolved = &usecase.ResolveRoomsResult{}
	}
	for _, roomID := range resolved.RoomIDs {
		ctl.Router.Join(roomID, conn)
	}

	_ = conn.SendJSON(connectedEvent{
		Type:        "connected",
		ConnID:      conn.ConnID(),
		UserID:      userID,
		DisplayName: ctl.displayName(c.Request.Context(), userID),
	})

	online := resolved.OnlinePeers
	if online == nil {
		online = []string{}
	}
	_ = conn.SendJSON(presenceInitEvent{Type: "presence:init", OnlineUsers: online})

	ctl.Broadcaster.OnConnect(userID, isFirst, resolved.RoomIDs)

	conn.ReadLoop(func(payload []byte) {
		ctl.dispatch(conn, payload)
	})

	// ReadLoop returned: the peer is gone.
	roomIDs := ctl.Router.RoomsOf(conn)
	isNowOffline := ctl.Router.Detach(conn)
	ctl.Broadcaster.OnDisconnect(userID, isNowOffline, roomIDs)
	metrics.WSConnections.Dec()
	ctl.Logger.Info().Str("userId", userID).Str("connId", conn.ConnID()).Bool("offline", isNowOffline).Msg("connection closed")
}

// dispatch routes one inbound frame. Frame handling runs on the connection's
// read goroutine; a slow store stalls only this client, never the fan-out path.
func (ctl *ChatSocketController) dispatch(conn *realtime.Connection, payload []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		_ = conn.SendJSON(errorEvent{Type: "error", Error: "malformed frame"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch frame.Type {
	case "message":
		_, err := ctl.Ingest.Execute(ctx, usecase.IngestMessageInput{
			ConversationID: frame.ConversationID,
			SenderID:       conn.User(),
			Content:        frame.Content,
			Media:          frame.Media,
		})
		if err != nil {
			_ = conn.SendJSON(errorEvent{Type: "error", Error: clientErrText(err)})
			return
		}
		metrics.MessagesIngested.Inc()

	case "read":
		in := usecase.MarkReadInput{ConversationID: frame.ConversationID, UserID: conn.User()}
		if frame.At != nil {
			in.At = *frame.At
		}
		if err := ctl.MarkRead.Execute(ctx, in); err != nil {
			_ = conn.SendJSON(errorEvent{Type: "error", Error: clientErrText(err)})
		}

	case "leave":
		// Transient unsubscribe for this connection only; membership itself is
		// removed over REST. Any of the user's other devices keep receiving.
		ctl.Router.Leave(frame.ConversationID, conn)

	default:
		_ = conn.SendJSON(errorEvent{Type: "error", Error: "unknown frame type"})
	}
}

func (ctl *ChatSocketController) displayName(ctx context.Context, userID string) *string {
	if ctl.Users == nil {
		return nil
	}
	u, err := ctl.Users.FindByID(ctx, userID)
	if err != nil || u == nil {
		return nil
	}
	return &u.DisplayName
}
