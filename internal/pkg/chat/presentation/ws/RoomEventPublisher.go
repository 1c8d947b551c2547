package ws

import (
	"encoding/json"
	"time"

	"github.com/Hahanic/momo-messenger/internal/infrastructure/metrics"
	"github.com/Hahanic/momo-messenger/internal/infrastructure/realtime"
	chat "github.com/Hahanic/momo-messenger/internal/pkg/chat/application/domain"
	"github.com/Hahanic/momo-messenger/internal/pkg/chat/application/usecase"
)

// MessageDTO is the wire shape of a message in realtime events and REST
// responses.
type MessageDTO struct {
	ID             string            `json:"id"`
	ConversationID string            `json:"conversation_id"`
	SenderID       string            `json:"sender_id"`
	CreatedAt      time.Time         `json:"created_at"`
	Content        *string           `json:"content,omitempty"`
	Media          []chat.Attachment `json:"media,omitempty"`
}

func ToMessageDTO(m chat.Message) MessageDTO {
	return MessageDTO{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		CreatedAt:      m.CreatedAt,
		Content:        m.Content,
		Media:          m.Media,
	}
}

type newMessageEvent struct {
	Type    string     `json:"type"`
	Message MessageDTO `json:"message"`
}

type conversationUpdatedEvent struct {
	Type               string    `json:"type"`
	ConversationID     string    `json:"conversation_id"`
	LastMessageAt      time.Time `json:"last_message_at"`
	LastMessageSnippet string    `json:"last_message_snippet"`
}

// RoomEventPublisher turns pipeline events into websocket frames for the
// conversation room. Events go to every connection in the room, the sender's
// other devices included.
type RoomEventPublisher struct {
	router *realtime.Router
}

func NewRoomEventPublisher(router *realtime.Router) *RoomEventPublisher {
	return &RoomEventPublisher{router: router}
}

var _ usecase.RoomPublisher = (*RoomEventPublisher)(nil)

func (p *RoomEventPublisher) PublishNewMessage(conversationID string, msg chat.Message) {
	payload, err := json.Marshal(newMessageEvent{Type: "newMessage", Message: ToMessageDTO(msg)})
	if err != nil {
		return
	}
	delivered := p.router.Broadcast(conversationID, payload, "")
	metrics.EventsBroadcast.WithLabelValues("newMessage").Add(float64(delivered))
}

func (p *RoomEventPublisher) PublishConversationUpdated(conversationID string, at time.Time, snippet string) {
	payload, err := json.Marshal(conversationUpdatedEvent{
		Type:               "conversationUpdated",
		ConversationID:     conversationID,
		LastMessageAt:      at,
		LastMessageSnippet: snippet,
	})
	if err != nil {
		return
	}
	delivered := p.router.Broadcast(conversationID, payload, "")
	metrics.EventsBroadcast.WithLabelValues("conversationUpdated").Add(float64(delivered))
}
