package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Hahanic/momo-messenger/internal/infrastructure/auth"
	chat "github.com/Hahanic/momo-messenger/internal/pkg/chat/application/domain"
	"github.com/Hahanic/momo-messenger/internal/pkg/chat/application/usecase"
)

type ListConversationsController struct {
	UC *usecase.ListConversationsUseCase
}

type conversationOverviewDTO struct {
	ConversationID     string     `json:"conversation_id"`
	IsGroup            bool       `json:"is_group"`
	PeerIDs            []string   `json:"peer_ids,omitempty"`
	LastMessageAt      *time.Time `json:"last_message_at,omitempty"`
	LastMessageSnippet *string    `json:"last_message_snippet,omitempty"`
	UnreadCount        int        `json:"unread_count"`
	IsMuted            bool       `json:"is_muted"`
	IsSticky           bool       `json:"is_sticky"`
	PeerNickname       *string    `json:"peer_nickname,omitempty"`
}

// Handle lists the caller's conversations, sticky first, most recent first.
func (ctl *ListConversationsController) Handle(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	overviews, err := ctl.UC.Execute(c.Request.Context(), usecase.ListConversationsInput{
		UserID: auth.UserID(c),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]conversationOverviewDTO, 0, len(overviews))
	for _, ov := range overviews {
		out = append(out, toOverviewDTO(ov))
	}
	c.JSON(http.StatusOK, gin.H{"conversations": out})
}

func toOverviewDTO(ov chat.ConversationOverview) conversationOverviewDTO {
	return conversationOverviewDTO{
		ConversationID:     ov.Conversation.ID,
		IsGroup:            ov.Conversation.IsGroup,
		PeerIDs:            ov.PeerIDs,
		LastMessageAt:      ov.Conversation.LastMessageAt,
		LastMessageSnippet: ov.Conversation.LastMessageSnippet,
		UnreadCount:        ov.UnreadCount,
		IsMuted:            ov.Viewer.IsMuted,
		IsSticky:           ov.Viewer.IsSticky,
		PeerNickname:       ov.Viewer.PeerNickname,
	}
}
