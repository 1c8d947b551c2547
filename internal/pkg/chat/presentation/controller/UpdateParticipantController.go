package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hahanic/momo-messenger/internal/infrastructure/auth"
	chat "github.com/Hahanic/momo-messenger/internal/pkg/chat/application/domain"
	"github.com/Hahanic/momo-messenger/internal/pkg/chat/application/usecase"
)

type UpdateParticipantController struct {
	UC *usecase.UpdateParticipantUseCase
}

type updateParticipantRequest struct {
	IsMuted      *bool   `json:"is_muted"`
	IsSticky     *bool   `json:"is_sticky"`
	PeerNickname *string `json:"peer_nickname"`
}

// Handle patches the caller's own per-conversation settings. Absent fields are
// left unchanged; peer_nickname is accepted for private conversations only,
// and an empty string removes a previously set nickname.
func (ctl *UpdateParticipantController) Handle(c *gin.Context) {
	var req updateParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}

	err := ctl.UC.Execute(c.Request.Context(), usecase.UpdateParticipantInput{
		ConversationID: c.Param("chatId"),
		UserID:         auth.UserID(c),
		Prefs: chat.ParticipantPrefs{
			IsMuted:      req.IsMuted,
			IsSticky:     req.IsSticky,
			PeerNickname: req.PeerNickname,
		},
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
