package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hahanic/momo-messenger/internal/infrastructure/auth"
	"github.com/Hahanic/momo-messenger/internal/pkg/chat/application/usecase"
)

type AddParticipantController struct {
	UC *usecase.AddParticipantUseCase
}

type addParticipantRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// Handle adds a member to a group conversation. Their live connections join the
// room immediately.
func (ctl *AddParticipantController) Handle(c *gin.Context) {
	var req addParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}

	err := ctl.UC.Execute(c.Request.Context(), usecase.AddParticipantInput{
		ConversationID: c.Param("chatId"),
		ActorID:        auth.UserID(c),
		NewMemberID:    req.UserID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
