package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hahanic/momo-messenger/internal/infrastructure/auth"
	chat "github.com/Hahanic/momo-messenger/internal/pkg/chat/application/domain"
	"github.com/Hahanic/momo-messenger/internal/pkg/chat/application/usecase"
)

type UpdateRoleController struct {
	UC *usecase.UpdateRoleUseCase
}

type updateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// Handle sets a group member's role. Owner-only for owner assignments.
func (ctl *UpdateRoleController) Handle(c *gin.Context) {
	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}
	switch chat.ParticipantRole(req.Role) {
	case chat.ParticipantRoleMember, chat.ParticipantRoleAdmin, chat.ParticipantRoleOwner:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}

	err := ctl.UC.Execute(c.Request.Context(), usecase.UpdateRoleInput{
		ConversationID: c.Param("chatId"),
		ActorID:        auth.UserID(c),
		TargetID:       c.Param("userId"),
		Role:           chat.ParticipantRole(req.Role),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
