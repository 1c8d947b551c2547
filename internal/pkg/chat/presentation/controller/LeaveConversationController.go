package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hahanic/momo-messenger/internal/infrastructure/auth"
	"github.com/Hahanic/momo-messenger/internal/pkg/chat/application/usecase"
)

type LeaveConversationController struct {
	UC *usecase.LeaveConversationUseCase
}

// Handle removes the caller from a group conversation.
func (ctl *LeaveConversationController) Handle(c *gin.Context) {
	err := ctl.UC.Execute(c.Request.Context(), usecase.LeaveConversationInput{
		ConversationID: c.Param("chatId"),
		UserID:         auth.UserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
