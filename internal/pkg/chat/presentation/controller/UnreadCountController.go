package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hahanic/momo-messenger/internal/infrastructure/auth"
	"github.com/Hahanic/momo-messenger/internal/pkg/chat/application/usecase"
)

type UnreadCountController struct {
	UC *usecase.UnreadCountUseCase
}

// Handle reports the caller's unread count for one conversation. The count is
// capped; clients render the ceiling as "100+".
func (ctl *UnreadCountController) Handle(c *gin.Context) {
	count, err := ctl.UC.Execute(c.Request.Context(), usecase.UnreadCountInput{
		ConversationID: c.Param("chatId"),
		UserID:         auth.UserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}
