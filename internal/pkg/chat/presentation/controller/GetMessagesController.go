package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Hahanic/momo-messenger/internal/infrastructure/auth"
	"github.com/Hahanic/momo-messenger/internal/pkg/chat/application/usecase"
	"github.com/Hahanic/momo-messenger/internal/pkg/chat/presentation/ws"
)

type GetMessagesController struct {
	UC *usecase.ListMessagesUseCase
}

// Handle pages backwards through conversation history. ?before= carries the
// created_at of the oldest message the client already holds; the response's
// next_cursor is null once the conversation start is reached.
func (ctl *GetMessagesController) Handle(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))

	res, err := ctl.UC.Execute(c.Request.Context(), usecase.ListMessagesInput{
		ConversationID: c.Param("chatId"),
		ViewerID:       auth.UserID(c),
		Cursor:         c.Query("before"),
		Limit:          limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]ws.MessageDTO, 0, len(res.Messages))
	for _, m := range res.Messages {
		out = append(out, ws.ToMessageDTO(m))
	}
	c.JSON(http.StatusOK, gin.H{"messages": out, "next_cursor": res.NextCursor})
}
