package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hahanic/momo-messenger/internal/infrastructure/auth"
	"github.com/Hahanic/momo-messenger/internal/infrastructure/metrics"
	chat "github.com/Hahanic/momo-messenger/internal/pkg/chat/application/domain"
	"github.com/Hahanic/momo-messenger/internal/pkg/chat/application/usecase"
	"github.com/Hahanic/momo-messenger/internal/pkg/chat/presentation/ws"
)

type SendMessageController struct {
	UC *usecase.IngestMessageUseCase
}

type sendMessageRequest struct {
	Content *string           `json:"content"`
	Media   []chat.Attachment `json:"media"`
}

// Handle ingests a message posted over REST. The same pipeline backs socket
// frames, so ordering and fan-out behave identically on both transports.
func (ctl *SendMessageController) Handle(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}

	msg, err := ctl.UC.Execute(c.Request.Context(), usecase.IngestMessageInput{
		ConversationID: c.Param("chatId"),
		SenderID:       auth.UserID(c),
		Content:        req.Content,
		Media:          req.Media,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	metrics.MessagesIngested.Inc()
	c.JSON(http.StatusCreated, gin.H{"message": ws.ToMessageDTO(*msg)})
}
