package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Hahanic/momo-messenger/internal/infrastructure/auth"
	"github.com/Hahanic/momo-messenger/internal/pkg/chat/application/usecase"
)

type MarkReadController struct {
	UC *usecase.MarkReadUseCase
}

type markReadRequest struct {
	At *time.Time `json:"at"`
}

// Handle advances the caller's read cursor. Omitting "at" means "read up to now".
func (ctl *MarkReadController) Handle(c *gin.Context) {
	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}

	in := usecase.MarkReadInput{
		ConversationID: c.Param("chatId"),
		UserID:         auth.UserID(c),
	}
	if req.At != nil {
		in.At = *req.At
	}

	if err := ctl.UC.Execute(c.Request.Context(), in); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
