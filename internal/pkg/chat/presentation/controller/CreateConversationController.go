package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hahanic/momo-messenger/internal/infrastructure/auth"
	"github.com/Hahanic/momo-messenger/internal/pkg/chat/application/usecase"
)

type CreateConversationController struct {
	UC *usecase.CreateConversationUseCase
}

type createConversationRequest struct {
	IsGroup   bool     `json:"is_group"`
	MemberIDs []string `json:"member_ids" binding:"required"`
}

// Handle creates a group conversation, or resolves the existing private
// conversation for a pair. 201 when a conversation was created, 200 when an
// existing private one was returned.
func (ctl *CreateConversationController) Handle(c *gin.Context) {
	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}

	res, err := ctl.UC.Execute(c.Request.Context(), usecase.CreateConversationInput{
		CreatorID: auth.UserID(c),
		IsGroup:   req.IsGroup,
		MemberIDs: req.MemberIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"conversation_id": res.ConversationID, "created": res.Created})
}
