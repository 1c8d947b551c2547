package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	chat "github.com/Hahanic/momo-messenger/internal/pkg/chat/application/domain"
	"github.com/Hahanic/momo-messenger/internal/pkg/chat/application/usecase"
)

// clientSafeErrors are the application sentinels whose text may be shown to a
// client verbatim.
var clientSafeErrors = []error{
	chat.ErrNotFound,
	chat.ErrNotParticipant,
	chat.ErrInsufficientRole,
	chat.ErrEmptyMessage,
	chat.ErrTooFewMembers,
	chat.ErrPrivatePairSize,
	chat.ErrNicknameGroupChat,
	chat.ErrNotGroupChat,
	usecase.ErrBadCursor,
}

// clientErrText reduces an application error to a message safe to send over
// the wire. Store failures and anything unrecognized keep their underlying
// detail (driver text, SQL) out of client frames.
func clientErrText(err error) string {
	for _, sentinel := range clientSafeErrors {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	if errors.Is(err, usecase.ErrPersistence) {
		return "storage temporarily unavailable"
	}
	return "internal error"
}

// respondError maps application errors onto HTTP status codes. Store failures
// surface as 503 so clients can retry; everything unrecognized is a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
	case errors.Is(err, chat.ErrNotParticipant), errors.Is(err, chat.ErrInsufficientRole):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, chat.ErrTooFewMembers),
		errors.Is(err, chat.ErrPrivatePairSize),
		errors.Is(err, chat.ErrNicknameGroupChat),
		errors.Is(err, chat.ErrNotGroupChat),
		errors.Is(err, usecase.ErrBadCursor):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrPersistence):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
