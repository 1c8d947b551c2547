package usecase

import (
	"context"
	"fmt"

	chat "github.com/Hahanic/momo-messenger/internal/pkg/chat/application/domain"
	repository "github.com/Hahanic/momo-messenger/internal/pkg/chat/persistence/repository/port"
)

type UnreadCountInput struct {
	ConversationID string
	UserID         string
}

// UnreadCountUseCase counts messages newer than the viewer's read cursor,
// capped so a long-abandoned conversation never triggers a full scan.
type UnreadCountUseCase struct {
	Repo     repository.ConversationRepository
	Messages repository.MessageRepository
}

func NewUnreadCountUseCase(repo repository.ConversationRepository, messages repository.MessageRepository) *UnreadCountUseCase {
	return &UnreadCountUseCase{Repo: repo, Messages: messages}
}

func (uc *UnreadCountUseCase) Execute(ctx context.Context, in UnreadCountInput) (int, error) {
	if in.ConversationID == "" || in.UserID == "" {
		return 0, fmt.Errorf("conversationId and userId are required")
	}

	participant, err := uc.Repo.GetParticipant(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return 0, storeErr(err)
	}
	if participant == nil {
		return 0, chat.ErrNotParticipant
	}

	count, err := uc.Messages.CountAfter(ctx, in.ConversationID, participant.LastReadAt)
	if err != nil {
		return 0, storeErr(err)
	}
	return count, nil
}
