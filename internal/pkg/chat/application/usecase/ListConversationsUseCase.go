package usecase

import (
	"context"
	"fmt"

	chat "github.com/Hahanic/momo-messenger/internal/pkg/chat/application/domain"
	repository "github.com/Hahanic/momo-messenger/internal/pkg/chat/persistence/repository/port"
)

const (
	defaultConversationPage = 20
	maxConversationPage     = 100
)

type ListConversationsInput struct {
	UserID string
	Limit  int
	Offset int
}

// ListConversationsUseCase returns the viewer's conversation list ordered
// sticky-first, then by most recent activity, each row carrying the viewer's
// capped unread count.
type ListConversationsUseCase struct {
	Repo repository.ConversationRepository
}

func NewListConversationsUseCase(repo repository.ConversationRepository) *ListConversationsUseCase {
	return &ListConversationsUseCase{Repo: repo}
}

func (uc *ListConversationsUseCase) Execute(ctx context.Context, in ListConversationsInput) ([]chat.ConversationOverview, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("userId is required")
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultConversationPage
	}
	if limit > maxConversationPage {
		limit = maxConversationPage
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}

	overviews, err := uc.Repo.ListForUser(ctx, in.UserID, limit, offset)
	if err != nil {
		return nil, storeErr(err)
	}
	return overviews, nil
}
